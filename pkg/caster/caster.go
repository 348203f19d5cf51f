package caster

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ChannelCaster converts values to and from the text frames sent over a channel.
type ChannelCaster[T any] interface {
	From(string) (T, error)
	To(T) (string, error)
}

type JSONChannelCaster[T any] struct{}

func (jc JSONChannelCaster[T]) From(data string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(data), &v)
	return v, errors.Wrapf(err, "decoding %T", v)
}

func (jc JSONChannelCaster[T]) To(v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrapf(err, "encoding %T", v)
	}
	return string(data), nil
}
