package records

import "github.com/pkg/errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrDuplicate    = errors.New("duplicate record")
	ErrNotFound     = errors.New("record not found")
	ErrCorruptState = errors.New("corrupt state")
	ErrUnauthorized = errors.New("unauthorized")
)

func validationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
