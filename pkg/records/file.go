package records

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"rallytimesbot/pkg/model"

	"github.com/pkg/errors"
)

// FileBackend stores the records as an indented JSON array in a single file.
// It does not lock the file, two processes sharing it will overwrite each other.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) Load(ctx context.Context) ([]model.StageRecord, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return []model.StageRecord{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", f.path)
	}

	var records []model.StageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(ErrCorruptState, "%s: %s", f.path, err)
	}
	if records == nil {
		records = []model.StageRecord{}
	}
	return records, nil
}

// Save writes to a temporary file next to the target and renames it over the
// target, so a crash never leaves a truncated file behind.
func (f *FileBackend) Save(ctx context.Context, records []model.StageRecord) error {
	if records == nil {
		records = []model.StageRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding records")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "syncing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", tmpName)
	}

	return errors.Wrapf(os.Rename(tmpName, f.path), "replacing %s", f.path)
}

func (f *FileBackend) Reset(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", f.path)
	}
	return nil
}
