package cart

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStorage keeps the cart in a single JSON file, written atomically via a
// temp file and rename.
type FileStorage struct {
	Path string
}

func (f FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (f FileStorage) Save(data []byte) error {
	tmp := f.Path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
