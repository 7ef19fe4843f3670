package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const slotExt = ".yaml"

// FileStore keeps each slot in <dir>/<slot>.yaml.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Read(slot string) ([]byte, error) {
	path, err := s.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: read %s: %w", slot, ErrSlotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", slot, err)
	}
	return data, nil
}

// Write replaces the slot atomically: a reader never sees a half-written
// file.
func (s *FileStore) Write(slot string, data []byte) error {
	path, err := s.path(slot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("storage: write %s: %w", slot, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+slot+"-*")
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", slot, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Delete(slot string) error {
	path, err := s.path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) path(slot string) (string, error) {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return "", fmt.Errorf("storage: invalid slot name %q", slot)
	}
	return filepath.Join(s.dir, slot+slotExt), nil
}
