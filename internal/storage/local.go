package storage

import (
	"os"
	"path/filepath"
)

// LocalStorage stores blobs on the local filesystem under a base folder.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	// Create directory if it doesn't exist
	os.MkdirAll(basePath, 0755)
	return &LocalStorage{basePath: basePath}
}

func (s *LocalStorage) Save(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *LocalStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *LocalStorage) BlobPath(name string) string {
	return filepath.Join(s.basePath, name)
}
