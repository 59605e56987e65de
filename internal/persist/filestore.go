package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each document as {id}.json inside a per-namespace
// subdirectory of the data directory.
type FileStore struct {
	root string
}

// NewFileStore creates a file-backed store rooted at dir, creating it if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{root: dir}, nil
}

func (s *FileStore) path(namespace, id string) string {
	return filepath.Join(s.root, namespace, id+".json")
}

func (s *FileStore) Read(namespace, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(namespace, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s/%s: %w", namespace, id, err)
	}
	return data, nil
}

func (s *FileStore) List(namespace string) ([]Document, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, namespace, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", namespace, err)
	}
	docs := make([]Document, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			// One unreadable file must not abort the listing.
			continue
		}
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, nil
}

func (s *FileStore) Write(namespace, id string, data []byte) error {
	dir := filepath.Join(s.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating namespace %s: %w", namespace, err)
	}
	if err := os.WriteFile(s.path(namespace, id), data, 0o644); err != nil {
		return fmt.Errorf("writing %s/%s: %w", namespace, id, err)
	}
	return nil
}

func (s *FileStore) Delete(namespace, id string) error {
	err := os.Remove(s.path(namespace, id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", namespace, id, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
