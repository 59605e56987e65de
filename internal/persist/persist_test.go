package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]Store{
		"file":   fileStore,
		"mem":    NewMemStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Write(NSCollections, "c1", []byte(`{"id":"c1"}`)); err != nil {
				t.Fatalf("write: %v", err)
			}

			data, err := store.Read(NSCollections, "c1")
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(data) != `{"id":"c1"}` {
				t.Errorf("read = %q", data)
			}

			// Overwrite replaces the document.
			if err := store.Write(NSCollections, "c1", []byte(`{"id":"c1","v":2}`)); err != nil {
				t.Fatalf("rewrite: %v", err)
			}
			data, _ = store.Read(NSCollections, "c1")
			if string(data) != `{"id":"c1","v":2}` {
				t.Errorf("after rewrite = %q", data)
			}

			if err := store.Delete(NSCollections, "c1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Read(NSCollections, "c1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("read after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Read(NSEnvironments, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("read missing = %v, want ErrNotFound", err)
			}
			if err := store.Delete(NSEnvironments, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("delete missing = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreListIsolatesNamespaces(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			store.Write(NSCollections, "a", []byte(`{}`))
			store.Write(NSCollections, "b", []byte(`{}`))
			store.Write(NSEnvironments, "e", []byte(`{}`))

			docs, err := store.List(NSCollections)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(docs) != 2 {
				t.Fatalf("len(list) = %d, want 2", len(docs))
			}
			for _, doc := range docs {
				if doc.ID != "a" && doc.ID != "b" {
					t.Errorf("unexpected doc id %q", doc.ID)
				}
			}
		})
	}
}

func TestFileStoreSkipsUnreadableEntries(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	store.Write(NSCollections, "good", []byte(`{"id":"good"}`))

	// A subdirectory matching the glob must not abort the listing.
	if err := os.MkdirAll(filepath.Join(dir, NSCollections, "stray.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := store.List(NSCollections)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "good" {
		t.Errorf("list = %+v, want only the readable document", docs)
	}
}
