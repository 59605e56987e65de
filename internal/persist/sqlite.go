package persist

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps documents in a single SQLite database, one row per
// (namespace, id). Selectable via the config `backend: sqlite` setting for
// users who prefer one file over a directory tree.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			namespace TEXT NOT NULL,
			id        TEXT NOT NULL,
			data      BLOB NOT NULL,
			PRIMARY KEY (namespace, id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(namespace, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM documents WHERE namespace = ? AND id = ?`,
		namespace, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", namespace, id, err)
	}
	return data, nil
}

func (s *SQLiteStore) List(namespace string) ([]Document, error) {
	rows, err := s.db.Query(
		`SELECT id, data FROM documents WHERE namespace = ? ORDER BY id`,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", namespace, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Write(namespace, id string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (namespace, id, data) VALUES (?, ?, ?)
		ON CONFLICT (namespace, id) DO UPDATE SET data = excluded.data`,
		namespace, id, data,
	)
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", namespace, id, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(namespace, id string) error {
	result, err := s.db.Exec(
		`DELETE FROM documents WHERE namespace = ? AND id = ?`,
		namespace, id,
	)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", namespace, id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
