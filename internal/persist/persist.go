// Package persist provides the document store the core stores persist
// through: one JSON document per entity id, grouped into namespaces.
package persist

import "errors"

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Namespaces used by the core stores.
const (
	NSCollections  = "collections"
	NSEnvironments = "environments"
	NSHistory      = "history"
	NSCookies      = "cookies"
)

// Document is a stored entity: raw JSON addressable by id within a namespace.
type Document struct {
	ID   string
	Data []byte
}

// Store is the persistence port. Reading a missing document yields
// ErrNotFound, never a crash; List skips unreadable entries.
type Store interface {
	Read(namespace, id string) ([]byte, error)
	List(namespace string) ([]Document, error)
	Write(namespace, id string, data []byte) error
	Delete(namespace, id string) error
	Close() error
}
