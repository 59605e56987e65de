package model

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named, persisted tree of requests and folders. Request and
// folder ids are unique within a collection's subtree, not across collections.
type Collection struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Requests    []*Request `json:"requests"`
	Folders     []*Folder  `json:"folders"`
	Variables   []Variable `json:"variables,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Folder is a nested grouping node inside a collection. ParentID is a
// non-owning back-reference used for lookups only.
type Folder struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Requests    []*Request `json:"requests"`
	Folders     []*Folder  `json:"folders"`
	ParentID    string     `json:"parentId,omitempty"`
}

// NewCollection creates an empty collection with a fresh id.
func NewCollection(name string) *Collection {
	now := time.Now()
	return &Collection{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFolder creates an empty folder with a fresh id.
func NewFolder(name, parentID string) *Folder {
	return &Folder{
		ID:       uuid.New().String(),
		Name:     name,
		ParentID: parentID,
	}
}

// Environment is a named set of variables. At most one environment is active
// at a time; that invariant is enforced by the environment store.
type Environment struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Variables   []Variable `json:"variables"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewEnvironment creates an empty environment with a fresh id.
func NewEnvironment(name string) *Environment {
	now := time.Now()
	return &Environment{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
