// Package docstore defines the hierarchical document store the workflow
// runs against. Paths alternate collection and document segments, e.g.
// Patients/{id}/ClinicalIndicators/{category}/Records/{key}: an even number
// of segments names a document, an odd number names a collection.
package docstore

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Fields is the schemaless field set of a document.
type Fields map[string]interface{}

// Document is a stored document together with its location.
type Document struct {
	Path   string
	ID     string
	Fields Fields
}

// Store is the minimal document-store contract consumed by the workflow.
// Implementations provide last-write-wins, per-document atomic writes; no
// cross-document transactions are assumed anywhere.
type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (*Document, error)
	// Set fully overwrites the document at path, creating it if absent.
	Set(ctx context.Context, path string, fields Fields) error
	// Update merges fields into the document at path, or ErrNotFound.
	Update(ctx context.Context, path string, fields Fields) error
	// Delete removes the document at path. Deleting a missing document
	// is not an error.
	Delete(ctx context.Context, path string) error
	// Query returns up to limit documents in the collection whose field
	// equals value. limit <= 0 means no limit.
	Query(ctx context.Context, collection, field string, value interface{}, limit int) ([]*Document, error)
	// ListDocuments returns every document in the collection.
	ListDocuments(ctx context.Context, collection string) ([]*Document, error)
	// ListChildren returns the distinct next path segments under path:
	// document ids for a collection path, sub-collection names for a
	// document path. Segments that exist only as ancestors of deeper
	// documents are included.
	ListChildren(ctx context.Context, path string) ([]string, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Split returns the collection path and document id of a document path.
func Split(path string) (collection, id string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
