package store

import (
	"context"
	"errors"
	"time"
)

// Document is a schema-flexible record persisted in a named collection.
// Stores assign the "id" and "createdAt" fields on insert; callers should not
// set them.
type Document map[string]interface{}

// Query narrows a List call. Field/Value apply an equality filter on a
// top-level document field; Limit caps the result size (0 means no limit).
// Results are always ordered by creation time, newest first.
type Query struct {
	Field string
	Value string
	Limit int
}

var ErrNotFound = errors.New("document not found")

// DocumentStore persists JSON-like documents in named collections. Every
// write targets a fresh document; records are never mutated after insert.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string, query Query) ([]Document, error)
	Close() error
}

var timeNow = time.Now

func serverTimestamp() time.Time {
	return timeNow().UTC()
}
