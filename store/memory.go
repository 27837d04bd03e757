package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	id        string
	createdAt time.Time
	fields    Document
}

// MemoryStore keeps documents in process memory, newest first. It backs the
// demo deployment and the test suite; contents are lost on restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]memoryEntry)}
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	entry := memoryEntry{
		id:        uuid.NewString(),
		createdAt: serverTimestamp(),
		fields:    make(Document, len(doc)),
	}
	for key, value := range doc {
		entry.fields[key] = value
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Prepend so the collection stays ordered newest first.
	m.collections[collection] = append([]memoryEntry{entry}, m.collections[collection]...)
	return entry.id, nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.collections[collection] {
		if entry.id == id {
			return entry.document(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context, collection string, query Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []Document{}
	for _, entry := range m.collections[collection] {
		if query.Field != "" && fmt.Sprint(entry.fields[query.Field]) != query.Value {
			continue
		}
		results = append(results, entry.document())
		if query.Limit > 0 && len(results) == query.Limit {
			break
		}
	}
	return results, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func (e memoryEntry) document() Document {
	doc := make(Document, len(e.fields)+2)
	for key, value := range e.fields {
		doc[key] = value
	}
	doc["id"] = e.id
	doc["createdAt"] = e.createdAt
	return doc
}
