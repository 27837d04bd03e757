package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore is the durable backend. Documents live in a single table with
// a JSONB payload column, queried by field equality and creation-time order.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table if it does not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		collection TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("error creating documents table: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS documents_collection_created_at_idx
		ON documents (collection, created_at DESC)`)
	if err != nil {
		return fmt.Errorf("error creating documents index: %w", err)
	}
	return nil
}

func (p *PostgresStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error encoding document: %w", err)
	}

	id := uuid.NewString()
	_, err = p.db.ExecContext(ctx,
		"INSERT INTO documents (id, collection, data, created_at) VALUES ($1, $2, $3, $4)",
		id, collection, payload, serverTimestamp())
	if err != nil {
		return "", fmt.Errorf("error inserting document: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	row := p.db.QueryRowContext(ctx,
		"SELECT data, created_at FROM documents WHERE collection = $1 AND id = $2",
		collection, id)

	var payload []byte
	var createdAt sql.NullTime
	if err := row.Scan(&payload, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading document: %w", err)
	}
	return decodeDocument(id, payload, createdAt)
}

func (p *PostgresStore) List(ctx context.Context, collection string, query Query) ([]Document, error) {
	sqlQuery := "SELECT id, data, created_at FROM documents WHERE collection = $1"
	args := []interface{}{collection}
	if query.Field != "" {
		sqlQuery += fmt.Sprintf(" AND data->>$%d = $%d", len(args)+1, len(args)+2)
		args = append(args, query.Field, query.Value)
	}
	sqlQuery += " ORDER BY created_at DESC"
	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, query.Limit)
	}

	rows, err := p.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	results := []Document{}
	for rows.Next() {
		var id string
		var payload []byte
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		doc, err := decodeDocument(id, payload, createdAt)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return results, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func decodeDocument(id string, payload []byte, createdAt sql.NullTime) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	doc["id"] = id
	if createdAt.Valid {
		doc["createdAt"] = createdAt.Time
	}
	return doc, nil
}
