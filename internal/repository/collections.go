package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lib/pq"
)

// PostgresCollectionRepository stores named JSON collections in the
// collections table, one row per name.
type PostgresCollectionRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCollectionRepository creates a new PostgresCollectionRepository using the provided *sql.DB.
func NewPostgresCollectionRepository(db *sql.DB) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{DB: db}
}

// GetAll fetches the stored documents for names. Names without a row are
// absent from the result.
//
//	ctx:   context for cancellation and deadlines
//	names: collection names to load
//
// Returns a map of name to raw JSON or an error if the query or scanning fails.
func (r *PostgresCollectionRepository) GetAll(ctx context.Context, names []string) (map[string]json.RawMessage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT name, data FROM collections WHERE name = ANY($1)
	`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage, len(names))
	for rows.Next() {
		var (
			name string
			data []byte
		)
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[name] = json.RawMessage(data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Upsert replaces the documents for every name in data within one
// transaction. Names are written in sorted order.
func (r *PostgresCollectionRepository) Upsert(ctx context.Context, data map[string]json.RawMessage) error {
	if len(data) == 0 {
		return nil
	}
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		// jsonb parameters go as text; lib/pq would send []byte as bytea
		_, err := tx.ExecContext(ctx, `
			INSERT INTO collections (name, data, updated_at) VALUES ($1, $2::jsonb, now())
			ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
		`, name, string(data[name]))
		if err != nil {
			return fmt.Errorf("upsert %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
