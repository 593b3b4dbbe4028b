package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sunriseyouth/backend/internal/model"
)

// PgContentRepository is the PostgreSQL implementation of ContentRepository.
// Payloads live in a JSONB column.
type PgContentRepository struct {
	pool *pgxpool.Pool
}

// NewPgContentRepository creates a PgContentRepository backed by the given pool.
func NewPgContentRepository(pool *pgxpool.Pool) *PgContentRepository {
	return &PgContentRepository{pool: pool}
}

var _ ContentRepository = (*PgContentRepository)(nil)

// Get returns the document stored under id. A row whose data column is
// NULL or not a JSON object is returned with a nil Data.
func (r *PgContentRepository) Get(ctx context.Context, id string) (*model.Content, error) {
	var (
		c   model.Content
		raw []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, data, updated_at FROM content WHERE id = $1`, id).
		Scan(&c.ID, &raw, &c.UpdatedAt)
	if err != nil {
		return nil, pgErr("content.get", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &c.Data); err != nil {
			c.Data = nil
		}
	}
	return &c, nil
}

// Upsert replaces the payload of id, inserting the row on first write.
func (r *PgContentRepository) Upsert(ctx context.Context, id string, data map[string]any, at time.Time) (model.UpsertResult, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx,
		`INSERT INTO content (id, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		 RETURNING (xmax = 0)`,
		id, data, at,
	).Scan(&inserted)
	if err != nil {
		return model.UpsertResult{}, pgErr("content.upsert", err)
	}
	if inserted {
		return model.UpsertResult{Upserted: 1}, nil
	}
	return model.UpsertResult{Matched: 1, Modified: 1}, nil
}
