// Package repository persists the scan pipeline's durable records:
// ingested sources, the scan queue, state snapshots, prospect entities,
// intel, history, agent audit rows and learning profiles.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ProspectSource is one ingested batch of raw prospect data.
type ProspectSource struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	SourceType string
	RawPayload []byte
	Processed  bool
	CreatedAt  time.Time
}

type CreateSourceParams struct {
	UserID     uuid.UUID
	SourceType string
	RawPayload []byte
}

func (r *Repository) CreateSource(ctx context.Context, params CreateSourceParams) (ProspectSource, error) {
	var src ProspectSource
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prospect_sources (user_id, source_type, raw_payload)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, source_type, raw_payload, processed, created_at
	`, params.UserID, params.SourceType, params.RawPayload).Scan(
		&src.ID, &src.UserID, &src.SourceType, &src.RawPayload, &src.Processed, &src.CreatedAt,
	)
	return src, err
}

func (r *Repository) GetSource(ctx context.Context, id uuid.UUID) (ProspectSource, error) {
	var src ProspectSource
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, source_type, raw_payload, processed, created_at
		FROM prospect_sources
		WHERE id = $1
	`, id).Scan(&src.ID, &src.UserID, &src.SourceType, &src.RawPayload, &src.Processed, &src.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProspectSource{}, ErrNotFound
	}
	return src, err
}

// MarkSourceProcessed flips the processed flag. The pipeline calls it only
// after a fully successful run, so a failed scan leaves the source
// re-scannable.
func (r *Repository) MarkSourceProcessed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE prospect_sources SET processed = true WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
