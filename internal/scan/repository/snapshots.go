package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScanSnapshot is the persisted working context of a scan, one row per
// scan id, overwritten at every state transition.
type ScanSnapshot struct {
	ScanID       uuid.UUID
	UserID       uuid.UUID
	CurrentState string
	Context      []byte
	Error        *string
	UpdatedAt    time.Time
}

type UpsertSnapshotParams struct {
	ScanID       uuid.UUID
	UserID       uuid.UUID
	CurrentState string
	Context      []byte
	Error        *string
}

func (r *Repository) UpsertSnapshot(ctx context.Context, params UpsertSnapshotParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO scan_state_snapshots (scan_id, user_id, current_state, context, error)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (scan_id) DO UPDATE
		SET current_state = EXCLUDED.current_state,
		    context = EXCLUDED.context,
		    error = EXCLUDED.error,
		    updated_at = now()
	`, params.ScanID, params.UserID, params.CurrentState, params.Context, params.Error)
	return err
}

func (r *Repository) GetSnapshot(ctx context.Context, scanID uuid.UUID) (ScanSnapshot, error) {
	var snap ScanSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT scan_id, user_id, current_state, context, error, updated_at
		FROM scan_state_snapshots
		WHERE scan_id = $1
	`, scanID).Scan(
		&snap.ScanID, &snap.UserID, &snap.CurrentState, &snap.Context, &snap.Error, &snap.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ScanSnapshot{}, ErrNotFound
	}
	return snap, err
}
