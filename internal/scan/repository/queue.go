package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Queue entry statuses. A scan's queue row always reaches completed or
// failed; no run ends without a terminal status being persisted.
const (
	QueuePending   = "pending"
	QueueRunning   = "running"
	QueueCompleted = "completed"
	QueueFailed    = "failed"
)

// ScanQueueEntry tracks one queued scan from enqueue to terminal status.
type ScanQueueEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SourceID    uuid.UUID
	Status      string
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type CreateQueueEntryParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	SourceID uuid.UUID
}

func (r *Repository) CreateQueueEntry(ctx context.Context, params CreateQueueEntryParams) (ScanQueueEntry, error) {
	var entry ScanQueueEntry
	err := r.pool.QueryRow(ctx, `
		INSERT INTO scan_queue (id, user_id, source_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, source_id, status, error, created_at, updated_at, completed_at
	`, params.ID, params.UserID, params.SourceID, QueuePending).Scan(
		&entry.ID, &entry.UserID, &entry.SourceID, &entry.Status,
		&entry.Error, &entry.CreatedAt, &entry.UpdatedAt, &entry.CompletedAt,
	)
	return entry, err
}

func (r *Repository) GetQueueEntry(ctx context.Context, id uuid.UUID) (ScanQueueEntry, error) {
	var entry ScanQueueEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, source_id, status, error, created_at, updated_at, completed_at
		FROM scan_queue
		WHERE id = $1
	`, id).Scan(
		&entry.ID, &entry.UserID, &entry.SourceID, &entry.Status,
		&entry.Error, &entry.CreatedAt, &entry.UpdatedAt, &entry.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ScanQueueEntry{}, ErrNotFound
	}
	return entry, err
}

func (r *Repository) MarkQueueRunning(ctx context.Context, id uuid.UUID) error {
	return r.setQueueStatus(ctx, id, QueueRunning, nil, false)
}

func (r *Repository) MarkQueueCompleted(ctx context.Context, id uuid.UUID) error {
	return r.setQueueStatus(ctx, id, QueueCompleted, nil, true)
}

func (r *Repository) MarkQueueFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.setQueueStatus(ctx, id, QueueFailed, &reason, true)
}

func (r *Repository) setQueueStatus(ctx context.Context, id uuid.UUID, status string, reason *string, terminal bool) error {
	var completedAt any
	if terminal {
		completedAt = time.Now().UTC()
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE scan_queue
		SET status = $2, error = $3, completed_at = $4, updated_at = now()
		WHERE id = $1
	`, id, status, reason, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
