package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Events recorded on the per-entity history log.
const (
	HistoryDiscovered = "discovered"
	HistoryUpdated    = "updated"
	HistoryEnriched   = "enriched"
)

// HistoryEntry is an append-only event on an entity's timeline.
type HistoryEntry struct {
	ID        uuid.UUID
	EntityID  uuid.UUID
	UserID    uuid.UUID
	ScanID    uuid.UUID
	SourceID  uuid.UUID
	Event     string
	CreatedAt time.Time
}

type AddHistoryParams struct {
	EntityID uuid.UUID
	UserID   uuid.UUID
	ScanID   uuid.UUID
	SourceID uuid.UUID
	Event    string
}

func (r *Repository) AddHistory(ctx context.Context, params AddHistoryParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prospect_history (entity_id, user_id, scan_id, source_id, event)
		VALUES ($1, $2, $3, $4, $5)
	`, params.EntityID, params.UserID, params.ScanID, params.SourceID, params.Event)
	return err
}

func (r *Repository) ListHistory(ctx context.Context, userID, entityID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, entity_id, user_id, scan_id, source_id, event, created_at
		FROM prospect_history
		WHERE entity_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`, entityID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(
			&entry.ID, &entry.EntityID, &entry.UserID, &entry.ScanID,
			&entry.SourceID, &entry.Event, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return entries, nil
}
