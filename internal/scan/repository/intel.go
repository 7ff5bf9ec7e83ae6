package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProspectIntel is the rolling latest AI analysis for an entity, one row
// per entity, overwritten on every scan that touches it.
type ProspectIntel struct {
	EntityID     uuid.UUID
	UserID       uuid.UUID
	Score        int
	Confidence   float64
	Analysis     []byte
	ModelUsed    string
	AgentVersion string
	UpdatedAt    time.Time
}

type UpsertIntelParams struct {
	EntityID     uuid.UUID
	UserID       uuid.UUID
	Score        int
	Confidence   float64
	Analysis     []byte
	ModelUsed    string
	AgentVersion string
}

func (r *Repository) UpsertIntel(ctx context.Context, params UpsertIntelParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prospect_intel (entity_id, user_id, score, confidence, analysis, model_used, agent_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (entity_id) DO UPDATE
		SET score = EXCLUDED.score,
		    confidence = EXCLUDED.confidence,
		    analysis = EXCLUDED.analysis,
		    model_used = EXCLUDED.model_used,
		    agent_version = EXCLUDED.agent_version,
		    updated_at = now()
	`, params.EntityID, params.UserID, params.Score, params.Confidence,
		params.Analysis, params.ModelUsed, params.AgentVersion)
	return err
}

func (r *Repository) GetIntel(ctx context.Context, userID, entityID uuid.UUID) (ProspectIntel, error) {
	var intel ProspectIntel
	err := r.pool.QueryRow(ctx, `
		SELECT entity_id, user_id, score, confidence, analysis, model_used, agent_version, updated_at
		FROM prospect_intel
		WHERE entity_id = $1 AND user_id = $2
	`, entityID, userID).Scan(
		&intel.EntityID, &intel.UserID, &intel.Score, &intel.Confidence,
		&intel.Analysis, &intel.ModelUsed, &intel.AgentVersion, &intel.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProspectIntel{}, ErrNotFound
	}
	return intel, err
}
