package repository

import (
	"context"

	"github.com/google/uuid"
)

// InsertAgentResultParams captures one model invocation for audit: the raw
// text the model returned alongside the parsed (or defaulted) analysis.
type InsertAgentResultParams struct {
	UserID       uuid.UUID
	EntityID     uuid.UUID
	ScanID       uuid.UUID
	Model        string
	AgentVersion string
	RawOutput    string
	Parsed       []byte
	Success      bool
}

func (r *Repository) InsertAgentResult(ctx context.Context, params InsertAgentResultParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ai_agent_results (user_id, entity_id, scan_id, model, agent_version, raw_output, parsed, success)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, params.UserID, params.EntityID, params.ScanID, params.Model,
		params.AgentVersion, params.RawOutput, params.Parsed, params.Success)
	return err
}
