// Package agent runs the deep intelligence analysis: one model call per
// resolved entity, with an ordered list of capability tiers and a neutral
// default when every tier fails. The agent never returns an error to the
// pipeline; a scan completes with default intel rather than dying on a
// model outage.
package agent

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/platform/ai"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

// Tier is one capability level in the fallback chain. MinEnergy gates
// expensive tiers behind the user's wallet balance; a tier with
// MinEnergy 0 is always eligible.
type Tier struct {
	Model     ai.TextModel
	MinEnergy int
}

// Request identifies one analysis: the entity under scrutiny plus the
// scan and source context it came from.
type Request struct {
	UserID   uuid.UUID
	ScanID   uuid.UUID
	Entity   repository.ProspectEntity
	Excerpt  string
	Language domain.Language
}

// Analysis is the outcome of one analysis run.
type Analysis struct {
	Result    DeepIntelResult
	ModelUsed string
	Defaulted bool
}

// Agent orchestrates tier selection, the model call, response parsing and
// the audit trail.
type Agent struct {
	tiers   []Tier
	wallets repository.WalletReader
	results repository.AgentResultStore
	version string
	log     *logger.Logger
}

func New(tiers []Tier, wallets repository.WalletReader, results repository.AgentResultStore, version string, log *logger.Logger) *Agent {
	return &Agent{
		tiers:   tiers,
		wallets: wallets,
		results: results,
		version: version,
		log:     log,
	}
}

// Version identifies the agent build recorded on audit and intel rows.
func (a *Agent) Version() string { return a.version }

// Analyze runs the tier chain for one entity. Eligible tiers are tried in
// order; the first tier whose call succeeds and parses wins. Every
// attempt is audited. When no tier produces a usable result, the neutral
// default is returned and audited with an empty model name.
func (a *Agent) Analyze(ctx context.Context, req Request) Analysis {
	energy, err := a.wallets.GetWalletEnergy(ctx, req.UserID)
	if err != nil {
		a.log.DatabaseError("wallet energy lookup", err)
		energy = 0
	}

	prompt := buildPrompt(req.Entity, req.Excerpt, req.Language)

	var prevModel string
	for _, tier := range a.tiers {
		if tier.Model == nil {
			continue
		}
		name := tier.Model.Name()
		if energy < tier.MinEnergy {
			a.log.AgentFallback(req.Entity.ID.String(), name, "", "insufficient energy")
			continue
		}

		raw, err := tier.Model.Generate(ctx, prompt)
		if err != nil {
			a.log.AgentFallback(req.Entity.ID.String(), prevModel, name, err.Error())
			prevModel = name
			a.audit(ctx, req, name, "", DefaultResult(), false)
			continue
		}

		result, ok := parseResult(raw)
		a.audit(ctx, req, name, raw, result, ok)
		if !ok {
			a.log.AgentFallback(req.Entity.ID.String(), prevModel, name, "unparseable response")
			prevModel = name
			continue
		}

		return Analysis{Result: result, ModelUsed: name}
	}

	result := DefaultResult()
	a.audit(ctx, req, "", "", result, false)
	return Analysis{Result: result, Defaulted: true}
}

func (a *Agent) audit(ctx context.Context, req Request, model, raw string, result DeepIntelResult, success bool) {
	parsed, err := json.Marshal(result)
	if err != nil {
		parsed = nil
	}
	if err := a.results.InsertAgentResult(ctx, repository.InsertAgentResultParams{
		UserID:       req.UserID,
		EntityID:     req.Entity.ID,
		ScanID:       req.ScanID,
		Model:        model,
		AgentVersion: a.version,
		RawOutput:    raw,
		Parsed:       parsed,
		Success:      success,
	}); err != nil {
		a.log.DatabaseError("agent result audit", err)
	}
}
