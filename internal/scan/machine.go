// Package scan implements the prospect ingestion pipeline: a fixed-order
// state machine that turns one ingested source into canonical prospect
// entities with deep intelligence attached.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	scanevents "github.com/msoyaph/nexscout-sub003/internal/events"
	"github.com/msoyaph/nexscout-sub003/internal/scan/agent"
	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/learning"
	"github.com/msoyaph/nexscout-sub003/internal/scan/match"
	"github.com/msoyaph/nexscout-sub003/internal/scan/normalize"
	"github.com/msoyaph/nexscout-sub003/internal/scan/parser"
	"github.com/msoyaph/nexscout-sub003/internal/scan/preprocess"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/platform/events"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

// ProgressFunc receives the working context after every state transition.
type ProgressFunc func(domain.ScanContext)

// EntityStore is the contact graph access the pipeline needs.
type EntityStore interface {
	repository.EntityReader
	repository.EntityWriter
}

// MachineStores groups the persistence the state machine writes through.
type MachineStores struct {
	Sources   repository.SourceStore
	Queue     repository.QueueStore
	Snapshots repository.SnapshotStore
	Entities  EntityStore
	Intel     repository.IntelStore
	History   repository.HistoryStore
}

// Machine drives one scan through the fixed pipeline order, persisting a
// snapshot of the working context at every transition. Stages pass the
// context by value; two concurrent scans share nothing but the database.
type Machine struct {
	stores       MachineStores
	parser       *parser.Agent
	normalizer   *normalize.Normalizer
	intelAgent   *agent.Agent
	loop         *learning.Loop
	bus          events.Bus
	log          *logger.Logger
	excerptLimit int
}

func NewMachine(stores MachineStores, p *parser.Agent, n *normalize.Normalizer, a *agent.Agent, l *learning.Loop, bus events.Bus, log *logger.Logger, excerptLimit int) *Machine {
	return &Machine{
		stores:       stores,
		parser:       p,
		normalizer:   n,
		intelAgent:   a,
		loop:         l,
		bus:          bus,
		log:          log,
		excerptLimit: excerptLimit,
	}
}

// Run executes the pipeline for one scan. Parse and model failures are
// absorbed by their stages; anything else transitions to ERROR, persists
// the message and returns the error so the caller can mark the queue row
// failed.
func (m *Machine) Run(ctx context.Context, scanID, userID, sourceID uuid.UUID, progress ProgressFunc) error {
	sc := domain.NewScanContext(scanID, userID, sourceID)
	if err := m.transition(ctx, &sc, domain.StateIdle, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}

	// PREPROCESSING: load the source, decode its typed payload and extract
	// text, structure and language.
	if err := m.transition(ctx, &sc, domain.StatePreprocessing, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	src, err := m.stores.Sources.GetSource(ctx, sourceID)
	if err != nil {
		return m.fail(ctx, sc, fmt.Errorf("load source %s: %w", sourceID, err), progress)
	}
	if src.UserID != userID {
		return m.fail(ctx, sc, fmt.Errorf("source %s does not belong to user %s", sourceID, userID), progress)
	}
	payload, err := domain.DecodePayload(domain.SourceType(src.SourceType), src.RawPayload)
	if err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	pre := preprocess.Classify(payload)
	sc.RawText = pre.RawText
	sc.Structure = pre.Structure
	sc.Language = pre.Language

	// PARSING: format-specific extraction, total by contract.
	if err := m.transition(ctx, &sc, domain.StateParsing, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	sc.Drafts = m.parser.Parse(sc.RawText, sc.Structure)

	// ENTITY_MATCHING: canonicalize every draft's fields.
	if err := m.transition(ctx, &sc, domain.StateEntityMatching, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	sc.Normalized = m.normalizer.Drafts(sc.Drafts)

	// ENRICHING: resolve drafts against the user's contact graph.
	if err := m.transition(ctx, &sc, domain.StateEnriching, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	candidates, err := m.stores.Entities.ListEntitiesForMatching(ctx, userID)
	if err != nil {
		return m.fail(ctx, sc, fmt.Errorf("load contact graph: %w", err), progress)
	}
	sc.Normalized = match.Resolve(sc.Normalized, candidates)

	// DEEP_SCANNING: upsert entities and run the intelligence agent per
	// resolved entity. The agent absorbs model failures internally.
	if err := m.transition(ctx, &sc, domain.StateDeepScanning, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	discovered, enriched, err := m.deepScan(ctx, &sc)
	if err != nil {
		return m.fail(ctx, sc, err, progress)
	}

	// ASSEMBLING_INTEL: the per-entity intel is already upserted; the
	// state exists as an extension point for cross-entity aggregation.
	if err := m.transition(ctx, &sc, domain.StateAssemblingIntel, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}

	// SAVING: append the history log and flip the source's processed flag.
	if err := m.transition(ctx, &sc, domain.StateSaving, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	if err := m.save(ctx, sc, discovered, enriched); err != nil {
		return m.fail(ctx, sc, err, progress)
	}

	// LEARNING_UPDATE: fold the outcome into the user's profile and close
	// out the queue row.
	if err := m.transition(ctx, &sc, domain.StateLearningUpdate, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	if _, err := m.loop.RecordScan(ctx, userID, scanID, len(sc.EntityIDs)); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	if err := m.stores.Queue.MarkQueueCompleted(ctx, scanID); err != nil {
		return m.fail(ctx, sc, err, progress)
	}

	if err := m.transition(ctx, &sc, domain.StateComplete, progress); err != nil {
		return m.fail(ctx, sc, err, progress)
	}
	m.bus.Publish(ctx, scanevents.NewScanCompleted(scanID, userID, len(sc.EntityIDs)))
	return nil
}

// deepScan persists one entity per normalized draft and attaches intel.
// It returns the set of entity ids created (rather than updated) during
// this scan, and the set whose intel came from a real model response
// rather than the neutral default.
func (m *Machine) deepScan(ctx context.Context, sc *domain.ScanContext) (discovered, enriched map[uuid.UUID]bool, err error) {
	discovered = make(map[uuid.UUID]bool)
	enriched = make(map[uuid.UUID]bool)
	excerpt := truncate(sc.RawText, m.excerptLimit)

	for _, draft := range sc.Normalized {
		params := repository.UpsertEntityParams{
			UserID:       sc.UserID,
			DisplayName:  displayNameFor(draft),
			FirstName:    draft.FirstName,
			LastName:     draft.LastName,
			Emails:       draft.Emails,
			Phones:       draft.Phones,
			Facebook:     draft.Handles.Facebook,
			Instagram:    draft.Handles.Instagram,
			LinkedIn:     draft.Handles.LinkedIn,
			TikTok:       draft.Handles.TikTok,
			LastSourceID: sc.SourceID,
		}

		var entity repository.ProspectEntity
		var err error
		if draft.MatchedEntityID != nil {
			entity, err = m.stores.Entities.UpdateEntity(ctx, *draft.MatchedEntityID, params)
		} else {
			entity, err = m.stores.Entities.CreateEntity(ctx, params)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("persist entity for %q: %w", params.DisplayName, err)
		}

		if draft.MatchedEntityID == nil {
			discovered[entity.ID] = true
			m.bus.Publish(ctx, scanevents.NewProspectDiscovered(sc.ScanID, sc.UserID, entity.ID))
		}
		sc.EntityIDs = append(sc.EntityIDs, entity.ID)

		analysis := m.intelAgent.Analyze(ctx, agent.Request{
			UserID:   sc.UserID,
			ScanID:   sc.ScanID,
			Entity:   entity,
			Excerpt:  excerpt,
			Language: sc.Language,
		})

		parsed, err := json.Marshal(analysis.Result)
		if err != nil {
			return nil, nil, fmt.Errorf("encode intel for entity %s: %w", entity.ID, err)
		}
		if err := m.stores.Intel.UpsertIntel(ctx, repository.UpsertIntelParams{
			EntityID:     entity.ID,
			UserID:       sc.UserID,
			Score:        analysis.Result.Score,
			Confidence:   analysis.Result.Confidence,
			Analysis:     parsed,
			ModelUsed:    analysis.ModelUsed,
			AgentVersion: m.intelAgent.Version(),
		}); err != nil {
			return nil, nil, fmt.Errorf("persist intel for entity %s: %w", entity.ID, err)
		}
		if !analysis.Defaulted {
			enriched[entity.ID] = true
		}
	}

	return discovered, enriched, nil
}

func (m *Machine) save(ctx context.Context, sc domain.ScanContext, discovered, enriched map[uuid.UUID]bool) error {
	for _, entityID := range sc.EntityIDs {
		event := repository.HistoryUpdated
		if discovered[entityID] {
			event = repository.HistoryDiscovered
		}
		if err := m.stores.History.AddHistory(ctx, repository.AddHistoryParams{
			EntityID: entityID,
			UserID:   sc.UserID,
			ScanID:   sc.ScanID,
			SourceID: sc.SourceID,
			Event:    event,
		}); err != nil {
			return fmt.Errorf("append history for entity %s: %w", entityID, err)
		}
		if !enriched[entityID] {
			continue
		}
		if err := m.stores.History.AddHistory(ctx, repository.AddHistoryParams{
			EntityID: entityID,
			UserID:   sc.UserID,
			ScanID:   sc.ScanID,
			SourceID: sc.SourceID,
			Event:    repository.HistoryEnriched,
		}); err != nil {
			return fmt.Errorf("append history for entity %s: %w", entityID, err)
		}
	}

	if err := m.stores.Sources.MarkSourceProcessed(ctx, sc.SourceID); err != nil {
		return fmt.Errorf("mark source processed: %w", err)
	}
	return nil
}

// transition advances the context to the next state and persists the
// snapshot before the stage's work runs, so an interrupted scan is
// observable at the state it died in.
func (m *Machine) transition(ctx context.Context, sc *domain.ScanContext, state domain.ScanState, progress ProgressFunc) error {
	sc.State = state

	if err := m.persistSnapshot(ctx, *sc); err != nil {
		return fmt.Errorf("persist %s snapshot: %w", state, err)
	}

	m.log.ScanTransition(sc.ScanID.String(), string(state), domain.Progress(state))
	m.bus.Publish(ctx, scanevents.NewScanProgressed(sc.ScanID, sc.UserID, string(state), domain.Progress(state)))
	if progress != nil {
		progress(*sc)
	}
	return nil
}

func (m *Machine) persistSnapshot(ctx context.Context, sc domain.ScanContext) error {
	body, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	var errMsg *string
	if sc.Error != "" {
		errMsg = &sc.Error
	}
	return m.stores.Snapshots.UpsertSnapshot(ctx, repository.UpsertSnapshotParams{
		ScanID:       sc.ScanID,
		UserID:       sc.UserID,
		CurrentState: string(sc.State),
		Context:      body,
		Error:        errMsg,
	})
}

// fail transitions to the terminal ERROR state, persists the message and
// returns the original error for the caller's queue supervision.
func (m *Machine) fail(ctx context.Context, sc domain.ScanContext, cause error, progress ProgressFunc) error {
	m.log.ScanFailure(sc.ScanID.String(), string(sc.State), cause)

	sc.State = domain.StateError
	sc.Error = cause.Error()

	if err := m.persistSnapshot(ctx, sc); err != nil {
		m.log.DatabaseError("persist error snapshot", err)
	}
	m.bus.Publish(ctx, scanevents.NewScanFailed(sc.ScanID, sc.UserID, string(domain.StateError), cause.Error()))
	if progress != nil {
		progress(sc)
	}
	return cause
}

// displayNameFor picks the name an entity row is keyed on when the draft
// has none: first email, then first phone.
func displayNameFor(d domain.DraftProspect) string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	if name := strings.TrimSpace(d.FirstName + " " + d.LastName); name != "" {
		return name
	}
	if len(d.Emails) > 0 {
		return d.Emails[0]
	}
	if len(d.Phones) > 0 {
		return d.Phones[0]
	}
	return "Unknown Prospect"
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 rune.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
