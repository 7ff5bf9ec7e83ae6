// Package service exposes the scan pipeline's narrow API: start a scan,
// poll its status, fetch assembled intel, list and search prospects.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	scanevents "github.com/msoyaph/nexscout-sub003/internal/events"
	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/internal/scan/transport"
	"github.com/msoyaph/nexscout-sub003/platform/apperr"
	"github.com/msoyaph/nexscout-sub003/platform/events"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
	searchLimit      = 50
)

// Launcher hands a queued scan to whatever executes it: the asynq
// scheduler in the two-process deployment, or a supervised in-process
// goroutine in the single-binary one.
type Launcher interface {
	Launch(ctx context.Context, scanID, userID, sourceID uuid.UUID) error
}

// CaptureArchiver mirrors raw payloads to object storage for audit and
// replay. Optional; a nil archiver disables archiving.
type CaptureArchiver interface {
	Store(ctx context.Context, userID, scanID uuid.UUID, payload []byte) error
	Fetch(ctx context.Context, userID, scanID uuid.UUID) ([]byte, error)
}

// Stores groups the persistence the service reads and writes.
type Stores struct {
	Sources   repository.SourceStore
	Queue     repository.QueueStore
	Snapshots repository.SnapshotStore
	Entities  repository.EntityReader
	Intel     repository.IntelStore
	History   repository.HistoryStore
	Learning  repository.LearningStore
}

type Service struct {
	stores   Stores
	launcher Launcher
	archive  CaptureArchiver
	bus      events.Bus
	log      *logger.Logger
}

func New(stores Stores, launcher Launcher, archive CaptureArchiver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		stores:   stores,
		launcher: launcher,
		archive:  archive,
		bus:      bus,
		log:      log,
	}
}

// StartScan validates the payload, persists the source and a pending
// queue row, archives the capture and hands the scan to the launcher.
// It returns the scan id immediately; progress is observed by polling.
func (s *Service) StartScan(ctx context.Context, req transport.StartScanRequest) (transport.StartScanResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return transport.StartScanResponse{}, apperr.Validation("invalid user id")
	}

	sourceType := domain.SourceType(req.SourceType)
	if !sourceType.Valid() {
		return transport.StartScanResponse{}, apperr.Validation("unrecognized source type: " + req.SourceType)
	}
	if _, err := domain.DecodePayload(sourceType, req.Payload); err != nil {
		return transport.StartScanResponse{}, apperr.Wrap(apperr.KindValidation, "malformed payload", err)
	}

	src, err := s.stores.Sources.CreateSource(ctx, repository.CreateSourceParams{
		UserID:     userID,
		SourceType: string(sourceType),
		RawPayload: req.Payload,
	})
	if err != nil {
		return transport.StartScanResponse{}, apperr.Wrap(apperr.KindInternal, "persist source", err)
	}

	scanID := uuid.New()
	entry, err := s.stores.Queue.CreateQueueEntry(ctx, repository.CreateQueueEntryParams{
		ID:       scanID,
		UserID:   userID,
		SourceID: src.ID,
	})
	if err != nil {
		return transport.StartScanResponse{}, apperr.Wrap(apperr.KindInternal, "enqueue scan", err)
	}

	if s.archive != nil {
		if err := s.archive.Store(ctx, userID, scanID, req.Payload); err != nil {
			// Archiving is audit support, not pipeline input.
			s.log.Warn("capture_archive_failed",
				"scan_id", scanID.String(), "error", err.Error())
		}
	}

	s.bus.Publish(ctx, scanevents.NewScanQueued(scanID, userID, src.ID))

	if err := s.launcher.Launch(ctx, scanID, userID, src.ID); err != nil {
		if qerr := s.stores.Queue.MarkQueueFailed(ctx, scanID, "launch failed: "+err.Error()); qerr != nil {
			s.log.DatabaseError("mark queue failed", qerr)
		}
		return transport.StartScanResponse{}, apperr.Wrap(apperr.KindInternal, "launch scan", err)
	}

	return transport.StartScanResponse{ScanID: scanID.String(), Status: entry.Status}, nil
}

// GetScanStatus merges the queue row with the latest snapshot. Rows that
// do not exist yet degrade to unknown/IDLE defaults rather than 404s, so
// a client may poll immediately after StartScan returns.
func (s *Service) GetScanStatus(ctx context.Context, scanID uuid.UUID) (transport.ScanStatusResponse, error) {
	resp := transport.ScanStatusResponse{
		ScanID:  scanID.String(),
		Status:  "unknown",
		State:   string(domain.StateIdle),
		Label:   domain.StateIdle.Label(),
		Percent: domain.Progress(domain.StateIdle),
	}

	entry, err := s.stores.Queue.GetQueueEntry(ctx, scanID)
	switch {
	case err == nil:
		resp.Status = entry.Status
		resp.Error = entry.Error
	case !errors.Is(err, repository.ErrNotFound):
		return transport.ScanStatusResponse{}, apperr.Wrap(apperr.KindInternal, "read scan queue", err)
	}

	snap, err := s.stores.Snapshots.GetSnapshot(ctx, scanID)
	switch {
	case err == nil:
		state := domain.ScanState(snap.CurrentState)
		resp.State = snap.CurrentState
		resp.Label = state.Label()
		resp.Percent = domain.Progress(state)
		resp.Context = snap.Context
		if snap.Error != nil {
			resp.Error = snap.Error
		}
	case !errors.Is(err, repository.ErrNotFound):
		return transport.ScanStatusResponse{}, apperr.Wrap(apperr.KindInternal, "read scan snapshot", err)
	}

	return resp, nil
}

// GetProspectIntel performs three independent user-scoped reads: the
// entity (required), its intel and its history (both optional).
func (s *Service) GetProspectIntel(ctx context.Context, userID, prospectID uuid.UUID) (transport.ProspectIntelResponse, error) {
	entity, err := s.stores.Entities.GetEntity(ctx, userID, prospectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ProspectIntelResponse{}, apperr.NotFound("prospect not found")
		}
		return transport.ProspectIntelResponse{}, apperr.Wrap(apperr.KindInternal, "read prospect", err)
	}

	resp := transport.ProspectIntelResponse{
		Entity:  toProspectResponse(entity),
		History: []transport.HistoryEventResponse{},
	}

	intel, err := s.stores.Intel.GetIntel(ctx, userID, prospectID)
	switch {
	case err == nil:
		resp.Intel = toIntelResponse(intel)
	case !errors.Is(err, repository.ErrNotFound):
		return transport.ProspectIntelResponse{}, apperr.Wrap(apperr.KindInternal, "read intel", err)
	}

	history, err := s.stores.History.ListHistory(ctx, userID, prospectID)
	if err != nil {
		return transport.ProspectIntelResponse{}, apperr.Wrap(apperr.KindInternal, "read history", err)
	}
	for _, entry := range history {
		resp.History = append(resp.History, transport.HistoryEventResponse{
			Event:     entry.Event,
			ScanID:    entry.ScanID,
			SourceID:  entry.SourceID,
			CreatedAt: entry.CreatedAt,
		})
	}

	return resp, nil
}

// ListProspects pages through the user's contact graph, most recently
// updated first.
func (s *Service) ListProspects(ctx context.Context, userID uuid.UUID, limit, offset int) (transport.ProspectListResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	entities, total, err := s.stores.Entities.ListEntities(ctx, repository.ListEntitiesParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return transport.ProspectListResponse{}, apperr.Wrap(apperr.KindInternal, "list prospects", err)
	}

	return transport.ProspectListResponse{
		Items:  toProspectResponses(entities),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// SearchProspects matches display names by case-insensitive substring.
func (s *Service) SearchProspects(ctx context.Context, userID uuid.UUID, query string) ([]transport.ProspectResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}

	entities, err := s.stores.Entities.SearchEntities(ctx, userID, query, searchLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search prospects", err)
	}
	return toProspectResponses(entities), nil
}

// GetScanCapture replays the archived raw payload of a scan, scoped to
// its owner. Unavailable when no archive is configured.
func (s *Service) GetScanCapture(ctx context.Context, userID, scanID uuid.UUID) (transport.ScanCaptureResponse, error) {
	if s.archive == nil {
		return transport.ScanCaptureResponse{}, apperr.NotFound("capture archival is not enabled")
	}

	entry, err := s.stores.Queue.GetQueueEntry(ctx, scanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ScanCaptureResponse{}, apperr.NotFound("scan not found")
		}
		return transport.ScanCaptureResponse{}, apperr.Wrap(apperr.KindInternal, "read scan", err)
	}
	if entry.UserID != userID {
		return transport.ScanCaptureResponse{}, apperr.NotFound("scan not found")
	}

	payload, err := s.archive.Fetch(ctx, userID, scanID)
	if err != nil {
		return transport.ScanCaptureResponse{}, apperr.Wrap(apperr.KindNotFound, "capture not archived", err)
	}

	return transport.ScanCaptureResponse{
		ScanID:  scanID.String(),
		Payload: json.RawMessage(payload),
	}, nil
}

// GetLearningProfile reports the user's aggregate scan statistics. A
// user with no completed scans gets a zero-valued profile.
func (s *Service) GetLearningProfile(ctx context.Context, userID uuid.UUID) (transport.LearningProfileResponse, error) {
	profile, err := s.stores.Learning.GetLearningProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LearningProfileResponse{}, nil
		}
		return transport.LearningProfileResponse{}, apperr.Wrap(apperr.KindInternal, "read learning profile", err)
	}

	updatedAt := profile.UpdatedAt
	return transport.LearningProfileResponse{
		TotalScans:          profile.TotalScans,
		TotalProspects:      profile.TotalProspects,
		AvgProspectsPerScan: profile.AvgProspectsPerScan,
		UpdatedAt:           &updatedAt,
	}, nil
}

func toProspectResponses(entities []repository.EntityWithIntel) []transport.ProspectResponse {
	items := make([]transport.ProspectResponse, len(entities))
	for i, entity := range entities {
		items[i] = toProspectResponse(entity.Entity)
		if entity.Intel != nil {
			items[i].Intel = toIntelResponse(*entity.Intel)
		}
	}
	return items
}

func toIntelResponse(intel repository.ProspectIntel) *transport.IntelResponse {
	return &transport.IntelResponse{
		Score:        intel.Score,
		Confidence:   intel.Confidence,
		Analysis:     json.RawMessage(intel.Analysis),
		ModelUsed:    intel.ModelUsed,
		AgentVersion: intel.AgentVersion,
		UpdatedAt:    intel.UpdatedAt,
	}
}

func toProspectResponse(e repository.ProspectEntity) transport.ProspectResponse {
	emails := e.Emails
	if emails == nil {
		emails = []string{}
	}
	phones := e.Phones
	if phones == nil {
		phones = []string{}
	}
	return transport.ProspectResponse{
		ID:          e.ID,
		DisplayName: e.DisplayName,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Emails:      emails,
		Phones:      phones,
		Handles: transport.SocialHandlesResponse{
			Facebook:  e.Facebook,
			Instagram: e.Instagram,
			LinkedIn:  e.LinkedIn,
			TikTok:    e.TikTok,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
