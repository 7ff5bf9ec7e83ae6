package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/internal/scan/transport"
	"github.com/msoyaph/nexscout-sub003/platform/apperr"
	"github.com/msoyaph/nexscout-sub003/platform/events"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

type fakeStores struct {
	sources   map[uuid.UUID]repository.ProspectSource
	queue     map[uuid.UUID]repository.ScanQueueEntry
	snapshots map[uuid.UUID]repository.ScanSnapshot
	entities  map[uuid.UUID]repository.ProspectEntity
	intel     map[uuid.UUID]repository.ProspectIntel
	history   map[uuid.UUID][]repository.HistoryEntry
	profiles  map[uuid.UUID]repository.LearningProfile
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		sources:   make(map[uuid.UUID]repository.ProspectSource),
		queue:     make(map[uuid.UUID]repository.ScanQueueEntry),
		snapshots: make(map[uuid.UUID]repository.ScanSnapshot),
		entities:  make(map[uuid.UUID]repository.ProspectEntity),
		intel:     make(map[uuid.UUID]repository.ProspectIntel),
		history:   make(map[uuid.UUID][]repository.HistoryEntry),
		profiles:  make(map[uuid.UUID]repository.LearningProfile),
	}
}

func (s *fakeStores) CreateSource(_ context.Context, params repository.CreateSourceParams) (repository.ProspectSource, error) {
	src := repository.ProspectSource{ID: uuid.New(), UserID: params.UserID, SourceType: params.SourceType, RawPayload: params.RawPayload}
	s.sources[src.ID] = src
	return src, nil
}

func (s *fakeStores) GetSource(_ context.Context, id uuid.UUID) (repository.ProspectSource, error) {
	src, ok := s.sources[id]
	if !ok {
		return repository.ProspectSource{}, repository.ErrNotFound
	}
	return src, nil
}

func (s *fakeStores) MarkSourceProcessed(_ context.Context, id uuid.UUID) error { return nil }

func (s *fakeStores) CreateQueueEntry(_ context.Context, params repository.CreateQueueEntryParams) (repository.ScanQueueEntry, error) {
	entry := repository.ScanQueueEntry{ID: params.ID, UserID: params.UserID, SourceID: params.SourceID, Status: repository.QueuePending}
	s.queue[entry.ID] = entry
	return entry, nil
}

func (s *fakeStores) GetQueueEntry(_ context.Context, id uuid.UUID) (repository.ScanQueueEntry, error) {
	entry, ok := s.queue[id]
	if !ok {
		return repository.ScanQueueEntry{}, repository.ErrNotFound
	}
	return entry, nil
}

func (s *fakeStores) MarkQueueRunning(_ context.Context, id uuid.UUID) error { return nil }

func (s *fakeStores) MarkQueueCompleted(_ context.Context, id uuid.UUID) error { return nil }

func (s *fakeStores) MarkQueueFailed(_ context.Context, id uuid.UUID, reason string) error {
	entry := s.queue[id]
	entry.Status = repository.QueueFailed
	entry.Error = &reason
	s.queue[id] = entry
	return nil
}

func (s *fakeStores) UpsertSnapshot(_ context.Context, params repository.UpsertSnapshotParams) error {
	s.snapshots[params.ScanID] = repository.ScanSnapshot{
		ScanID: params.ScanID, UserID: params.UserID,
		CurrentState: params.CurrentState, Context: params.Context, Error: params.Error,
	}
	return nil
}

func (s *fakeStores) GetSnapshot(_ context.Context, scanID uuid.UUID) (repository.ScanSnapshot, error) {
	snap, ok := s.snapshots[scanID]
	if !ok {
		return repository.ScanSnapshot{}, repository.ErrNotFound
	}
	return snap, nil
}

func (s *fakeStores) GetEntity(_ context.Context, userID, id uuid.UUID) (repository.ProspectEntity, error) {
	e, ok := s.entities[id]
	if !ok || e.UserID != userID {
		return repository.ProspectEntity{}, repository.ErrNotFound
	}
	return e, nil
}

func (s *fakeStores) ListEntitiesForMatching(_ context.Context, userID uuid.UUID) ([]repository.ProspectEntity, error) {
	return nil, nil
}

func (s *fakeStores) ListEntities(_ context.Context, params repository.ListEntitiesParams) ([]repository.EntityWithIntel, int, error) {
	var out []repository.EntityWithIntel
	for _, e := range s.entities {
		if e.UserID == params.UserID {
			out = append(out, s.joinIntel(e))
		}
	}
	return out, len(out), nil
}

func (s *fakeStores) SearchEntities(_ context.Context, userID uuid.UUID, query string, _ int) ([]repository.EntityWithIntel, error) {
	var out []repository.EntityWithIntel
	for _, e := range s.entities {
		if e.UserID == userID && e.DisplayName == query {
			out = append(out, s.joinIntel(e))
		}
	}
	return out, nil
}

func (s *fakeStores) joinIntel(e repository.ProspectEntity) repository.EntityWithIntel {
	row := repository.EntityWithIntel{Entity: e}
	if intel, ok := s.intel[e.ID]; ok {
		row.Intel = &intel
	}
	return row
}

func (s *fakeStores) UpsertIntel(_ context.Context, params repository.UpsertIntelParams) error {
	return nil
}

func (s *fakeStores) GetIntel(_ context.Context, userID, entityID uuid.UUID) (repository.ProspectIntel, error) {
	intel, ok := s.intel[entityID]
	if !ok || intel.UserID != userID {
		return repository.ProspectIntel{}, repository.ErrNotFound
	}
	return intel, nil
}

func (s *fakeStores) AddHistory(_ context.Context, params repository.AddHistoryParams) error {
	return nil
}

func (s *fakeStores) ListHistory(_ context.Context, userID, entityID uuid.UUID) ([]repository.HistoryEntry, error) {
	return s.history[entityID], nil
}

func (s *fakeStores) GetLearningProfile(_ context.Context, userID uuid.UUID) (repository.LearningProfile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return repository.LearningProfile{}, repository.ErrNotFound
	}
	return profile, nil
}

func (s *fakeStores) RecordScanOutcome(_ context.Context, userID uuid.UUID, prospects int, data []byte) (repository.LearningProfile, error) {
	profile := s.profiles[userID]
	profile.UserID = userID
	profile.TotalScans++
	profile.TotalProspects += prospects
	profile.AvgProspectsPerScan = float64(profile.TotalProspects) / float64(profile.TotalScans)
	profile.LearningData = data
	s.profiles[userID] = profile
	return profile, nil
}

type fakeArchiver struct {
	payloads map[uuid.UUID][]byte
}

func newFakeArchiver() *fakeArchiver {
	return &fakeArchiver{payloads: make(map[uuid.UUID][]byte)}
}

func (a *fakeArchiver) Store(_ context.Context, _, scanID uuid.UUID, payload []byte) error {
	a.payloads[scanID] = payload
	return nil
}

func (a *fakeArchiver) Fetch(_ context.Context, _, scanID uuid.UUID) ([]byte, error) {
	payload, ok := a.payloads[scanID]
	if !ok {
		return nil, errors.New("object not found")
	}
	return payload, nil
}

type fakeLauncher struct {
	launched []uuid.UUID
	err      error
}

func (l *fakeLauncher) Launch(_ context.Context, scanID, _, _ uuid.UUID) error {
	if l.err != nil {
		return l.err
	}
	l.launched = append(l.launched, scanID)
	return nil
}

func newTestService(stores *fakeStores, launcher *fakeLauncher) *Service {
	return newTestServiceWithArchive(stores, launcher, nil)
}

func newTestServiceWithArchive(stores *fakeStores, launcher *fakeLauncher, archive CaptureArchiver) *Service {
	log := logger.New("development")
	return New(Stores{
		Sources:   stores,
		Queue:     stores,
		Snapshots: stores,
		Entities:  stores,
		Intel:     stores,
		History:   stores,
		Learning:  stores,
	}, launcher, archive, events.NewInMemoryBus(log), log)
}

func pastePayload(t *testing.T) json.RawMessage {
	t.Helper()
	body, err := json.Marshal(domain.PastePayload{Text: "Juan Dela Cruz juan@x.com"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestStartScan(t *testing.T) {
	stores := newFakeStores()
	launcher := &fakeLauncher{}
	svc := newTestService(stores, launcher)

	resp, err := svc.StartScan(context.Background(), transport.StartScanRequest{
		UserID:     uuid.NewString(),
		SourceType: string(domain.SourcePasteText),
		Payload:    pastePayload(t),
	})
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	if resp.Status != repository.QueuePending {
		t.Fatalf("status = %q", resp.Status)
	}

	scanID, err := uuid.Parse(resp.ScanID)
	if err != nil {
		t.Fatalf("scan id = %q", resp.ScanID)
	}
	if len(launcher.launched) != 1 || launcher.launched[0] != scanID {
		t.Fatalf("launched = %v", launcher.launched)
	}
	if len(stores.sources) != 1 {
		t.Fatalf("sources = %d", len(stores.sources))
	}
}

func TestStartScanRejectsUnknownSourceType(t *testing.T) {
	svc := newTestService(newFakeStores(), &fakeLauncher{})

	_, err := svc.StartScan(context.Background(), transport.StartScanRequest{
		UserID:     uuid.NewString(),
		SourceType: "carrier_pigeon",
		Payload:    pastePayload(t),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestStartScanRejectsMalformedPayload(t *testing.T) {
	svc := newTestService(newFakeStores(), &fakeLauncher{})

	_, err := svc.StartScan(context.Background(), transport.StartScanRequest{
		UserID:     uuid.NewString(),
		SourceType: string(domain.SourcePasteText),
		Payload:    json.RawMessage(`{"text": 42`),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestStartScanLaunchFailureSettlesQueue(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{err: context.DeadlineExceeded})

	_, err := svc.StartScan(context.Background(), transport.StartScanRequest{
		UserID:     uuid.NewString(),
		SourceType: string(domain.SourcePasteText),
		Payload:    pastePayload(t),
	})
	if err == nil {
		t.Fatal("expected launch error")
	}
	for _, entry := range stores.queue {
		if entry.Status != repository.QueueFailed {
			t.Fatalf("queue status = %q, want failed", entry.Status)
		}
	}
}

func TestGetScanStatusDefaults(t *testing.T) {
	svc := newTestService(newFakeStores(), &fakeLauncher{})

	resp, err := svc.GetScanStatus(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetScanStatus: %v", err)
	}
	if resp.Status != "unknown" || resp.State != "IDLE" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Percent != 0 {
		t.Fatalf("percent = %v", resp.Percent)
	}
}

func TestGetScanStatusMergesSnapshot(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	scanID := uuid.New()
	userID := uuid.New()
	stores.queue[scanID] = repository.ScanQueueEntry{ID: scanID, Status: repository.QueueRunning}
	stores.snapshots[scanID] = repository.ScanSnapshot{
		ScanID: scanID, UserID: userID,
		CurrentState: string(domain.StateDeepScanning),
		Context:      []byte(`{"state":"DEEP_SCANNING"}`),
	}

	resp, err := svc.GetScanStatus(context.Background(), scanID)
	if err != nil {
		t.Fatalf("GetScanStatus: %v", err)
	}
	if resp.Status != repository.QueueRunning || resp.State != "DEEP_SCANNING" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Percent <= 0 || resp.Percent >= 100 {
		t.Fatalf("percent = %v", resp.Percent)
	}
	if len(resp.Context) == 0 {
		t.Fatal("expected snapshot context")
	}
}

func TestGetProspectIntel(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	userID := uuid.New()
	entity := repository.ProspectEntity{ID: uuid.New(), UserID: userID, DisplayName: "Juan Dela Cruz"}
	stores.entities[entity.ID] = entity
	stores.intel[entity.ID] = repository.ProspectIntel{
		EntityID: entity.ID, UserID: userID, Score: 70, Confidence: 0.8,
		Analysis: []byte(`{"score":70}`),
	}
	stores.history[entity.ID] = []repository.HistoryEntry{
		{EntityID: entity.ID, UserID: userID, Event: repository.HistoryDiscovered},
	}

	resp, err := svc.GetProspectIntel(context.Background(), userID, entity.ID)
	if err != nil {
		t.Fatalf("GetProspectIntel: %v", err)
	}
	if resp.Entity.DisplayName != "Juan Dela Cruz" {
		t.Fatalf("entity = %+v", resp.Entity)
	}
	if resp.Intel == nil || resp.Intel.Score != 70 {
		t.Fatalf("intel = %+v", resp.Intel)
	}
	if len(resp.History) != 1 {
		t.Fatalf("history = %+v", resp.History)
	}
}

func TestGetProspectIntelWithoutIntelOrHistory(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	userID := uuid.New()
	entity := repository.ProspectEntity{ID: uuid.New(), UserID: userID, DisplayName: "Maria Santos"}
	stores.entities[entity.ID] = entity

	resp, err := svc.GetProspectIntel(context.Background(), userID, entity.ID)
	if err != nil {
		t.Fatalf("GetProspectIntel: %v", err)
	}
	if resp.Intel != nil {
		t.Fatalf("intel = %+v", resp.Intel)
	}
	if resp.History == nil || len(resp.History) != 0 {
		t.Fatalf("history = %+v", resp.History)
	}
}

func TestGetProspectIntelScopedToUser(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	entity := repository.ProspectEntity{ID: uuid.New(), UserID: uuid.New(), DisplayName: "Juan Dela Cruz"}
	stores.entities[entity.ID] = entity

	_, err := svc.GetProspectIntel(context.Background(), uuid.New(), entity.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSearchProspectsRequiresQuery(t *testing.T) {
	svc := newTestService(newFakeStores(), &fakeLauncher{})

	if _, err := svc.SearchProspects(context.Background(), uuid.New(), "   "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestListProspectsClampsLimit(t *testing.T) {
	svc := newTestService(newFakeStores(), &fakeLauncher{})

	resp, err := svc.ListProspects(context.Background(), uuid.New(), 10000, -5)
	if err != nil {
		t.Fatalf("ListProspects: %v", err)
	}
	if resp.Limit != maxListLimit || resp.Offset != 0 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestListProspectsIncludesIntel(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	userID := uuid.New()
	scored := repository.ProspectEntity{ID: uuid.New(), UserID: userID, DisplayName: "Juan Dela Cruz"}
	fresh := repository.ProspectEntity{ID: uuid.New(), UserID: userID, DisplayName: "Maria Santos"}
	stores.entities[scored.ID] = scored
	stores.entities[fresh.ID] = fresh
	stores.intel[scored.ID] = repository.ProspectIntel{
		EntityID: scored.ID, UserID: userID, Score: 82, Confidence: 0.9,
		Analysis: []byte(`{"businessInterest":"retail"}`),
	}

	resp, err := svc.ListProspects(context.Background(), userID, 50, 0)
	if err != nil {
		t.Fatalf("ListProspects: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d", len(resp.Items))
	}
	for _, item := range resp.Items {
		switch item.ID {
		case scored.ID:
			if item.Intel == nil || item.Intel.Score != 82 {
				t.Fatalf("intel = %+v", item.Intel)
			}
			if !strings.Contains(string(item.Intel.Analysis), "retail") {
				t.Fatalf("analysis = %s", item.Intel.Analysis)
			}
		case fresh.ID:
			if item.Intel != nil {
				t.Fatalf("intel = %+v, want nil for an unscanned prospect", item.Intel)
			}
		default:
			t.Fatalf("unexpected item %+v", item)
		}
	}
}

func TestSearchProspectsIncludesIntel(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	userID := uuid.New()
	entity := repository.ProspectEntity{ID: uuid.New(), UserID: userID, DisplayName: "Juan Dela Cruz"}
	stores.entities[entity.ID] = entity
	stores.intel[entity.ID] = repository.ProspectIntel{
		EntityID: entity.ID, UserID: userID, Score: 82, Confidence: 0.9,
		Analysis: []byte(`{"businessInterest":"retail"}`),
	}

	items, err := svc.SearchProspects(context.Background(), userID, "Juan Dela Cruz")
	if err != nil {
		t.Fatalf("SearchProspects: %v", err)
	}
	if len(items) != 1 || items[0].Intel == nil || items[0].Intel.Score != 82 {
		t.Fatalf("items = %+v", items)
	}
}

func TestGetScanCapture(t *testing.T) {
	stores := newFakeStores()
	archive := newFakeArchiver()
	svc := newTestServiceWithArchive(stores, &fakeLauncher{}, archive)

	userID := uuid.New()
	scanID := uuid.New()
	stores.queue[scanID] = repository.ScanQueueEntry{ID: scanID, UserID: userID, Status: repository.QueueCompleted}
	archive.payloads[scanID] = []byte(`{"text":"Juan Dela Cruz"}`)

	resp, err := svc.GetScanCapture(context.Background(), userID, scanID)
	if err != nil {
		t.Fatalf("GetScanCapture: %v", err)
	}
	if resp.ScanID != scanID.String() {
		t.Fatalf("scan id = %q", resp.ScanID)
	}
	if string(resp.Payload) != `{"text":"Juan Dela Cruz"}` {
		t.Fatalf("payload = %s", resp.Payload)
	}
}

func TestGetScanCaptureScopedToUser(t *testing.T) {
	stores := newFakeStores()
	archive := newFakeArchiver()
	svc := newTestServiceWithArchive(stores, &fakeLauncher{}, archive)

	scanID := uuid.New()
	stores.queue[scanID] = repository.ScanQueueEntry{ID: scanID, UserID: uuid.New(), Status: repository.QueueCompleted}
	archive.payloads[scanID] = []byte(`{}`)

	if _, err := svc.GetScanCapture(context.Background(), uuid.New(), scanID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetScanCaptureWithoutArchive(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	scanID := uuid.New()
	userID := uuid.New()
	stores.queue[scanID] = repository.ScanQueueEntry{ID: scanID, UserID: userID, Status: repository.QueueCompleted}

	if _, err := svc.GetScanCapture(context.Background(), userID, scanID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetLearningProfile(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeLauncher{})

	userID := uuid.New()
	stores.profiles[userID] = repository.LearningProfile{
		UserID: userID, TotalScans: 4, TotalProspects: 10, AvgProspectsPerScan: 2.5,
	}

	resp, err := svc.GetLearningProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetLearningProfile: %v", err)
	}
	if resp.TotalScans != 4 || resp.TotalProspects != 10 || resp.AvgProspectsPerScan != 2.5 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.UpdatedAt == nil {
		t.Fatal("expected updatedAt")
	}
}

func TestGetLearningProfileDefaultsToZero(t *testing.T) {
	svc := newTestService(newFakeStores(), &fakeLauncher{})

	resp, err := svc.GetLearningProfile(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetLearningProfile: %v", err)
	}
	if resp.TotalScans != 0 || resp.TotalProspects != 0 || resp.UpdatedAt != nil {
		t.Fatalf("resp = %+v", resp)
	}
}
