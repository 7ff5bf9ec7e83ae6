package learning

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

// fakeStore applies the same fold the SQL upsert does, in memory.
type fakeStore struct {
	profiles map[uuid.UUID]repository.LearningProfile
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[uuid.UUID]repository.LearningProfile)}
}

func (s *fakeStore) GetLearningProfile(_ context.Context, userID uuid.UUID) (repository.LearningProfile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return repository.LearningProfile{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) RecordScanOutcome(_ context.Context, userID uuid.UUID, prospects int, data []byte) (repository.LearningProfile, error) {
	p := s.profiles[userID]
	p.UserID = userID
	p.TotalScans++
	p.TotalProspects += prospects
	p.AvgProspectsPerScan = float64(p.TotalProspects) / float64(p.TotalScans)
	p.LearningData = data
	s.profiles[userID] = p
	return p, nil
}

func TestRecordScanFirstContact(t *testing.T) {
	store := newFakeStore()
	loop := New(store, logger.New("development"))
	userID := uuid.New()

	profile, err := loop.RecordScan(context.Background(), userID, uuid.New(), 3)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if profile.TotalScans != 1 || profile.TotalProspects != 3 {
		t.Fatalf("profile = %+v", profile)
	}
	if profile.AvgProspectsPerScan != 3 {
		t.Fatalf("avg = %v", profile.AvgProspectsPerScan)
	}
}

func TestRecordScanRunningAverage(t *testing.T) {
	store := newFakeStore()
	loop := New(store, logger.New("development"))
	userID := uuid.New()

	ctx := context.Background()
	if _, err := loop.RecordScan(ctx, userID, uuid.New(), 4); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	profile, err := loop.RecordScan(ctx, userID, uuid.New(), 2)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if profile.TotalScans != 2 || profile.TotalProspects != 6 {
		t.Fatalf("profile = %+v", profile)
	}
	if profile.AvgProspectsPerScan != 3 {
		t.Fatalf("avg = %v", profile.AvgProspectsPerScan)
	}
}

func TestRecordScanLearningDataBlob(t *testing.T) {
	store := newFakeStore()
	loop := New(store, logger.New("development"))
	userID := uuid.New()
	scanID := uuid.New()

	profile, err := loop.RecordScan(context.Background(), userID, scanID, 1)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	var record scanRecord
	if err := json.Unmarshal(profile.LearningData, &record); err != nil {
		t.Fatalf("unmarshal learning data: %v", err)
	}
	if record.LastScanID != scanID || record.LastProspects != 1 {
		t.Fatalf("record = %+v", record)
	}
}
