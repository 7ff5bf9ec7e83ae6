// Package learning folds completed scans into per-user aggregate
// statistics. The aggregates (scan count, prospects discovered, running
// average) calibrate scoring weights elsewhere; this package only keeps
// them current.
package learning

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

// scanRecord is the opaque learning-data blob noting the last scan that
// touched the profile.
type scanRecord struct {
	LastScanID    uuid.UUID `json:"lastScanId"`
	LastProspects int       `json:"lastProspects"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// Loop updates learning profiles after scans complete.
type Loop struct {
	profiles repository.LearningStore
	log      *logger.Logger
}

func New(profiles repository.LearningStore, log *logger.Logger) *Loop {
	return &Loop{profiles: profiles, log: log}
}

// RecordScan folds one completed scan into the user's profile. A first
// scan creates the profile with these totals as its starting point.
func (l *Loop) RecordScan(ctx context.Context, userID, scanID uuid.UUID, prospects int) (repository.LearningProfile, error) {
	blob, err := json.Marshal(scanRecord{
		LastScanID:    scanID,
		LastProspects: prospects,
		RecordedAt:    time.Now().UTC(),
	})
	if err != nil {
		return repository.LearningProfile{}, err
	}

	profile, err := l.profiles.RecordScanOutcome(ctx, userID, prospects, blob)
	if err != nil {
		l.log.DatabaseError("record scan outcome", err)
		return repository.LearningProfile{}, err
	}

	l.log.Info("learning_profile_updated",
		"user_id", userID.String(),
		"total_scans", profile.TotalScans,
		"total_prospects", profile.TotalProspects,
		"avg_prospects_per_scan", profile.AvgProspectsPerScan,
	)
	return profile, nil
}
