package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LearningProfile holds per-user aggregate scan statistics used to
// calibrate scoring weights.
type LearningProfile struct {
	UserID              uuid.UUID
	TotalScans          int
	TotalProspects      int
	AvgProspectsPerScan float64
	LearningData        []byte
	UpdatedAt           time.Time
}

func (r *Repository) GetLearningProfile(ctx context.Context, userID uuid.UUID) (LearningProfile, error) {
	var profile LearningProfile
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, total_scans, total_prospects, avg_prospects_per_scan, learning_data, updated_at
		FROM ai_learning_profiles
		WHERE user_id = $1
	`, userID).Scan(
		&profile.UserID, &profile.TotalScans, &profile.TotalProspects,
		&profile.AvgProspectsPerScan, &profile.LearningData, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LearningProfile{}, ErrNotFound
	}
	return profile, err
}

// RecordScanOutcome folds one completed scan into the user's profile,
// creating a zero-initialized profile on first contact. The running
// average is recomputed from the updated totals in the same statement, so
// concurrent scans cannot lose an increment.
func (r *Repository) RecordScanOutcome(ctx context.Context, userID uuid.UUID, prospects int, learningData []byte) (LearningProfile, error) {
	var profile LearningProfile
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ai_learning_profiles (user_id, total_scans, total_prospects, avg_prospects_per_scan, learning_data)
		VALUES ($1, 1, $2, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_scans = ai_learning_profiles.total_scans + 1,
		    total_prospects = ai_learning_profiles.total_prospects + EXCLUDED.total_prospects,
		    avg_prospects_per_scan =
		        (ai_learning_profiles.total_prospects + EXCLUDED.total_prospects)::float8
		        / (ai_learning_profiles.total_scans + 1),
		    learning_data = EXCLUDED.learning_data,
		    updated_at = now()
		RETURNING user_id, total_scans, total_prospects, avg_prospects_per_scan, learning_data, updated_at
	`, userID, prospects, learningData).Scan(
		&profile.UserID, &profile.TotalScans, &profile.TotalProspects,
		&profile.AvgProspectsPerScan, &profile.LearningData, &profile.UpdatedAt,
	)
	return profile, err
}
