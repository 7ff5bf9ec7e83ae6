package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetWalletEnergy returns the user's available energy balance. A user
// without a wallet row has zero energy, which keeps them on the standard
// model tier.
func (r *Repository) GetWalletEnergy(ctx context.Context, userID uuid.UUID) (int, error) {
	var energy int
	err := r.pool.QueryRow(ctx, `
		SELECT energy FROM user_wallets WHERE user_id = $1
	`, userID).Scan(&energy)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return energy, err
}
