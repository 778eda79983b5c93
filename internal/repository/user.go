package repository

import (
	"context"
	"errors"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	selectUserByIDQuery = `
						SELECT id, payout_address, admin_provisioned, admin_user_id,
							admin_commission_pct, total_earnings, created_at
						FROM users
						WHERE id = $1
`
	addEarningsQuery = `
						UPDATE users
						SET total_earnings = total_earnings + $1
						WHERE id = $2
`
	selectPlatformConfigQuery = `
						SELECT commission_pct, admin_payout_address FROM platform_config
`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByIDQuery, id).Scan(
		&user.ID, &user.PayoutAddress, &user.AdminProvisioned, &user.AdminUserID,
		&user.AdminCommissionPct, &user.TotalEarnings, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// AddEarnings adds amount to the user's running earnings total
func (ur *UserRepository) AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error {
	cmd, err := ur.db.Exec(ctx, addEarningsQuery, amount, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// GetPlatformConfig returns the platform config row
func (ur *UserRepository) GetPlatformConfig(ctx context.Context) (*models.PlatformConfig, error) {
	cfg := models.PlatformConfig{}
	err := ur.db.QueryRow(ctx, selectPlatformConfigQuery).Scan(&cfg.CommissionPct, &cfg.AdminPayoutAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &cfg, nil
}
