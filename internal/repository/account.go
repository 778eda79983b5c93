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
	selectEligibleAccountQuery = `
						SELECT id, category, subtype, label, usage_count, usage_limit,
							active, blocked, created_at, updated_at
						FROM accounts
						WHERE category = $1 AND ($2 = '' OR subtype = $2)
							AND active AND NOT blocked AND usage_count < usage_limit
						ORDER BY usage_count, id
						LIMIT 1
`
	incrementAccountUsageQuery = `
						UPDATE accounts
						SET usage_count = usage_count + 1, updated_at = NOW()
						WHERE id = $1
`
	blockAccountQuery = `
						UPDATE accounts
						SET blocked = TRUE, updated_at = NOW()
						WHERE id = $1
`
	accountHealthQuery = `
						SELECT category,
							COUNT(*) FILTER (WHERE active AND NOT blocked AND usage_count < usage_limit),
							COUNT(*) FILTER (WHERE blocked),
							COUNT(*)
						FROM accounts
						GROUP BY category
						ORDER BY category
`
)

// AccountRepository implements AccountRepository interface
type AccountRepository struct {
	db *postgres.DB
}

// NewAccountRepository creates new AccountRepository instance
func NewAccountRepository(db *postgres.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetEligibleAccount returns the least-used active, non-blocked
// account under its usage ceiling for the category. Ties break by id
// so selection is deterministic. Empty subtype matches any subtype.
func (ar *AccountRepository) GetEligibleAccount(ctx context.Context, category, subtype string) (*models.Account, error) {
	account := models.Account{}
	err := ar.db.QueryRow(ctx, selectEligibleAccountQuery, category, subtype).Scan(
		&account.ID, &account.Category, &account.Subtype, &account.Label,
		&account.UsageCount, &account.UsageLimit, &account.Active, &account.Blocked,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &account, nil
}

// IncrementUsage bumps the account usage counter
func (ar *AccountRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	cmd, err := ar.db.Exec(ctx, incrementAccountUsageQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// Block marks the account blocked so it is skipped by selection.
// The row stays in place for manual recovery.
func (ar *AccountRepository) Block(ctx context.Context, id uuid.UUID) error {
	cmd, err := ar.db.Exec(ctx, blockAccountQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// Health returns per-category healthy/blocked/total counts
func (ar *AccountRepository) Health(ctx context.Context) ([]models.AccountHealth, error) {
	rows, err := ar.db.Query(ctx, accountHealthQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var health []models.AccountHealth

	for rows.Next() {
		h := models.AccountHealth{}
		if err := rows.Scan(&h.Category, &h.Healthy, &h.Blocked, &h.Total); err != nil {
			continue
		}
		health = append(health, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return health, nil
}
