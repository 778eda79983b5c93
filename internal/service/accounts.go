package service

import (
	"context"
	"errors"

	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountRepository is interface for interacting with account-related data
type AccountRepository interface {
	// GetEligibleAccount returns the least-used eligible account for the category
	GetEligibleAccount(ctx context.Context, category, subtype string) (*models.Account, error)
	// IncrementUsage bumps the account usage counter
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	// Block marks the account blocked
	Block(ctx context.Context, id uuid.UUID) error
	// Health returns per-category healthy/blocked/total counts
	Health(ctx context.Context) ([]models.AccountHealth, error)
}

// AccountRotationService spreads provider calls across credentials so
// no single account hits a per-account rate limit or ban.
type AccountRotationService struct {
	repo AccountRepository
}

// NewAccountRotationService creates new AccountRotationService instance
func NewAccountRotationService(repo AccountRepository) *AccountRotationService {
	return &AccountRotationService{repo: repo}
}

// NextAccount returns the least-used eligible account for the
// category/subtype. When none exists it returns
// models.ErrNoAccountAvailable, a retryable condition for callers.
func (as *AccountRotationService) NextAccount(ctx context.Context, category, subtype string) (*models.Account, error) {
	account, err := as.repo.GetEligibleAccount(ctx, category, subtype)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrNoAccountAvailable
		}
		return nil, err
	}

	return account, nil
}

// IncrementUsage records a successful use. A failed increment is
// logged and swallowed; it must not fail the purchase that already
// succeeded.
func (as *AccountRotationService) IncrementUsage(ctx context.Context, id uuid.UUID) {
	if err := as.repo.IncrementUsage(ctx, id); err != nil {
		logger.Log.Error("increment account usage", zap.String("account", id.String()), zap.Error(err))
	}
}

// MarkUnhealthy blocks the account after a provider-attributable
// failure. The account is never deleted so an operator can recover it.
func (as *AccountRotationService) MarkUnhealthy(ctx context.Context, id uuid.UUID) error {
	return as.repo.Block(ctx, id)
}

// Health returns aggregate account counts per category
func (as *AccountRotationService) Health(ctx context.Context) ([]models.AccountHealth, error) {
	return as.repo.Health(ctx)
}
