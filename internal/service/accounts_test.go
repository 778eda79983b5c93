package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	account      *models.Account
	getErr       error
	incremented  []uuid.UUID
	incrementErr error
	blocked      []uuid.UUID
	blockErr     error
	health       []models.AccountHealth
}

func (f *fakeAccountRepo) GetEligibleAccount(_ context.Context, category, subtype string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.account, nil
}

func (f *fakeAccountRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	f.incremented = append(f.incremented, id)
	return f.incrementErr
}

func (f *fakeAccountRepo) Block(_ context.Context, id uuid.UUID) error {
	f.blocked = append(f.blocked, id)
	return f.blockErr
}

func (f *fakeAccountRepo) Health(context.Context) ([]models.AccountHealth, error) {
	return f.health, nil
}

func TestAccountRotationService_NextAccount(t *testing.T) {
	account := &models.Account{
		ID:         uuid.New(),
		Category:   models.AccountCategorySupplier,
		UsageCount: 3,
		UsageLimit: 10,
		Active:     true,
	}

	svc := NewAccountRotationService(&fakeAccountRepo{account: account})

	got, err := svc.NextAccount(context.Background(), models.AccountCategorySupplier, "")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestAccountRotationService_NextAccountNoneAvailable(t *testing.T) {
	svc := NewAccountRotationService(&fakeAccountRepo{getErr: models.ErrDataNotFound})

	_, err := svc.NextAccount(context.Background(), models.AccountCategoryPayout, "primary")
	assert.ErrorIs(t, err, models.ErrNoAccountAvailable)
}

func TestAccountRotationService_NextAccountRepoError(t *testing.T) {
	wantErr := errors.New("db down")
	svc := NewAccountRotationService(&fakeAccountRepo{getErr: wantErr})

	_, err := svc.NextAccount(context.Background(), models.AccountCategorySupplier, "")
	assert.ErrorIs(t, err, wantErr)
}

func TestAccountRotationService_IncrementUsageSwallowsFailure(t *testing.T) {
	repo := &fakeAccountRepo{incrementErr: errors.New("db down")}
	svc := NewAccountRotationService(repo)

	id := uuid.New()

	// must not panic or surface the error to the caller
	svc.IncrementUsage(context.Background(), id)

	assert.Equal(t, []uuid.UUID{id}, repo.incremented)
}

func TestAccountRotationService_MarkUnhealthy(t *testing.T) {
	repo := &fakeAccountRepo{}
	svc := NewAccountRotationService(repo)

	id := uuid.New()
	require.NoError(t, svc.MarkUnhealthy(context.Background(), id))

	assert.Equal(t, []uuid.UUID{id}, repo.blocked)
}

func TestAccountRotationService_Health(t *testing.T) {
	health := []models.AccountHealth{
		{Category: models.AccountCategoryPayout, Healthy: 2, Blocked: 1, Total: 3},
		{Category: models.AccountCategorySupplier, Healthy: 1, Blocked: 0, Total: 1},
	}
	svc := NewAccountRotationService(&fakeAccountRepo{health: health})

	got, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health, got)
}

func TestAccountEligible(t *testing.T) {
	tests := []struct {
		name    string
		account models.Account
		want    bool
	}{
		{"active_under_limit", models.Account{Active: true, UsageCount: 5, UsageLimit: 10}, true},
		{"inactive", models.Account{Active: false, UsageCount: 0, UsageLimit: 10}, false},
		{"blocked", models.Account{Active: true, Blocked: true, UsageCount: 0, UsageLimit: 10}, false},
		{"at_usage_limit", models.Account{Active: true, UsageCount: 10, UsageLimit: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.Eligible())
		})
	}
}
