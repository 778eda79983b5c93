package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	results []*provider.PurchaseResult
	errs    []error
	calls   []provider.PurchaseRequest
}

func (s *scriptedProvider) PlaceOrder(_ context.Context, req provider.PurchaseRequest) (*provider.PurchaseResult, error) {
	i := len(s.calls)
	s.calls = append(s.calls, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return &provider.PurchaseResult{Success: false, ErrorText: "out of stock"}, nil
}

type recordingAttemptRepo struct {
	attempts []models.PurchaseAttempt
	err      error
}

func (r *recordingAttemptRepo) CreateAttempt(_ context.Context, attempt *models.PurchaseAttempt) error {
	r.attempts = append(r.attempts, *attempt)
	return r.err
}

func newTestEngine(prov, external provider.PurchaseProvider, rotation AccountRotator, attempts AttemptRepository) (*PurchaseRetryEngine, *[]time.Duration) {
	engine := NewPurchaseRetryEngine(prov, external, rotation, attempts, 100*time.Millisecond, 5)
	slept := &[]time.Duration{}
	engine.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return engine, slept
}

func testJob() PurchaseJob {
	return PurchaseJob{
		OrderID:      uuid.New(),
		PrimaryURL:   "https://supplier.example/p/1",
		Quantity:     1,
		PriceCeiling: 25,
		Shipping:     models.ShippingAddress{Name: "A B", Line1: "1 Main St", City: "Springfield", Country: "US"},
	}
}

func TestPurchaseRetryEngine_FirstAttemptSucceeds(t *testing.T) {
	prov := &scriptedProvider{results: []*provider.PurchaseResult{
		{Success: true, SupplierOrderID: "SUP-123"},
	}}
	repo := &recordingAttemptRepo{}
	engine, slept := newTestEngine(prov, nil, nil, repo)

	outcome, err := engine.Run(context.Background(), testJob())
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "SUP-123", outcome.SupplierOrderID)
	assert.Len(t, prov.calls, 1)
	assert.Empty(t, *slept, "no backoff before the first attempt")

	require.Len(t, repo.attempts, 1)
	assert.True(t, repo.attempts[0].Success)
	assert.Equal(t, models.AttemptSourceOriginal, repo.attempts[0].Source)
}

func TestPurchaseRetryEngine_AllCandidatesFail(t *testing.T) {
	prov := &scriptedProvider{}
	repo := &recordingAttemptRepo{}
	engine, slept := newTestEngine(prov, nil, nil, repo)

	job := testJob()
	job.AlternativeURLs = []string{"https://mirror.example/p/1", "https://mirror2.example/p/1"}

	outcome, err := engine.Run(context.Background(), job)
	require.ErrorIs(t, err, models.ErrPurchaseExhausted)

	// three candidates, three attempts, each logged
	assert.False(t, outcome.Succeeded)
	assert.Len(t, prov.calls, 3)
	require.Len(t, repo.attempts, 3)
	assert.Equal(t, models.AttemptSourceOriginal, repo.attempts[0].Source)
	assert.Equal(t, models.AttemptSourceAlternative, repo.attempts[1].Source)
	assert.Equal(t, models.AttemptSourceExternal, repo.attempts[2].Source)
	assert.Equal(t, "out of stock", outcome.LastError)

	// exponential backoff before every attempt after the first
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, *slept)
}

func TestPurchaseRetryEngine_CandidateListCappedAtMaxAttempts(t *testing.T) {
	prov := &scriptedProvider{}
	engine, _ := newTestEngine(prov, nil, nil, &recordingAttemptRepo{})

	job := testJob()
	job.AlternativeURLs = []string{"a", "b", "c", "d", "e", "f", "g"}

	_, err := engine.Run(context.Background(), job)
	require.ErrorIs(t, err, models.ErrPurchaseExhausted)

	assert.Len(t, prov.calls, 5)
}

func TestPurchaseRetryEngine_ExternalFallbackAppended(t *testing.T) {
	prov := &scriptedProvider{}
	external := &scriptedProvider{results: []*provider.PurchaseResult{
		{Success: true, SupplierOrderID: "EXT-9"},
	}}
	repo := &recordingAttemptRepo{}
	engine, _ := newTestEngine(prov, external, nil, repo)

	outcome, err := engine.Run(context.Background(), testJob())
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "EXT-9", outcome.SupplierOrderID)
	assert.Len(t, prov.calls, 1)
	assert.Len(t, external.calls, 1)

	require.Len(t, repo.attempts, 2)
	assert.Equal(t, models.AttemptSourceAlternative, repo.attempts[1].Source)
}

func TestPurchaseRetryEngine_SimulatedIDIsNotSuccess(t *testing.T) {
	prov := &scriptedProvider{results: []*provider.PurchaseResult{
		{Success: false, Simulated: true, SupplierOrderID: "SIM-1"},
		{Success: false, Simulated: true, SupplierOrderID: "SIM-2"},
	}}
	repo := &recordingAttemptRepo{}
	engine, _ := newTestEngine(prov, nil, nil, repo)

	job := testJob()
	job.AlternativeURLs = []string{"https://mirror.example/p/1"}

	outcome, err := engine.Run(context.Background(), job)
	require.ErrorIs(t, err, models.ErrPurchaseExhausted)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "SIM-2", outcome.SimulatedOrderID)
	assert.Len(t, prov.calls, 2, "simulated ids burn attempts instead of stopping the loop")
	for _, attempt := range repo.attempts {
		assert.False(t, attempt.Success)
	}
}

func TestPurchaseRetryEngine_AttemptLogFailureDoesNotAbort(t *testing.T) {
	prov := &scriptedProvider{
		results: []*provider.PurchaseResult{
			{Success: false, ErrorText: "timeout"},
			{Success: true, SupplierOrderID: "SUP-77"},
		},
	}
	repo := &recordingAttemptRepo{err: errors.New("log table down")}
	engine, _ := newTestEngine(prov, nil, nil, repo)

	job := testJob()
	job.AlternativeURLs = []string{"https://mirror.example/p/1"}

	outcome, err := engine.Run(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
}

func TestPurchaseRetryEngine_ProviderErrorMarksAccountUnhealthy(t *testing.T) {
	account := &models.Account{ID: uuid.New(), Category: models.AccountCategorySupplier, Active: true, UsageLimit: 10, Label: "supplier-1"}
	rotation := &fakeRotator{account: account}
	prov := &scriptedProvider{errs: []error{errors.New("auth rejected")}}
	engine, _ := newTestEngine(prov, nil, rotation, &recordingAttemptRepo{})

	_, err := engine.Run(context.Background(), testJob())
	require.ErrorIs(t, err, models.ErrPurchaseExhausted)

	assert.Equal(t, []uuid.UUID{account.ID}, rotation.unhealthy)
	assert.Empty(t, rotation.incremented)
}

func TestPurchaseRetryEngine_SuccessIncrementsAccountUsage(t *testing.T) {
	account := &models.Account{ID: uuid.New(), Category: models.AccountCategorySupplier, Active: true, UsageLimit: 10, Label: "supplier-1"}
	rotation := &fakeRotator{account: account}
	prov := &scriptedProvider{results: []*provider.PurchaseResult{
		{Success: true, SupplierOrderID: "SUP-1"},
	}}
	engine, _ := newTestEngine(prov, nil, rotation, &recordingAttemptRepo{})

	outcome, err := engine.Run(context.Background(), testJob())
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, []uuid.UUID{account.ID}, rotation.incremented)
	assert.Equal(t, "supplier-1", prov.calls[0].AccountLabel)
}

func TestPurchaseRetryEngine_NoAccountAvailableProceedsWithout(t *testing.T) {
	rotation := &fakeRotator{nextErr: models.ErrNoAccountAvailable}
	prov := &scriptedProvider{results: []*provider.PurchaseResult{
		{Success: true, SupplierOrderID: "SUP-1"},
	}}
	engine, _ := newTestEngine(prov, nil, rotation, &recordingAttemptRepo{})

	outcome, err := engine.Run(context.Background(), testJob())
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Empty(t, prov.calls[0].AccountLabel)
}

// fakeRotator is shared by purchase and settlement tests.
type fakeRotator struct {
	account     *models.Account
	nextErr     error
	incremented []uuid.UUID
	unhealthy   []uuid.UUID
}

func (f *fakeRotator) NextAccount(context.Context, string, string) (*models.Account, error) {
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	if f.account == nil {
		return nil, models.ErrNoAccountAvailable
	}
	return f.account, nil
}

func (f *fakeRotator) IncrementUsage(_ context.Context, id uuid.UUID) {
	f.incremented = append(f.incremented, id)
}

func (f *fakeRotator) MarkUnhealthy(_ context.Context, id uuid.UUID) error {
	f.unhealthy = append(f.unhealthy, id)
	return nil
}
