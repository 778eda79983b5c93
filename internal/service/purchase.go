package service

import (
	"context"
	"errors"
	"time"

	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// hard cap on total purchase attempts per order
const maxPurchaseAttempts = 5

// AttemptRepository is interface for recording purchase attempts
type AttemptRepository interface {
	// CreateAttempt appends one purchase attempt record
	CreateAttempt(ctx context.Context, attempt *models.PurchaseAttempt) error
}

// AccountRotator selects and maintains supplier accounts for purchase calls
type AccountRotator interface {
	// NextAccount returns the least-used eligible account for the category
	NextAccount(ctx context.Context, category, subtype string) (*models.Account, error)
	// IncrementUsage records a successful use
	IncrementUsage(ctx context.Context, id uuid.UUID)
	// MarkUnhealthy blocks the account after a provider-attributable failure
	MarkUnhealthy(ctx context.Context, id uuid.UUID) error
}

// PurchaseJob is one order's purchase work: the candidate sources and
// the constraints every attempt must respect.
type PurchaseJob struct {
	OrderID         uuid.UUID
	PrimaryURL      string
	AlternativeURLs []string
	Quantity        int
	PriceCeiling    float64
	Shipping        models.ShippingAddress
}

// PurchaseOutcome is the result of running the retry engine for one
// job. Succeeded means a real (non-simulated) supplier order id was
// obtained. SimulatedOrderID carries the last sandbox id seen so the
// orchestrator can surface a soft success in non-live mode.
type PurchaseOutcome struct {
	Succeeded        bool
	SupplierOrderID  string
	SimulatedOrderID string
	LastError        string
	Attempts         []models.PurchaseAttempt
}

// PurchaseRetryEngine walks an ordered list of candidate sources with
// exponential backoff until one yields a real supplier order id or
// the list is exhausted. Provider failures never escape an attempt;
// only exhaustion is reported upward.
type PurchaseRetryEngine struct {
	supplier       provider.PurchaseProvider
	external       provider.PurchaseProvider
	rotation       AccountRotator
	attempts       AttemptRepository
	initialBackoff time.Duration
	maxAttempts    int
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewPurchaseRetryEngine creates new PurchaseRetryEngine instance.
// external may be nil when no fallback supplier endpoint is
// configured; rotation may be nil when a single supplier account is
// used.
func NewPurchaseRetryEngine(supplier, external provider.PurchaseProvider, rotation AccountRotator, attempts AttemptRepository, initialBackoff time.Duration, maxAttempts int) *PurchaseRetryEngine {
	if maxAttempts <= 0 || maxAttempts > maxPurchaseAttempts {
		maxAttempts = maxPurchaseAttempts
	}
	return &PurchaseRetryEngine{
		supplier:       supplier,
		external:       external,
		rotation:       rotation,
		attempts:       attempts,
		initialBackoff: initialBackoff,
		maxAttempts:    maxAttempts,
		sleep:          sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type candidate struct {
	url      string
	external bool
}

// buildCandidates returns the ordered attempt list: primary, then
// alternatives, capped at maxAttempts, with the external fallback
// appended as one additional attempt when configured and capacity
// remains.
func (pe *PurchaseRetryEngine) buildCandidates(job PurchaseJob) []candidate {
	candidates := []candidate{{url: job.PrimaryURL}}
	for _, alt := range job.AlternativeURLs {
		if len(candidates) >= pe.maxAttempts {
			break
		}
		candidates = append(candidates, candidate{url: alt})
	}

	if pe.external != nil && len(candidates) < pe.maxAttempts {
		candidates = append(candidates, candidate{url: job.PrimaryURL, external: true})
	}

	return candidates
}

// sourceTag maps a candidate index to its audit tag.
func sourceTag(i int) string {
	switch i {
	case 0:
		return models.AttemptSourceOriginal
	case 1:
		return models.AttemptSourceAlternative
	default:
		return models.AttemptSourceExternal
	}
}

// Run executes the retry loop for one job. Every attempt is recorded
// best-effort; a logging failure never aborts the loop.
func (pe *PurchaseRetryEngine) Run(ctx context.Context, job PurchaseJob) (*PurchaseOutcome, error) {
	outcome := &PurchaseOutcome{}
	candidates := pe.buildCandidates(job)

	for i, cand := range candidates {
		if i > 0 {
			backoff := pe.initialBackoff * time.Duration(1<<i)
			if err := pe.sleep(ctx, backoff); err != nil {
				outcome.LastError = err.Error()
				return outcome, err
			}
		}

		tag := sourceTag(i)
		result, err := pe.attempt(ctx, job, cand)

		attempt := models.PurchaseAttempt{
			ID:      uuid.New(),
			OrderID: job.OrderID,
			Source:  tag,
		}

		switch {
		case err != nil:
			attempt.ErrorText = err.Error()
			outcome.LastError = err.Error()
		case result.Success:
			attempt.Success = true
			outcome.Succeeded = true
			outcome.SupplierOrderID = result.SupplierOrderID
		case result.Simulated:
			// a sandbox id is not a success for retry accounting
			attempt.ErrorText = "simulated order id: " + result.SupplierOrderID
			outcome.SimulatedOrderID = result.SupplierOrderID
			outcome.LastError = attempt.ErrorText
		default:
			attempt.ErrorText = result.ErrorText
			outcome.LastError = result.ErrorText
		}

		pe.logAttempt(ctx, &attempt)
		outcome.Attempts = append(outcome.Attempts, attempt)

		if outcome.Succeeded {
			return outcome, nil
		}
	}

	return outcome, models.ErrPurchaseExhausted
}

// attempt performs one provider call, resolving a supplier account
// through rotation when one is available.
func (pe *PurchaseRetryEngine) attempt(ctx context.Context, job PurchaseJob, cand candidate) (*provider.PurchaseResult, error) {
	prov := pe.supplier
	if cand.external {
		prov = pe.external
	}

	req := provider.PurchaseRequest{
		ProductURL:   cand.url,
		Quantity:     job.Quantity,
		PriceCeiling: job.PriceCeiling,
		Shipping:     job.Shipping,
	}

	var account *models.Account
	if pe.rotation != nil {
		acc, err := pe.rotation.NextAccount(ctx, models.AccountCategorySupplier, "")
		if err != nil {
			if !errors.Is(err, models.ErrNoAccountAvailable) {
				return nil, err
			}
			// no eligible account: proceed without one
		} else {
			account = acc
			req.AccountLabel = acc.Label
		}
	}

	result, err := prov.PlaceOrder(ctx, req)
	if err != nil {
		if account != nil {
			if blockErr := pe.rotation.MarkUnhealthy(ctx, account.ID); blockErr != nil {
				logger.Log.Error("mark account unhealthy", zap.String("account", account.ID.String()), zap.Error(blockErr))
			}
		}
		return nil, err
	}

	if account != nil && result.Success {
		pe.rotation.IncrementUsage(ctx, account.ID)
	}

	return result, nil
}

func (pe *PurchaseRetryEngine) logAttempt(ctx context.Context, attempt *models.PurchaseAttempt) {
	if pe.attempts == nil {
		return
	}
	if err := pe.attempts.CreateAttempt(ctx, attempt); err != nil {
		logger.Log.Error("record purchase attempt",
			zap.String("order", attempt.OrderID.String()),
			zap.String("source", attempt.Source),
			zap.Error(err))
	}
}
