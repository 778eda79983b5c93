package service

import (
	"context"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
)

// CommittedCapitalRepository is interface for reading capital committed to in-flight purchases
type CommittedCapitalRepository interface {
	// CommittedCapital returns the sum of supplier costs for orders mid-purchase or unsettled
	CommittedCapital(ctx context.Context) (float64, error)
}

// CapitalSnapshot is the numbers behind one capital decision.
type CapitalSnapshot struct {
	Balance   float64
	Committed float64
	Free      float64
	Required  float64
}

// CapitalGuard is the last gate before money leaves the business. It
// compares free working capital (real balance minus committed) against
// the requested cost inflated by a safety buffer. Re-evaluated per
// attempt: committed capital moves as other orders progress, so the
// figure must never be cached across an order's lifetime. Like the
// daily guard this is read-then-decide; the narrow race is accepted.
type CapitalGuard struct {
	repo      CommittedCapitalRepository
	balance   provider.BalanceProvider
	bufferPct float64
}

// NewCapitalGuard creates new CapitalGuard instance
func NewCapitalGuard(repo CommittedCapitalRepository, balance provider.BalanceProvider, bufferPct float64) *CapitalGuard {
	return &CapitalGuard{
		repo:      repo,
		balance:   balance,
		bufferPct: bufferPct,
	}
}

// Check rejects the purchase with a models.CapitalError when free
// capital does not cover the buffered cost.
func (cg *CapitalGuard) Check(ctx context.Context, cost float64) (CapitalSnapshot, error) {
	balance, err := cg.balance.RealAvailableBalance(ctx)
	if err != nil {
		return CapitalSnapshot{}, err
	}

	committed, err := cg.repo.CommittedCapital(ctx)
	if err != nil {
		return CapitalSnapshot{}, err
	}

	snap := CapitalSnapshot{
		Balance:   balance,
		Committed: committed,
		Free:      balance - committed,
		Required:  cost * (1 + cg.bufferPct),
	}

	if snap.Required > snap.Free {
		return snap, models.CapitalError{
			Balance:   balance,
			Committed: committed,
			Required:  snap.Required,
		}
	}

	return snap, nil
}

// Snapshot returns the current capital figures without a cost check,
// for the operational dashboard.
func (cg *CapitalGuard) Snapshot(ctx context.Context) (CapitalSnapshot, error) {
	balance, err := cg.balance.RealAvailableBalance(ctx)
	if err != nil {
		return CapitalSnapshot{}, err
	}

	committed, err := cg.repo.CommittedCapital(ctx)
	if err != nil {
		return CapitalSnapshot{}, err
	}

	return CapitalSnapshot{
		Balance:   balance,
		Committed: committed,
		Free:      balance - committed,
	}, nil
}
