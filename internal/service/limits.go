package service

import (
	"context"
	"fmt"
	"time"
)

// DailyStatsRepository is interface for reading today's order stats
type DailyStatsRepository interface {
	// DailyStats returns count and aggregate price of orders created since the given instant
	DailyStats(ctx context.Context, since time.Time) (int, float64, error)
}

// DailyLimitsResult is the guard decision plus the snapshot it saw.
type DailyLimitsResult struct {
	OK     bool
	Count  int
	Spend  float64
	Reason string
}

// DailyLimitsGuard rejects new orders past the configured per-day
// count and spend thresholds. The check is read-then-decide: two
// concurrent orders can both pass at the boundary. The limits are soft
// business caps, not money-safety invariants, so that window is
// accepted.
type DailyLimitsGuard struct {
	repo           DailyStatsRepository
	maxDailyOrders int
	maxDailySpend  float64
	now            func() time.Time
}

// NewDailyLimitsGuard creates new DailyLimitsGuard instance
func NewDailyLimitsGuard(repo DailyStatsRepository, maxDailyOrders int, maxDailySpend float64) *DailyLimitsGuard {
	return &DailyLimitsGuard{
		repo:           repo,
		maxDailyOrders: maxDailyOrders,
		maxDailySpend:  maxDailySpend,
		now:            time.Now,
	}
}

// Check decides whether an order of the given amount fits within
// today's limits. The day window starts at local midnight.
func (dg *DailyLimitsGuard) Check(ctx context.Context, amount float64) (DailyLimitsResult, error) {
	now := dg.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, spend, err := dg.repo.DailyStats(ctx, dayStart)
	if err != nil {
		return DailyLimitsResult{}, err
	}

	res := DailyLimitsResult{Count: count, Spend: spend}

	if count+1 > dg.maxDailyOrders {
		res.Reason = fmt.Sprintf("MAX_DAILY_ORDERS: %d orders today, limit %d", count, dg.maxDailyOrders)
		return res, nil
	}

	if spend+amount > dg.maxDailySpend {
		res.Reason = fmt.Sprintf("MAX_DAILY_SPEND: %.2f spent today, order %.2f exceeds limit %.2f",
			spend, amount, dg.maxDailySpend)
		return res, nil
	}

	res.OK = true
	return res, nil
}
