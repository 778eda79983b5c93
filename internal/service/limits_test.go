package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDailyStatsRepo struct {
	count int
	sum   float64
	since time.Time
	err   error
}

func (f *fakeDailyStatsRepo) DailyStats(_ context.Context, since time.Time) (int, float64, error) {
	f.since = since
	return f.count, f.sum, f.err
}

func TestDailyLimitsGuard_Check(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		sum        float64
		maxOrders  int
		maxSpend   float64
		amount     float64
		wantOK     bool
		wantReason string
	}{
		{
			name:      "first_order_of_day_ok",
			count:     0,
			sum:       0,
			maxOrders: 2,
			maxSpend:  1000,
			amount:    50,
			wantOK:    true,
		},
		{
			name:       "third_order_with_max_two_rejected",
			count:      2,
			sum:        100,
			maxOrders:  2,
			maxSpend:   1000,
			amount:     50,
			wantOK:     false,
			wantReason: "MAX_DAILY_ORDERS",
		},
		{
			name:       "spend_threshold_rejected",
			count:      1,
			sum:        990,
			maxOrders:  10,
			maxSpend:   1000,
			amount:     20,
			wantOK:     false,
			wantReason: "MAX_DAILY_SPEND",
		},
		{
			name:      "spend_exactly_at_limit_ok",
			count:     1,
			sum:       950,
			maxOrders: 10,
			maxSpend:  1000,
			amount:    50,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeDailyStatsRepo{count: tt.count, sum: tt.sum}
			guard := NewDailyLimitsGuard(repo, tt.maxOrders, tt.maxSpend)

			res, err := guard.Check(context.Background(), tt.amount)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, res.OK)
			assert.Equal(t, tt.count, res.Count)
			assert.Equal(t, tt.sum, res.Spend)
			if tt.wantReason != "" {
				assert.Contains(t, res.Reason, tt.wantReason)
			}
		})
	}
}

func TestDailyLimitsGuard_DayWindowStartsAtLocalMidnight(t *testing.T) {
	repo := &fakeDailyStatsRepo{}
	guard := NewDailyLimitsGuard(repo, 10, 1000)

	now := time.Date(2025, 6, 15, 17, 42, 11, 0, time.Local)
	guard.now = func() time.Time { return now }

	_, err := guard.Check(context.Background(), 10)
	require.NoError(t, err)

	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	assert.True(t, repo.since.Equal(want), "window start %s, want %s", repo.since, want)
}

// The guard reads current stats and then decides: two concurrent
// orders at the boundary can both pass. The limits are soft business
// caps, so this window is accepted behavior. This test pins down that
// the guard makes no attempt at exclusion.
func TestDailyLimitsGuard_ReadThenDecideWindow(t *testing.T) {
	repo := &fakeDailyStatsRepo{count: 1, sum: 100}
	guard := NewDailyLimitsGuard(repo, 2, 1000)

	// both callers observe count=1 before either order is created
	first, err := guard.Check(context.Background(), 50)
	require.NoError(t, err)
	second, err := guard.Check(context.Background(), 50)
	require.NoError(t, err)

	assert.True(t, first.OK)
	assert.True(t, second.OK)
}
