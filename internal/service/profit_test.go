package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitGuard_Check(t *testing.T) {
	guard := NewProfitGuard(0.02, 0.029, 0.30)

	tests := []struct {
		name        string
		input       ProfitInput
		wantAllowed bool
	}{
		{
			name: "healthy_margin_allowed",
			input: ProfitInput{
				SellingPrice:  50,
				SupplierPrice: 20,
				Tax:           1,
				Shipping:      2,
			},
			wantAllowed: true,
		},
		{
			name: "price_below_supplier_cost_blocked",
			input: ProfitInput{
				SellingPrice:  10,
				SupplierPrice: 20,
			},
			wantAllowed: false,
		},
		{
			name: "price_equal_to_landed_cost_blocked",
			input: ProfitInput{
				SellingPrice:  23,
				SupplierPrice: 20,
				PlatformFee:   1,
				ProcessorFee:  2,
			},
			wantAllowed: false,
		},
		{
			name: "explicit_fees_override_percentages",
			input: ProfitInput{
				SellingPrice:  100,
				SupplierPrice: 40,
				PlatformFee:   5,
				ProcessorFee:  3,
				Tax:           2,
				Shipping:      4,
			},
			wantAllowed: true,
		},
		{
			name: "thin_margin_eaten_by_fees_blocked",
			input: ProfitInput{
				SellingPrice:  20.50,
				SupplierPrice: 20,
			},
			wantAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Check(tt.input)

			assert.Equal(t, tt.wantAllowed, got.Allowed)

			// allowed implies price strictly above landed cost,
			// blocked implies non-positive net profit
			if got.Allowed {
				assert.Greater(t, got.SellingPrice, got.TotalLandedCost)
				assert.Greater(t, got.NetProfit, 0.0)
				assert.Empty(t, got.Reason)
			} else {
				assert.LessOrEqual(t, got.NetProfit, 0.0)
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestProfitGuard_CheckBreakdown(t *testing.T) {
	guard := NewProfitGuard(0.02, 0.029, 0.30)

	got := guard.Check(ProfitInput{
		SellingPrice:  100,
		SupplierPrice: 40,
		Tax:           5,
		Shipping:      3,
	})

	require.True(t, got.Allowed)
	assert.InDelta(t, 2.0, got.PlatformFee, 0.001)
	assert.InDelta(t, 3.2, got.ProcessorFee, 0.001)
	assert.InDelta(t, 53.2, got.TotalLandedCost, 0.001)
	assert.InDelta(t, 46.8, got.NetProfit, 0.001)
}

func TestProfitGuard_Floor(t *testing.T) {
	guard := NewProfitGuard(0.02, 0.029, 0.30)

	floor := guard.Floor(40, 5, 3)

	// at the floor price the net profit is exactly zero
	got := guard.Check(ProfitInput{
		SellingPrice:  floor,
		SupplierPrice: 40,
		Tax:           5,
		Shipping:      3,
	})
	assert.False(t, got.Allowed)
	assert.InDelta(t, 0.0, got.NetProfit, 0.0001)

	// one cent above the floor clears it
	above := guard.Check(ProfitInput{
		SellingPrice:  floor + 0.01,
		SupplierPrice: 40,
		Tax:           5,
		Shipping:      3,
	})
	assert.True(t, above.Allowed)
}
