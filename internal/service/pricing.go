package service

import (
	"context"

	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// margin applied over the break-even floor when no competitor data is
// available or competitors are priced below our floor
const defaultMarginPct = 0.15

// CompetitorSource supplies competitor prices for a product. The
// marketplace analysis behind it lives outside this service.
type CompetitorSource interface {
	CompetitorPrices(ctx context.Context, productID uuid.UUID) ([]float64, error)
}

// ProductCostLister is interface for reading recently sold products and their costs
type ProductCostLister interface {
	// RecentProducts returns distinct recently ordered products with their latest costs
	RecentProducts(ctx context.Context, limit int) ([]models.ProductCost, error)
}

// PricingSuggestion is one recomputed price.
type PricingSuggestion struct {
	ProductID     uuid.UUID
	Suggested     float64
	Floor         float64
	CompetitorLow float64
	Floored       bool
}

// PricingEngine periodically recomputes suggested prices by
// undercutting the cheapest competitor, never below the profit
// guard's floor. Peer of the fulfillment pipeline, not on its
// critical path.
type PricingEngine struct {
	source      CompetitorSource
	products    ProductCostLister
	profit      *ProfitGuard
	undercutPct float64
}

// NewPricingEngine creates new PricingEngine instance. source may be
// nil; suggestions then fall back to a floor-plus-margin price.
func NewPricingEngine(source CompetitorSource, products ProductCostLister, profit *ProfitGuard, undercutPct float64) *PricingEngine {
	return &PricingEngine{
		source:      source,
		products:    products,
		profit:      profit,
		undercutPct: undercutPct,
	}
}

// Suggest computes a price for one product. The competitor low is
// undercut by the configured percent; when that lands at or below the
// break-even floor, the floor price wins.
func (pe *PricingEngine) Suggest(ctx context.Context, productID uuid.UUID, supplierPrice, tax, shipping float64) (PricingSuggestion, error) {
	floor := pe.profit.Floor(supplierPrice, tax, shipping)

	suggestion := PricingSuggestion{
		ProductID: productID,
		Floor:     floor,
	}

	var low float64
	if pe.source != nil {
		prices, err := pe.source.CompetitorPrices(ctx, productID)
		if err != nil {
			return PricingSuggestion{}, err
		}
		for _, p := range prices {
			if low == 0 || p < low {
				low = p
			}
		}
	}
	suggestion.CompetitorLow = low

	candidate := floor * (1 + defaultMarginPct)
	if low > 0 {
		candidate = low * (1 - pe.undercutPct)
	}

	if !pe.profit.Check(ProfitInput{
		SellingPrice:  candidate,
		SupplierPrice: supplierPrice,
		Tax:           tax,
		Shipping:      shipping,
	}).Allowed {
		candidate = floor * (1 + defaultMarginPct)
		suggestion.Floored = true
	}

	suggestion.Suggested = candidate
	return suggestion, nil
}

// Refresh recomputes prices for recently sold products and logs the
// results. Driven by the worker ticker.
func (pe *PricingEngine) Refresh(ctx context.Context) error {
	if pe.products == nil {
		return nil
	}

	products, err := pe.products.RecentProducts(ctx, 100)
	if err != nil {
		return err
	}

	for _, p := range products {
		suggestion, err := pe.Suggest(ctx, p.ProductID, p.SupplierCost, 0, 0)
		if err != nil {
			logger.Log.Error("price suggestion", zap.String("product", p.ProductID.String()), zap.Error(err))
			continue
		}

		logger.Log.Info("price suggestion",
			zap.String("product", p.ProductID.String()),
			zap.Float64("current", p.Price),
			zap.Float64("suggested", suggestion.Suggested),
			zap.Float64("floor", suggestion.Floor),
			zap.Bool("floored", suggestion.Floored))
	}

	return nil
}
