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

type fakeCompetitorSource struct {
	prices []float64
	err    error
}

func (f *fakeCompetitorSource) CompetitorPrices(context.Context, uuid.UUID) ([]float64, error) {
	return f.prices, f.err
}

type fakeProductLister struct {
	products []models.ProductCost
	err      error
}

func (f *fakeProductLister) RecentProducts(context.Context, int) ([]models.ProductCost, error) {
	return f.products, f.err
}

func TestPricingEngine_SuggestUndercutsCompetitorLow(t *testing.T) {
	profit := NewProfitGuard(0.02, 0.029, 0.30)
	engine := NewPricingEngine(&fakeCompetitorSource{prices: []float64{49.99, 44.99, 52.00}}, nil, profit, 0.03)

	got, err := engine.Suggest(context.Background(), uuid.New(), 20, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 44.99, got.CompetitorLow)
	assert.InDelta(t, 44.99*0.97, got.Suggested, 0.001)
	assert.False(t, got.Floored)
}

func TestPricingEngine_SuggestFloorsWhenCompetitorsBelowBreakEven(t *testing.T) {
	profit := NewProfitGuard(0.02, 0.029, 0.30)
	engine := NewPricingEngine(&fakeCompetitorSource{prices: []float64{19.00}}, nil, profit, 0.03)

	got, err := engine.Suggest(context.Background(), uuid.New(), 20, 1, 2)
	require.NoError(t, err)

	assert.True(t, got.Floored)
	assert.InDelta(t, got.Floor*1.15, got.Suggested, 0.001)
	assert.Greater(t, got.Suggested, got.Floor)
}

func TestPricingEngine_SuggestWithoutCompetitorSource(t *testing.T) {
	profit := NewProfitGuard(0.02, 0.029, 0.30)
	engine := NewPricingEngine(nil, nil, profit, 0.03)

	got, err := engine.Suggest(context.Background(), uuid.New(), 20, 0, 0)
	require.NoError(t, err)

	assert.Zero(t, got.CompetitorLow)
	assert.InDelta(t, got.Floor*1.15, got.Suggested, 0.001)
}

func TestPricingEngine_SuggestSourceError(t *testing.T) {
	profit := NewProfitGuard(0.02, 0.029, 0.30)
	engine := NewPricingEngine(&fakeCompetitorSource{err: errors.New("scrape failed")}, nil, profit, 0.03)

	_, err := engine.Suggest(context.Background(), uuid.New(), 20, 0, 0)
	assert.Error(t, err)
}

func TestPricingEngine_RefreshTolerantOfNoProducts(t *testing.T) {
	profit := NewProfitGuard(0.02, 0.029, 0.30)
	engine := NewPricingEngine(nil, &fakeProductLister{}, profit, 0.03)

	assert.NoError(t, engine.Refresh(context.Background()))
}

func TestPricingEngine_RefreshListerError(t *testing.T) {
	profit := NewProfitGuard(0.02, 0.029, 0.30)
	engine := NewPricingEngine(nil, &fakeProductLister{err: errors.New("db down")}, profit, 0.03)

	assert.Error(t, engine.Refresh(context.Background()))
}
