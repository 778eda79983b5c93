// Package provider defines the external money-moving capabilities the
// pipeline depends on. Implementations live in internal/supplier and
// internal/payout; tests substitute mocks.
package provider

import (
	"context"

	"github.com/dropcart/dropcart/internal/models"
)

// PurchaseRequest is one supplier checkout call.
type PurchaseRequest struct {
	ProductURL   string
	Quantity     int
	PriceCeiling float64
	Shipping     models.ShippingAddress
	AccountLabel string
}

// PurchaseResult is the supplier's answer. Simulated ids come back
// from sandbox/non-live providers and are not real purchases.
type PurchaseResult struct {
	Success         bool
	SupplierOrderID string
	Simulated       bool
	ErrorText       string
}

// PurchaseProvider places an order with a supplier.
type PurchaseProvider interface {
	PlaceOrder(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)
}

// PayoutRequest is one payout leg.
type PayoutRequest struct {
	Recipient      string
	Amount         float64
	Currency       string
	Note           string
	IdempotencyTag string
	AccountLabel   string
}

// PayoutResult carries the provider reference id for a sent payout.
type PayoutResult struct {
	Success     bool
	ReferenceID string
	ErrorText   string
}

// PayoutProvider sends money to a recipient address.
type PayoutProvider interface {
	Name() string
	SendPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
}

// BalanceProvider reports the real available balance of the business
// account money is drawn from.
type BalanceProvider interface {
	RealAvailableBalance(ctx context.Context) (float64, error)
}
