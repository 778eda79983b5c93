package models

import (
	"time"

	"github.com/google/uuid"
)

// order status
const (
	OrderStatusCreated    = "CREATED"
	OrderStatusPaid       = "PAID"
	OrderStatusPurchasing = "PURCHASING"
	OrderStatusPurchased  = "PURCHASED"
	OrderStatusFailed     = "FAILED"
	OrderStatusSimulated  = "SIMULATED"
)

// IsTerminalOrderStatus reports whether the pipeline will never touch
// an order in the given status again.
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusPurchased, OrderStatusFailed, OrderStatusSimulated:
		return true
	}
	return false
}

// ShippingAddress is the customer shipping snapshot captured at
// payment time. It is immutable once the order is created.
type ShippingAddress struct {
	Name    string
	Line1   string
	City    string
	Zip     string
	Country string
}

// ProductCost is a product's latest observed price and supplier cost,
// derived from recent orders for the pricing engine.
type ProductCost struct {
	ProductID    uuid.UUID
	Price        float64
	SupplierCost float64
}

// Order is order entity
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ProductID       uuid.UUID
	Price           float64
	Currency        string
	Shipping        ShippingAddress
	SupplierURL     string
	AlternativeURLs []string
	Quantity        int
	SupplierCost    float64
	Status          string
	SupplierOrderID string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
