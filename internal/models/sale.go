package models

import (
	"time"

	"github.com/google/uuid"
)

// sale status
const (
	SaleStatusPending      = "PENDING"
	SaleStatusPaidOut      = "PAID_OUT"
	SaleStatusPayoutFailed = "PAYOUT_FAILED"
	SaleStatusSkipped      = "SKIPPED"
)

// commission status
const (
	CommissionStatusPending = "PENDING"
	CommissionStatusPaid    = "PAID"
	CommissionStatusFailed  = "FAILED"
)

// ReconciliationTolerance is the maximum rounding drift allowed
// between netProfit and grossProfit-platformCommission-marketplaceFee.
const ReconciliationTolerance = 0.05

// Sale is the settlement record for one purchased order. OrderID is
// unique: it is the idempotency key for the whole settlement.
type Sale struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	UserID             uuid.UUID
	SalePrice          float64
	SupplierCost       float64
	MarketplaceFee     float64
	GrossProfit        float64
	PlatformCommission float64
	NetProfit          float64
	Currency           string
	Status             string
	AdminPayoutID      *string
	UserPayoutID       *string
	PayoutExecuted     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Commission is the platform commission row for one sale. Its status
// tracks the payout lifecycle independently of the sale for reporting.
type Commission struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	Amount    float64
	Status    string
	CreatedAt time.Time
}

// AdminCommission is created in addition to Commission when the sale
// owner was provisioned by an intermediary admin.
type AdminCommission struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	AdminUserID uuid.UUID
	Amount      float64
	Status      string
	CreatedAt   time.Time
}
