package models

import (
	"time"

	"github.com/google/uuid"
)

// account category
const (
	AccountCategoryMarketplace = "marketplace"
	AccountCategoryPayout      = "payout"
	AccountCategorySupplier    = "supplier"
)

// Account is an external credential used to call a provider. Usage is
// counted per window against UsageLimit so load spreads across
// accounts and no single credential hits provider rate limits.
type Account struct {
	ID         uuid.UUID
	Category   string
	Subtype    string
	Label      string
	UsageCount int
	UsageLimit int
	Active     bool
	Blocked    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Eligible reports whether the account may be selected for use.
func (a *Account) Eligible() bool {
	return a.Active && !a.Blocked && a.UsageCount < a.UsageLimit
}

// AccountHealth is the aggregate per-category view for dashboards.
type AccountHealth struct {
	Category string
	Healthy  int
	Blocked  int
	Total    int
}
