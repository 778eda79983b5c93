package models

import (
	"time"

	"github.com/google/uuid"
)

// purchase attempt source tag
const (
	AttemptSourceOriginal    = "original"
	AttemptSourceAlternative = "alternative"
	AttemptSourceExternal    = "external"
)

// PurchaseAttempt is one row per retry attempt. Append-only.
type PurchaseAttempt struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Source    string
	Success   bool
	ErrorText string
	CreatedAt time.Time
}
