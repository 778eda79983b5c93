package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal owner view this pipeline needs: where to pay the
// seller and whether an intermediary admin takes a cut. Full user CRUD
// lives outside this service.
type User struct {
	ID                 uuid.UUID
	PayoutAddress      string
	AdminProvisioned   bool
	AdminUserID        *uuid.UUID
	AdminCommissionPct float64
	TotalEarnings      float64
	CreatedAt          time.Time
}

// PlatformConfig is the singleton platform row. Read-only here.
type PlatformConfig struct {
	CommissionPct      float64
	AdminPayoutAddress string
}
