package models

import "time"

// TokenPayload is the verified claims of a service auth token.
type TokenPayload struct {
	Service   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
