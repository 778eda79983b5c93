package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrOrderNotPaid       = errors.New("order is not in PAID status")
	ErrOrderTerminal      = errors.New("order is already in a terminal status")
	ErrSaleExists         = errors.New("sale already exists for order")
	ErrOrderNotPurchased  = errors.New("order is not in PURCHASED status")
	ErrNoAccountAvailable = errors.New("no eligible account available")
	ErrReconciliation     = errors.New("settlement reconciliation identity violated")
	ErrPurchaseExhausted  = errors.New("all purchase sources exhausted")
	ErrInternalError      = errors.New("internal error")
)

// TooManyRequestsError is returned by provider clients when the
// remote service asks us to back off.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func NewTooManyRequestsError(retryAfter time.Duration) TooManyRequestsError {
	return TooManyRequestsError{RetryAfter: retryAfter}
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// GuardError is a guardrail rejection: the action is blocked for
// business-safety reasons, not because of a technical failure.
// Retrying later may succeed once the limit window or capital moves.
type GuardError struct {
	Guard  string
	Reason string
}

func (e GuardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Guard, e.Reason)
}

// CapitalError is the capital guard rejection with the snapshot that
// produced it, so operators can see balance vs. commitment at a glance.
type CapitalError struct {
	Balance   float64
	Committed float64
	Required  float64
}

func (e CapitalError) Error() string {
	return fmt.Sprintf("INSUFFICIENT_FUNDS: required %.2f exceeds free capital %.2f (balance %.2f, committed %.2f)",
		e.Required, e.Balance-e.Committed, e.Balance, e.Committed)
}

// ValidationError marks a structurally invalid order. Terminal: no
// amount of retrying fixes a bad address or supplier URL.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
