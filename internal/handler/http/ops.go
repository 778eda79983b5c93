package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/service"
	"github.com/google/uuid"
)

// AccountHealthService is interface for account rotation health
type AccountHealthService interface {
	// Health returns aggregate account counts per category
	Health(ctx context.Context) ([]models.AccountHealth, error)
}

// CapitalService is interface for the capital snapshot
type CapitalService interface {
	// Snapshot returns current balance, committed and free capital
	Snapshot(ctx context.Context) (service.CapitalSnapshot, error)
}

// PricingService is interface for price suggestions
type PricingService interface {
	// Suggest computes a price for one product
	Suggest(ctx context.Context, productID uuid.UUID, supplierPrice, tax, shipping float64) (service.PricingSuggestion, error)
}

// OpsHandler represents HTTP handler for operational dashboard requests
type OpsHandler struct {
	accounts AccountHealthService
	capital  CapitalService
	pricing  PricingService
}

// NewOpsHandler creates new OpsHandler instance
func NewOpsHandler(accounts AccountHealthService, capital CapitalService, pricing PricingService) *OpsHandler {
	return &OpsHandler{
		accounts: accounts,
		capital:  capital,
		pricing:  pricing,
	}
}

type accountHealthResponse struct {
	Category string `json:"category"`
	Healthy  int    `json:"healthy"`
	Blocked  int    `json:"blocked"`
	Total    int    `json:"total"`
}

// AccountsHealth returns per-category account rotation health
// 200 — health counts in the body.
// 500 — internal error.
func (oh *OpsHandler) AccountsHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health, err := oh.accounts.Health(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := []accountHealthResponse{}
		for _, h := range health {
			resp = append(resp, accountHealthResponse{
				Category: h.Category,
				Healthy:  h.Healthy,
				Blocked:  h.Blocked,
				Total:    h.Total,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type capitalResponse struct {
	Balance   float64 `json:"balance"`
	Committed float64 `json:"committed"`
	Free      float64 `json:"free"`
}

// Capital returns the current working-capital snapshot
func (oh *OpsHandler) Capital() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := oh.capital.Snapshot(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(capitalResponse{
			Balance:   snap.Balance,
			Committed: snap.Committed,
			Free:      snap.Free,
		}); err != nil {
			return
		}
	}
}

type pricingResponse struct {
	ProductID     string  `json:"product_id"`
	Suggested     float64 `json:"suggested"`
	Floor         float64 `json:"floor"`
	CompetitorLow float64 `json:"competitor_low,omitempty"`
	Floored       bool    `json:"floored"`
}

// SuggestPrice returns a suggested price for a product
// 200 — suggestion computed.
// 400 — malformed query parameters.
// 500 — internal error.
func (oh *OpsHandler) SuggestPrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(r.URL.Query().Get("product"))
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		supplierCost, err := strconv.ParseFloat(r.URL.Query().Get("supplier_cost"), 64)
		if err != nil {
			http.Error(w, "invalid supplier cost", http.StatusBadRequest)
			return
		}

		tax, _ := strconv.ParseFloat(r.URL.Query().Get("tax"), 64)
		shipping, _ := strconv.ParseFloat(r.URL.Query().Get("shipping"), 64)

		suggestion, err := oh.pricing.Suggest(r.Context(), productID, supplierCost, tax, shipping)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(pricingResponse{
			ProductID:     suggestion.ProductID.String(),
			Suggested:     suggestion.Suggested,
			Floor:         suggestion.Floor,
			CompetitorLow: suggestion.CompetitorLow,
			Floored:       suggestion.Floored,
		}); err != nil {
			return
		}
	}
}
