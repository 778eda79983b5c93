package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SettlementService is interface for sale creation and payout settlement
type SettlementService interface {
	// CreateSaleFromOrder computes and persists the sale split, idempotently
	CreateSaleFromOrder(ctx context.Context, orderID uuid.UUID) (*models.Sale, error)
	// Settle executes the dual payout for a sale
	Settle(ctx context.Context, sale *models.Sale) (*models.Sale, error)
}

// SettlementHandler represents HTTP handler for settlement requests
type SettlementHandler struct {
	svc SettlementService
}

// NewSettlementHandler creates new SettlementHandler instance
func NewSettlementHandler(svc SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

type saleResponse struct {
	SaleID         string  `json:"sale_id"`
	Status         string  `json:"status"`
	GrossProfit    float64 `json:"gross_profit"`
	Commission     float64 `json:"commission"`
	NetProfit      float64 `json:"net_profit"`
	PayoutExecuted bool    `json:"payout_executed"`
	Error          string  `json:"error,omitempty"`
}

// CreateSaleFromOrder creates (or returns) the sale for a purchased
// order and runs settlement. Idempotent: re-invocation on an
// already-settled order returns the existing sale unchanged.
// 200 — sale created or returned, settlement outcome in the body.
// 404 — unknown order id.
// 409 — order is not PURCHASED.
// 500 — internal error or reconciliation violation.
func (sh *SettlementHandler) CreateSaleFromOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		sale, err := sh.svc.CreateSaleFromOrder(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderNotPurchased):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, models.ErrReconciliation):
				http.Error(w, err.Error(), http.StatusInternalServerError)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := saleResponse{
			SaleID:         sale.ID.String(),
			GrossProfit:    sale.GrossProfit,
			Commission:     sale.PlatformCommission,
			NetProfit:      sale.NetProfit,
			PayoutExecuted: sale.PayoutExecuted,
		}

		settled, err := sh.svc.Settle(r.Context(), sale)
		if err != nil {
			// the sale row exists either way: report it with the
			// settlement error rather than an ambiguous failure
			resp.Status = sale.Status
			resp.Error = err.Error()
		} else {
			resp.Status = settled.Status
			resp.PayoutExecuted = settled.PayoutExecuted
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
