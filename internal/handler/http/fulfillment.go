package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FulfillmentService is interface for order intake and fulfillment
type FulfillmentService interface {
	// CreateOrder persists a verified order-creation request as a PAID order
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*models.Order, error)
	// FulfillOrder runs the pipeline for one paid order
	FulfillOrder(ctx context.Context, orderID uuid.UUID) (*service.FulfillResult, error)
}

// FulfillmentHandler represents HTTP handler for order fulfillment requests
type FulfillmentHandler struct {
	svc FulfillmentService
}

// NewFulfillmentHandler creates new FulfillmentHandler instance
func NewFulfillmentHandler(svc FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{svc: svc}
}

type createOrderRequest struct {
	UserID          string   `json:"user_id"`
	ProductID       string   `json:"product_id"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency"`
	Name            string   `json:"name"`
	Line1           string   `json:"line1"`
	City            string   `json:"city"`
	Zip             string   `json:"zip"`
	Country         string   `json:"country"`
	SupplierURL     string   `json:"supplier_url"`
	AlternativeURLs []string `json:"alternative_urls,omitempty"`
	Quantity        int      `json:"quantity"`
	SupplierCost    float64  `json:"supplier_cost"`
	Tax             float64  `json:"tax"`
	ShippingCost    float64  `json:"shipping_cost"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// CreateOrder accepts the verified order-creation payload from the
// upstream payment-capture flow
// 201 — order created in PAID.
// 400 — malformed request.
// 422 — profit guard rejected the price.
// 500 — internal error.
func (fh *FulfillmentHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		order, err := fh.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
			UserID:    userID,
			ProductID: productID,
			Price:     req.Price,
			Currency:  req.Currency,
			Shipping: models.ShippingAddress{
				Name:    req.Name,
				Line1:   req.Line1,
				City:    req.City,
				Zip:     req.Zip,
				Country: req.Country,
			},
			SupplierURL:     req.SupplierURL,
			AlternativeURLs: req.AlternativeURLs,
			Quantity:        req.Quantity,
			SupplierCost:    req.SupplierCost,
			Tax:             req.Tax,
			ShippingCost:    req.ShippingCost,
		})
		if err != nil {
			var guardErr models.GuardError
			switch {
			case errors.As(err, &guardErr):
				http.Error(w, guardErr.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "order already exists", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(createOrderResponse{
			OrderID: order.ID.String(),
			Status:  order.Status,
		}); err != nil {
			return
		}
	}
}

type fulfillResponse struct {
	Success         bool   `json:"success"`
	Status          string `json:"status"`
	SupplierOrderID string `json:"supplier_order_id,omitempty"`
	Error           string `json:"error,omitempty"`
}

// FulfillOrder triggers the fulfillment pipeline for one order
// 200 — definite outcome in the body, including guard rejections.
// 404 — unknown order id.
// 409 — order is not in a fulfillable state.
// 500 — internal error.
func (fh *FulfillmentHandler) FulfillOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		result, err := fh.svc.FulfillOrder(r.Context(), orderID)
		if err != nil {
			var guardErr models.GuardError
			switch {
			case errors.As(err, &guardErr) && result != nil:
				// guard rejection still carries a definite outcome
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
				return
			case errors.Is(err, models.ErrOrderNotPaid):
				http.Error(w, err.Error(), http.StatusConflict)
				return
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(fulfillResponse{
			Success:         result.Success,
			Status:          result.Status,
			SupplierOrderID: result.SupplierOrderID,
			Error:           result.Error,
		}); err != nil {
			return
		}
	}
}
