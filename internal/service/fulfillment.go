package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentOrderRepository is interface for interacting with order-related data
type FulfillmentOrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetOrdersByStatus returns orders with the given status
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	// TransitionStatus moves an order between statuses with a compare-and-set
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) error
	// MarkPurchased sets the purchased/simulated status and supplier order id
	MarkPurchased(ctx context.Context, id uuid.UUID, status, supplierOrderID string) error
	// MarkFailed sets the failed status with a descriptive message
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// PurchaseEngine runs the retry loop for one purchase job
type PurchaseEngine interface {
	Run(ctx context.Context, job PurchaseJob) (*PurchaseOutcome, error)
}

// Settler settles a purchased order: sale creation plus dual payout
type Settler interface {
	SettleOrder(ctx context.Context, orderID uuid.UUID) error
}

// CreateOrderRequest is the already-verified order-creation payload
// handed over by the upstream payment-capture flow.
type CreateOrderRequest struct {
	UserID          uuid.UUID
	ProductID       uuid.UUID
	Price           float64
	Currency        string
	Shipping        models.ShippingAddress
	SupplierURL     string
	AlternativeURLs []string
	Quantity        int
	SupplierCost    float64
	Tax             float64
	ShippingCost    float64
}

// FulfillResult is the definite outcome of one fulfillment call.
type FulfillResult struct {
	Success         bool
	Status          string
	SupplierOrderID string
	Error           string
}

// FulfillmentService owns the order state machine:
// CREATED → PAID → PURCHASING → {PURCHASED | FAILED | SIMULATED}.
// PAID is the only valid entry state; every failure path writes a
// terminal status with a human-readable message.
type FulfillmentService struct {
	repo     FulfillmentOrderRepository
	profit   *ProfitGuard
	limits   *DailyLimitsGuard
	capital  *CapitalGuard
	engine   PurchaseEngine
	settler  Settler
	liveMode bool
}

// NewFulfillmentService creates new FulfillmentService instance
func NewFulfillmentService(repo FulfillmentOrderRepository, profit *ProfitGuard, limits *DailyLimitsGuard, capital *CapitalGuard, engine PurchaseEngine, settler Settler, liveMode bool) *FulfillmentService {
	return &FulfillmentService{
		repo:     repo,
		profit:   profit,
		limits:   limits,
		capital:  capital,
		engine:   engine,
		settler:  settler,
		liveMode: liveMode,
	}
}

// CreateOrder persists a verified order-creation request as a PAID
// order after the profit guard clears the price. The profit check
// here is why fulfillment itself does not repeat it.
func (fs *FulfillmentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	breakdown := fs.profit.Check(ProfitInput{
		SellingPrice:  req.Price,
		SupplierPrice: req.SupplierCost,
		Tax:           req.Tax,
		Shipping:      req.ShippingCost,
	})
	if !breakdown.Allowed {
		return nil, models.GuardError{Guard: "PROFIT_GUARD", Reason: breakdown.Reason}
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          req.UserID,
		ProductID:       req.ProductID,
		Price:           req.Price,
		Currency:        req.Currency,
		Shipping:        req.Shipping,
		SupplierURL:     req.SupplierURL,
		AlternativeURLs: req.AlternativeURLs,
		Quantity:        quantity,
		SupplierCost:    req.SupplierCost,
		Status:          models.OrderStatusPaid,
	}

	return fs.repo.CreateOrder(ctx, order)
}

// FulfillOrder runs the whole pipeline for one paid order and always
// returns a definite status. Calling it again on a terminal order
// returns the recorded outcome without re-attempting a purchase.
func (fs *FulfillmentService) FulfillOrder(ctx context.Context, orderID uuid.UUID) (*FulfillResult, error) {
	order, err := fs.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalOrderStatus(order.Status) {
		return &FulfillResult{
			Success:         order.Status != models.OrderStatusFailed,
			Status:          order.Status,
			SupplierOrderID: order.SupplierOrderID,
			Error:           order.ErrorMessage,
		}, nil
	}

	if order.Status != models.OrderStatusPaid {
		return nil, fmt.Errorf("%w: order %s is %s", models.ErrOrderNotPaid, order.ID, order.Status)
	}

	// daily limits before the commitment point: a rejection leaves the
	// order PAID so a later run can pick it up again
	limitsRes, err := fs.limits.Check(ctx, order.Price)
	if err != nil {
		return nil, err
	}
	if !limitsRes.OK {
		return &FulfillResult{Status: models.OrderStatusPaid, Error: limitsRes.Reason},
			models.GuardError{Guard: "DAILY_LIMITS", Reason: limitsRes.Reason}
	}

	// commitment point: after this a supplier call may happen
	if err := fs.repo.TransitionStatus(ctx, order.ID, models.OrderStatusPaid, models.OrderStatusPurchasing); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return nil, fmt.Errorf("%w: order %s picked up concurrently", models.ErrOrderNotPaid, order.ID)
		}
		return nil, err
	}

	if err := validateOrder(order); err != nil {
		return fs.fail(ctx, order, err.Error())
	}

	purchaseCost := order.SupplierCost
	if purchaseCost == 0 {
		purchaseCost = order.Price
	}

	// re-evaluated here, not at order creation: committed capital
	// moves as other orders progress
	if _, err := fs.capital.Check(ctx, purchaseCost); err != nil {
		var capErr models.CapitalError
		if errors.As(err, &capErr) {
			return fs.fail(ctx, order, capErr.Error())
		}
		return fs.fail(ctx, order, "capital check unavailable: "+err.Error())
	}

	outcome, err := fs.engine.Run(ctx, PurchaseJob{
		OrderID:         order.ID,
		PrimaryURL:      order.SupplierURL,
		AlternativeURLs: order.AlternativeURLs,
		Quantity:        order.Quantity,
		PriceCeiling:    purchaseCost,
		Shipping:        order.Shipping,
	})
	if err != nil && !errors.Is(err, models.ErrPurchaseExhausted) {
		return fs.fail(ctx, order, err.Error())
	}

	if outcome.Succeeded {
		return fs.succeed(ctx, order, models.OrderStatusPurchased, outcome.SupplierOrderID)
	}

	if !fs.liveMode && outcome.SimulatedOrderID != "" {
		// sandbox run: surface the simulated id as a soft success,
		// with no settlement behind it
		return fs.succeed(ctx, order, models.OrderStatusSimulated, outcome.SimulatedOrderID)
	}

	return fs.fail(ctx, order, outcome.LastError)
}

// succeed records the purchase and, for real purchases, triggers
// settlement. A settlement failure is reported but never reverses the
// purchased status: the supplier order already exists.
func (fs *FulfillmentService) succeed(ctx context.Context, order *models.Order, status, supplierOrderID string) (*FulfillResult, error) {
	if err := fs.repo.MarkPurchased(ctx, order.ID, status, supplierOrderID); err != nil {
		return nil, err
	}

	result := &FulfillResult{Success: true, Status: status, SupplierOrderID: supplierOrderID}

	if status == models.OrderStatusPurchased && fs.settler != nil {
		if err := fs.settler.SettleOrder(ctx, order.ID); err != nil {
			logger.Log.Error("settlement after purchase",
				zap.String("order", order.ID.String()), zap.Error(err))
			result.Error = "settlement pending: " + err.Error()
		}
	}

	return result, nil
}

func (fs *FulfillmentService) fail(ctx context.Context, order *models.Order, msg string) (*FulfillResult, error) {
	if err := fs.repo.MarkFailed(ctx, order.ID, msg); err != nil {
		return nil, err
	}

	return &FulfillResult{Status: models.OrderStatusFailed, Error: msg}, nil
}

// PaidOrders returns orders awaiting fulfillment, for the worker.
func (fs *FulfillmentService) PaidOrders(ctx context.Context) ([]models.Order, error) {
	return fs.repo.GetOrdersByStatus(ctx, models.OrderStatusPaid)
}

// validateOrder checks the structural validity of the shipping
// address and supplier URL. Failures are terminal: retrying does not
// fix a bad address.
func validateOrder(order *models.Order) error {
	if err := validateSupplierURL(order.SupplierURL); err != nil {
		return err
	}

	addr := order.Shipping
	if strings.TrimSpace(addr.Name) == "" {
		return models.ValidationError{Field: "shipping address", Reason: "missing recipient name"}
	}
	if strings.TrimSpace(addr.Line1) == "" {
		return models.ValidationError{Field: "shipping address", Reason: "missing street line"}
	}
	if strings.TrimSpace(addr.City) == "" {
		return models.ValidationError{Field: "shipping address", Reason: "missing city"}
	}
	if strings.TrimSpace(addr.Country) == "" {
		return models.ValidationError{Field: "shipping address", Reason: "missing country"}
	}

	return nil
}

func validateSupplierURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return models.ValidationError{Field: "supplier url", Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.ValidationError{Field: "supplier url", Reason: "unsupported scheme " + u.Scheme}
	}
	if u.Host == "" {
		return models.ValidationError{Field: "supplier url", Reason: "missing host"}
	}

	return nil
}
