package worker

import (
	"context"
	"errors"
	"time"

	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentService is interface for the fulfillment work the processor drives
type FulfillmentService interface {
	// PaidOrders returns orders awaiting fulfillment
	PaidOrders(ctx context.Context) ([]models.Order, error)
	// FulfillOrder runs the pipeline for one paid order
	FulfillOrder(ctx context.Context, orderID uuid.UUID) (*service.FulfillResult, error)
}

// PricingEngine is interface for the periodic price recompute
type PricingEngine interface {
	Refresh(ctx context.Context) error
}

// OrderProcessor periodically scans for paid orders and dispatches
// each one to its own fulfillment goroutine. Correctness across
// concurrent dispatches rests on the PAID→PURCHASING compare-and-set,
// not on in-process serialization.
type OrderProcessor struct {
	svc             FulfillmentService
	pricing         PricingEngine
	pollInterval    time.Duration
	pricingInterval time.Duration
}

// NewOrderProcessor creates new order processor
func NewOrderProcessor(svc FulfillmentService, pricing PricingEngine, pollInterval, pricingInterval time.Duration) *OrderProcessor {
	return &OrderProcessor{
		svc:             svc,
		pricing:         pricing,
		pollInterval:    pollInterval,
		pricingInterval: pricingInterval,
	}
}

// ProcessOrders runs the scan/dispatch loop until the context ends
func (op *OrderProcessor) ProcessOrders(ctx context.Context) {
	orders := make(chan uuid.UUID, 10)

	go op.fulfillOrders(ctx, orders)

	ticker := time.NewTicker(op.pollInterval)
	defer ticker.Stop()

	pricingTicker := time.NewTicker(op.pricingInterval)
	defer pricingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("order processor is done")
			return
		case <-ticker.C:
			if err := op.enqueuePaidOrders(ctx, orders); err != nil {
				logger.Log.Error("error scanning paid orders", zap.Error(err))
			}
		case <-pricingTicker.C:
			if op.pricing == nil {
				continue
			}
			if err := op.pricing.Refresh(ctx); err != nil {
				logger.Log.Error("error refreshing prices", zap.Error(err))
			}
		}
	}
}

// enqueuePaidOrders writes pending order ids to the channel
func (op *OrderProcessor) enqueuePaidOrders(ctx context.Context, orders chan<- uuid.UUID) error {
	paid, err := op.svc.PaidOrders(ctx)
	if err != nil {
		return err
	}

	for _, order := range paid {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case orders <- order.ID:
		}
	}

	return nil
}

// fulfillOrders consumes the channel, running each order on its own
// goroutine. An order scanned twice loses the status compare-and-set
// on the second run and is skipped.
func (op *OrderProcessor) fulfillOrders(ctx context.Context, orders <-chan uuid.UUID) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("fulfillment consumer is done")
			return
		case orderID, ok := <-orders:
			if !ok {
				return
			}

			go func(id uuid.UUID) {
				result, err := op.svc.FulfillOrder(ctx, id)
				if err != nil {
					var guardErr models.GuardError
					switch {
					case errors.As(err, &guardErr):
						logger.Log.Info("fulfillment blocked by guard",
							zap.String("order", id.String()),
							zap.String("reason", guardErr.Reason))
					case errors.Is(err, models.ErrOrderNotPaid):
						logger.Log.Debug("order picked up concurrently", zap.String("order", id.String()))
					default:
						logger.Log.Error("fulfillment error", zap.String("order", id.String()), zap.Error(err))
					}
					return
				}

				logger.Log.Info("order fulfilled",
					zap.String("order", id.String()),
					zap.String("status", result.Status),
					zap.Bool("success", result.Success))
			}(orderID)
		}
	}
}
