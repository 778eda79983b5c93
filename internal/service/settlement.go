package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/provider"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleRepository is interface for interacting with sale-related data
type SaleRepository interface {
	// CreateSale persists sale, commission and optional admin commission transactionally
	CreateSale(ctx context.Context, sale *models.Sale, commission *models.Commission, adminCommission *models.AdminCommission) error
	// GetSaleByOrderID returns the sale for an order
	GetSaleByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Sale, error)
	// UpdateSettlement writes the sale's settlement outcome
	UpdateSettlement(ctx context.Context, sale *models.Sale) error
	// UpdateCommissionStatus updates the commission payout status for a sale
	UpdateCommissionStatus(ctx context.Context, saleID uuid.UUID, status string) error
}

// SettlementUserRepository is interface for the user/platform data settlement needs
type SettlementUserRepository interface {
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// AddEarnings adds amount to the user's running earnings total
	AddEarnings(ctx context.Context, id uuid.UUID, amount float64) error
	// GetPlatformConfig returns the platform config row
	GetPlatformConfig(ctx context.Context) (*models.PlatformConfig, error)
}

// SettlementOrderRepository is interface for reading orders during settlement
type SettlementOrderRepository interface {
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// SettlementService computes the commission split for a purchased
// order, persists the sale atomically and executes the two-party
// payout. The order id is the idempotency key throughout: at most one
// sale per order, at most one payout per leg.
type SettlementService struct {
	sales              SaleRepository
	orders             SettlementOrderRepository
	users              SettlementUserRepository
	primary            provider.PayoutProvider
	alternate          provider.PayoutProvider
	balance            provider.BalanceProvider
	rotation           AccountRotator
	commissionPct      float64
	marketplaceFeePct  float64
	adminPayoutAddress string
}

// NewSettlementService creates new SettlementService instance.
// alternate may be nil; when present it is preferred for the user
// payout leg with primary as fallback.
func NewSettlementService(sales SaleRepository, orders SettlementOrderRepository, users SettlementUserRepository, primary, alternate provider.PayoutProvider, balance provider.BalanceProvider, rotation AccountRotator, commissionPct, marketplaceFeePct float64, adminPayoutAddress string) *SettlementService {
	return &SettlementService{
		sales:              sales,
		orders:             orders,
		users:              users,
		primary:            primary,
		alternate:          alternate,
		balance:            balance,
		rotation:           rotation,
		commissionPct:      commissionPct,
		marketplaceFeePct:  marketplaceFeePct,
		adminPayoutAddress: adminPayoutAddress,
	}
}

// platformSettings returns the commission percent and admin payout
// address, preferring the platform_config row over static config.
func (ss *SettlementService) platformSettings(ctx context.Context) (float64, string) {
	cfg, err := ss.users.GetPlatformConfig(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrDataNotFound) {
			logger.Log.Error("read platform config", zap.Error(err))
		}
		return ss.commissionPct, ss.adminPayoutAddress
	}

	return cfg.CommissionPct, cfg.AdminPayoutAddress
}

// CreateSaleFromOrder computes the profit split for a purchased order
// and persists Sale + Commission (+ AdminCommission) as one atomic
// unit. Idempotent: an existing sale for the order is returned
// unchanged.
func (ss *SettlementService) CreateSaleFromOrder(ctx context.Context, orderID uuid.UUID) (*models.Sale, error) {
	if sale, err := ss.sales.GetSaleByOrderID(ctx, orderID); err == nil {
		return sale, nil
	} else if !errors.Is(err, models.ErrDataNotFound) {
		return nil, err
	}

	order, err := ss.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusPurchased {
		return nil, fmt.Errorf("%w: order %s is %s", models.ErrOrderNotPurchased, order.ID, order.Status)
	}

	commissionPct, _ := ss.platformSettings(ctx)

	grossProfit := order.Price - order.SupplierCost
	platformCommission := grossProfit * commissionPct
	marketplaceFee := order.Price * ss.marketplaceFeePct
	netProfit := grossProfit - platformCommission - marketplaceFee

	// the reconciliation identity is checked, not assumed: if the
	// split legs ever drift apart the sale must not be persisted
	if math.Abs(netProfit-(grossProfit-platformCommission-marketplaceFee)) > models.ReconciliationTolerance {
		return nil, fmt.Errorf("%w: order %s: net %.4f vs %.4f",
			models.ErrReconciliation, order.ID, netProfit, grossProfit-platformCommission-marketplaceFee)
	}

	sale := &models.Sale{
		ID:                 uuid.New(),
		OrderID:            order.ID,
		UserID:             order.UserID,
		SalePrice:          order.Price,
		SupplierCost:       order.SupplierCost,
		MarketplaceFee:     marketplaceFee,
		GrossProfit:        grossProfit,
		PlatformCommission: platformCommission,
		NetProfit:          netProfit,
		Currency:           order.Currency,
		Status:             models.SaleStatusPending,
	}

	commission := &models.Commission{
		ID:     uuid.New(),
		SaleID: sale.ID,
		Amount: platformCommission,
		Status: models.CommissionStatusPending,
	}

	var adminCommission *models.AdminCommission
	user, err := ss.users.GetUserByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if user.AdminProvisioned && user.AdminUserID != nil {
		adminCommission = &models.AdminCommission{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			AdminUserID: *user.AdminUserID,
			Amount:      grossProfit * user.AdminCommissionPct,
			Status:      models.CommissionStatusPending,
		}
	}

	if err := ss.sales.CreateSale(ctx, sale, commission, adminCommission); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			// lost a concurrent create: the other writer's sale wins
			return ss.sales.GetSaleByOrderID(ctx, orderID)
		}
		return nil, err
	}

	return sale, nil
}

// Settle executes the dual payout for a sale. Admin leg strictly
// first: the platform must never be left unpaid while a user payout
// silently fails. No payout API offers multi-party atomicity, so the
// ordering carries the guarantee.
func (ss *SettlementService) Settle(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if sale.PayoutExecuted {
		return sale, nil
	}

	_, adminPayoutAddress := ss.platformSettings(ctx)

	// settlement-time balance check, distinct from the pre-purchase
	// capital guard: time has passed and balance may have moved
	available, err := ss.balance.RealAvailableBalance(ctx)
	if err != nil {
		return nil, err
	}
	owed := sale.PlatformCommission + sale.NetProfit
	if available < owed {
		return nil, models.GuardError{
			Guard:  "SETTLEMENT_BALANCE",
			Reason: fmt.Sprintf("available %.2f does not cover payouts %.2f", available, owed),
		}
	}

	// admin leg
	if sale.PlatformCommission > 0 && sale.AdminPayoutID == nil {
		ref, err := ss.sendPayout(ctx, ss.primary, provider.PayoutRequest{
			Recipient:      adminPayoutAddress,
			Amount:         sale.PlatformCommission,
			Currency:       sale.Currency,
			Note:           "platform commission for sale " + sale.ID.String(),
			IdempotencyTag: "sale-" + sale.ID.String() + "-admin",
		})
		if err != nil {
			return ss.markPayoutFailed(ctx, sale, "admin payout: "+err.Error())
		}
		sale.AdminPayoutID = &ref
	}

	// user leg, only after the admin leg is resolved
	if sale.NetProfit > 0 && sale.UserPayoutID == nil {
		user, err := ss.users.GetUserByID(ctx, sale.UserID)
		if err != nil {
			return nil, err
		}

		ref, err := ss.sendUserPayout(ctx, user.PayoutAddress, sale)
		if err != nil {
			// admin leg already paid: preserve its reference id and
			// flag the sale for manual reconciliation of the user leg
			return ss.markPayoutFailed(ctx, sale, "user payout: "+err.Error())
		}
		sale.UserPayoutID = &ref
	}

	sale.Status = models.SaleStatusPaidOut
	sale.PayoutExecuted = true
	if err := ss.sales.UpdateSettlement(ctx, sale); err != nil {
		return nil, err
	}

	if err := ss.sales.UpdateCommissionStatus(ctx, sale.ID, models.CommissionStatusPaid); err != nil {
		logger.Log.Error("update commission status", zap.String("sale", sale.ID.String()), zap.Error(err))
	}

	ss.recordEarnings(ctx, sale)

	return sale, nil
}

// SettleOrder is the orchestrator entry point: create the sale if
// needed, then settle it.
func (ss *SettlementService) SettleOrder(ctx context.Context, orderID uuid.UUID) error {
	sale, err := ss.CreateSaleFromOrder(ctx, orderID)
	if err != nil {
		return err
	}

	_, err = ss.Settle(ctx, sale)
	return err
}

// sendUserPayout prefers the alternate provider when configured,
// falling back to the primary.
func (ss *SettlementService) sendUserPayout(ctx context.Context, recipient string, sale *models.Sale) (string, error) {
	req := provider.PayoutRequest{
		Recipient:      recipient,
		Amount:         sale.NetProfit,
		Currency:       sale.Currency,
		Note:           "net profit for sale " + sale.ID.String(),
		IdempotencyTag: "sale-" + sale.ID.String() + "-user",
	}

	if ss.alternate != nil {
		ref, err := ss.sendPayout(ctx, ss.alternate, req)
		if err == nil {
			return ref, nil
		}
		logger.Log.Warn("alternate payout provider failed, falling back",
			zap.String("provider", ss.alternate.Name()),
			zap.String("sale", sale.ID.String()),
			zap.Error(err))
	}

	return ss.sendPayout(ctx, ss.primary, req)
}

// sendPayout resolves a payout account through rotation and performs
// one payout call against the given provider.
func (ss *SettlementService) sendPayout(ctx context.Context, prov provider.PayoutProvider, req provider.PayoutRequest) (string, error) {
	var account *models.Account
	if ss.rotation != nil {
		acc, err := ss.rotation.NextAccount(ctx, models.AccountCategoryPayout, prov.Name())
		if err != nil && !errors.Is(err, models.ErrNoAccountAvailable) {
			return "", err
		}
		if err == nil {
			account = acc
			req.AccountLabel = acc.Label
		}
	}

	result, err := prov.SendPayout(ctx, req)
	if err != nil {
		if account != nil {
			if blockErr := ss.rotation.MarkUnhealthy(ctx, account.ID); blockErr != nil {
				logger.Log.Error("mark payout account unhealthy",
					zap.String("account", account.ID.String()), zap.Error(blockErr))
			}
		}
		return "", err
	}

	if !result.Success {
		return "", errors.New(result.ErrorText)
	}

	if account != nil {
		ss.rotation.IncrementUsage(ctx, account.ID)
	}

	return result.ReferenceID, nil
}

func (ss *SettlementService) markPayoutFailed(ctx context.Context, sale *models.Sale, reason string) (*models.Sale, error) {
	sale.Status = models.SaleStatusPayoutFailed
	if err := ss.sales.UpdateSettlement(ctx, sale); err != nil {
		logger.Log.Error("mark sale payout failed", zap.String("sale", sale.ID.String()), zap.Error(err))
	}
	if err := ss.sales.UpdateCommissionStatus(ctx, sale.ID, models.CommissionStatusFailed); err != nil {
		logger.Log.Error("update commission status", zap.String("sale", sale.ID.String()), zap.Error(err))
	}

	return sale, errors.New(reason)
}

// recordEarnings bumps the user's (and the provisioning admin's)
// running totals after a fully settled sale. Best-effort: the payout
// already happened, a failed counter update must not fail settlement.
func (ss *SettlementService) recordEarnings(ctx context.Context, sale *models.Sale) {
	user, err := ss.users.GetUserByID(ctx, sale.UserID)
	if err != nil {
		logger.Log.Error("load user for earnings", zap.String("sale", sale.ID.String()), zap.Error(err))
		return
	}

	if sale.NetProfit > 0 {
		if err := ss.users.AddEarnings(ctx, user.ID, sale.NetProfit); err != nil {
			logger.Log.Error("add user earnings", zap.String("user", user.ID.String()), zap.Error(err))
		}
	}

	if user.AdminProvisioned && user.AdminUserID != nil {
		adminCut := sale.GrossProfit * user.AdminCommissionPct
		if adminCut > 0 {
			if err := ss.users.AddEarnings(ctx, *user.AdminUserID, adminCut); err != nil {
				logger.Log.Error("add admin earnings", zap.String("admin", user.AdminUserID.String()), zap.Error(err))
			}
		}
	}
}
