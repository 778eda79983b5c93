package repository

import (
	"context"
	"errors"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertSaleQuery = `
						INSERT INTO sales (id, order_id, user_id, sale_price, supplier_cost,
							marketplace_fee, gross_profit, platform_commission, net_profit,
							currency, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
						RETURNING created_at, updated_at
`
	insertCommissionQuery = `
						INSERT INTO commissions (id, sale_id, amount, status)
						VALUES ($1, $2, $3, $4)
						RETURNING created_at
`
	insertAdminCommissionQuery = `
						INSERT INTO admin_commissions (id, sale_id, admin_user_id, amount, status)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING created_at
`
	selectSaleByOrderIDQuery = `
						SELECT id, order_id, user_id, sale_price, supplier_cost,
							marketplace_fee, gross_profit, platform_commission, net_profit,
							currency, status, admin_payout_id, user_payout_id, payout_executed,
							created_at, updated_at
						FROM sales
						WHERE order_id = $1
`
	updateSaleSettlementQuery = `
						UPDATE sales
						SET status = $1, admin_payout_id = $2, user_payout_id = $3,
							payout_executed = $4, updated_at = NOW()
						WHERE id = $5
`
	updateCommissionStatusQuery = `
						UPDATE commissions
						SET status = $1
						WHERE sale_id = $2
`
)

// SaleRepository implements SaleRepository interface
type SaleRepository struct {
	db *postgres.DB
}

// NewSaleRepository creates new SaleRepository instance
func NewSaleRepository(db *postgres.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// CreateSale persists the sale, its commission row and, when present,
// the admin commission row as a single transaction. A concurrent
// create for the same order loses on the unique order_id constraint
// and gets models.ErrConflictData.
func (sr *SaleRepository) CreateSale(ctx context.Context, sale *models.Sale, commission *models.Commission, adminCommission *models.AdminCommission) error {
	tx, err := sr.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertSaleQuery,
		sale.ID, sale.OrderID, sale.UserID, sale.SalePrice, sale.SupplierCost,
		sale.MarketplaceFee, sale.GrossProfit, sale.PlatformCommission, sale.NetProfit,
		sale.Currency, sale.Status,
	).Scan(&sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		if errCode := sr.db.ErrorCode(err); errCode == postgres.ErrUniqueViolation {
			return models.ErrConflictData
		}
		return err
	}

	err = tx.QueryRow(ctx, insertCommissionQuery,
		commission.ID, commission.SaleID, commission.Amount, commission.Status,
	).Scan(&commission.CreatedAt)
	if err != nil {
		return err
	}

	if adminCommission != nil {
		err = tx.QueryRow(ctx, insertAdminCommissionQuery,
			adminCommission.ID, adminCommission.SaleID, adminCommission.AdminUserID,
			adminCommission.Amount, adminCommission.Status,
		).Scan(&adminCommission.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetSaleByOrderID returns the sale for an order
func (sr *SaleRepository) GetSaleByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Sale, error) {
	sale := models.Sale{}
	err := sr.db.QueryRow(ctx, selectSaleByOrderIDQuery, orderID).Scan(
		&sale.ID, &sale.OrderID, &sale.UserID, &sale.SalePrice, &sale.SupplierCost,
		&sale.MarketplaceFee, &sale.GrossProfit, &sale.PlatformCommission, &sale.NetProfit,
		&sale.Currency, &sale.Status, &sale.AdminPayoutID, &sale.UserPayoutID, &sale.PayoutExecuted,
		&sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &sale, nil
}

// UpdateSettlement writes the sale's settlement outcome: status, the
// payout reference ids obtained so far and the executed flag.
func (sr *SaleRepository) UpdateSettlement(ctx context.Context, sale *models.Sale) error {
	cmd, err := sr.db.Exec(ctx, updateSaleSettlementQuery,
		sale.Status, sale.AdminPayoutID, sale.UserPayoutID, sale.PayoutExecuted, sale.ID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// UpdateCommissionStatus updates the commission payout status for a sale
func (sr *SaleRepository) UpdateCommissionStatus(ctx context.Context, saleID uuid.UUID, status string) error {
	cmd, err := sr.db.Exec(ctx, updateCommissionStatusQuery, status, saleID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
