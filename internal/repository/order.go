package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, user_id, product_id, price, currency,
							shipping_name, shipping_line1, shipping_city, shipping_zip, shipping_country,
							supplier_url, alternative_urls, quantity, supplier_cost, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
						RETURNING created_at, updated_at
`
	selectOrderByIDQuery = `
						SELECT id, user_id, product_id, price, currency,
							shipping_name, shipping_line1, shipping_city, shipping_zip, shipping_country,
							supplier_url, alternative_urls, quantity, supplier_cost, status,
							supplier_order_id, error_message, created_at, updated_at
						FROM orders
						WHERE id = $1
`
	selectOrdersByStatusQuery = `
						SELECT id, user_id, product_id, price, currency,
							shipping_name, shipping_line1, shipping_city, shipping_zip, shipping_country,
							supplier_url, alternative_urls, quantity, supplier_cost, status,
							supplier_order_id, error_message, created_at, updated_at
						FROM orders
						WHERE status = $1
						ORDER BY created_at
`
	transitionStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = NOW()
						WHERE id = $2 AND status = $3
`
	markPurchasedQuery = `
						UPDATE orders
						SET status = $1, supplier_order_id = $2, error_message = '', updated_at = NOW()
						WHERE id = $3
`
	markFailedQuery = `
						UPDATE orders
						SET status = $1, error_message = $2, updated_at = NOW()
						WHERE id = $3
`
	dailyStatsQuery = `
						SELECT COUNT(*), COALESCE(SUM(price), 0) FROM orders
						WHERE created_at >= $1
`
	recentProductsQuery = `
						SELECT DISTINCT ON (product_id) product_id, price, supplier_cost
						FROM orders
						ORDER BY product_id, created_at DESC
						LIMIT $1
`
	committedCapitalQuery = `
						SELECT COALESCE(SUM(supplier_cost), 0) FROM orders o
						WHERE o.status = 'PURCHASING'
						   OR (o.status = 'PURCHASED' AND NOT EXISTS (
								SELECT 1 FROM sales s
								WHERE s.order_id = o.id AND s.payout_executed
						   ))
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := or.db.QueryRow(ctx, insertOrderQuery,
		order.ID, order.UserID, order.ProductID, order.Price, order.Currency,
		order.Shipping.Name, order.Shipping.Line1, order.Shipping.City, order.Shipping.Zip, order.Shipping.Country,
		order.SupplierURL, order.AlternativeURLs, order.Quantity, order.SupplierCost, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == postgres.ErrUniqueViolation {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByIDQuery, id).Scan(
		&order.ID, &order.UserID, &order.ProductID, &order.Price, &order.Currency,
		&order.Shipping.Name, &order.Shipping.Line1, &order.Shipping.City, &order.Shipping.Zip, &order.Shipping.Country,
		&order.SupplierURL, &order.AlternativeURLs, &order.Quantity, &order.SupplierCost, &order.Status,
		&order.SupplierOrderID, &order.ErrorMessage, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrdersByStatus returns orders with the given status
func (or *OrderRepository) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByStatusQuery, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(
			&order.ID, &order.UserID, &order.ProductID, &order.Price, &order.Currency,
			&order.Shipping.Name, &order.Shipping.Line1, &order.Shipping.City, &order.Shipping.Zip, &order.Shipping.Country,
			&order.SupplierURL, &order.AlternativeURLs, &order.Quantity, &order.SupplierCost, &order.Status,
			&order.SupplierOrderID, &order.ErrorMessage, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// TransitionStatus moves an order from one status to another. The
// update is a compare-and-set on the current status: if the order is
// not in the expected status the update matches no rows and
// models.ErrConflictData is returned.
func (or *OrderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	cmd, err := or.db.Exec(ctx, transitionStatusQuery, to, id, from)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrConflictData
	}

	return nil
}

// MarkPurchased sets the terminal purchased (or simulated) status,
// stores the supplier order id and clears any prior error.
func (or *OrderRepository) MarkPurchased(ctx context.Context, id uuid.UUID, status, supplierOrderID string) error {
	cmd, err := or.db.Exec(ctx, markPurchasedQuery, status, supplierOrderID, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// MarkFailed sets the terminal failed status with a descriptive message
func (or *OrderRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	cmd, err := or.db.Exec(ctx, markFailedQuery, models.OrderStatusFailed, errMsg, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DailyStats returns the count and aggregate price of orders created
// at or after the given instant (local day start for the daily guard).
func (or *OrderRepository) DailyStats(ctx context.Context, since time.Time) (int, float64, error) {
	var count int
	var sum float64
	if err := or.db.QueryRow(ctx, dailyStatsQuery, since).Scan(&count, &sum); err != nil {
		return 0, 0, err
	}

	return count, sum, nil
}

// RecentProducts returns distinct recently ordered products with
// their latest price and supplier cost.
func (or *OrderRepository) RecentProducts(ctx context.Context, limit int) ([]models.ProductCost, error) {
	rows, err := or.db.Query(ctx, recentProductsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.ProductCost

	for rows.Next() {
		p := models.ProductCost{}
		if err := rows.Scan(&p.ProductID, &p.Price, &p.SupplierCost); err != nil {
			continue
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// CommittedCapital returns the sum of supplier costs for orders that
// are mid-purchase or purchased but not yet settled.
func (or *OrderRepository) CommittedCapital(ctx context.Context) (float64, error) {
	var sum float64
	if err := or.db.QueryRow(ctx, committedCapitalQuery).Scan(&sum); err != nil {
		return 0, err
	}

	return sum, nil
}
