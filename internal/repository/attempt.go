package repository

import (
	"context"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/dropcart/dropcart/internal/repository/postgres"
	"github.com/google/uuid"
)

const (
	insertAttemptQuery = `
						INSERT INTO purchase_attempts (id, order_id, source, success, error_text)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING created_at
`
	selectAttemptsByOrderIDQuery = `
						SELECT id, order_id, source, success, error_text, created_at
						FROM purchase_attempts
						WHERE order_id = $1
						ORDER BY created_at
`
)

// AttemptRepository implements AttemptRepository interface
type AttemptRepository struct {
	db *postgres.DB
}

// NewAttemptRepository creates new AttemptRepository instance
func NewAttemptRepository(db *postgres.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// CreateAttempt appends one purchase attempt record
func (ar *AttemptRepository) CreateAttempt(ctx context.Context, attempt *models.PurchaseAttempt) error {
	return ar.db.QueryRow(ctx, insertAttemptQuery,
		attempt.ID, attempt.OrderID, attempt.Source, attempt.Success, attempt.ErrorText,
	).Scan(&attempt.CreatedAt)
}

// GetAttemptsByOrderID returns all attempts for an order in order of occurrence
func (ar *AttemptRepository) GetAttemptsByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.PurchaseAttempt, error) {
	rows, err := ar.db.Query(ctx, selectAttemptsByOrderIDQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.PurchaseAttempt

	for rows.Next() {
		attempt := models.PurchaseAttempt{}
		err = rows.Scan(&attempt.ID, &attempt.OrderID, &attempt.Source, &attempt.Success, &attempt.ErrorText, &attempt.CreatedAt)
		if err != nil {
			continue
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}
