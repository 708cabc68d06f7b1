package repository

import (
	"context"
	"database/sql"
	"errors"

	"storefront-service/internal/entity"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

// CreateForOrder finalizes a checkout in one transaction: it inserts the
// payment, links it back onto the order and empties the owner's cart. Any
// earlier failure therefore leaves the cart intact for a retry.
func (r *PaymentRepository) CreateForOrder(ctx context.Context, payment *entity.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	paymentQuery := `INSERT INTO payments (id, user_id, order_id, pesapal_order_id, amount, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err = tx.ExecContext(ctx, paymentQuery, payment.ID, payment.UserID, payment.OrderID, payment.TrackingID, payment.Amount, payment.Status)
	if err != nil {
		tx.Rollback()
		return err
	}

	linkQuery := `UPDATE orders SET payment_id = ? WHERE id = ?`
	_, err = tx.ExecContext(ctx, linkQuery, payment.ID, payment.OrderID)
	if err != nil {
		tx.Rollback()
		return err
	}

	clearQuery := `DELETE FROM cart_items WHERE user_id = ?`
	_, err = tx.ExecContext(ctx, clearQuery, payment.UserID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	row := r.db.QueryRowContext(ctx, `SELECT created_at, updated_at FROM payments WHERE id = ?`, payment.ID)
	return row.Scan(&payment.CreatedAt, &payment.UpdatedAt)
}

func (r *PaymentRepository) GetByTrackingID(ctx context.Context, trackingID string) (*entity.Payment, error) {
	query := `SELECT id, user_id, order_id, pesapal_order_id, amount, status, created_at, updated_at FROM payments WHERE pesapal_order_id = ?`

	payment := &entity.Payment{}
	err := r.db.QueryRowContext(ctx, query, trackingID).Scan(
		&payment.ID, &payment.UserID, &payment.OrderID, &payment.TrackingID,
		&payment.Amount, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// SetStatusByTrackingID mirrors the provider's status string onto the
// payment row. A missing row returns (nil, nil): reconciliation tolerates
// unknown tracking ids.
func (r *PaymentRepository) SetStatusByTrackingID(ctx context.Context, trackingID, status string) (*entity.Payment, error) {
	query := `UPDATE payments SET status = ?, updated_at = NOW() WHERE pesapal_order_id = ?`
	if _, err := r.db.ExecContext(ctx, query, status, trackingID); err != nil {
		return nil, err
	}

	return r.GetByTrackingID(ctx, trackingID)
}
