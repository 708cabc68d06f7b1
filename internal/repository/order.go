package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CreateOrder inserts the order and its items in one transaction and stamps
// CreatedAt from the database row.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	orderQuery := `INSERT INTO orders (id, user_id, total, status, created_at) VALUES (?, ?, ?, ?, NOW())`
	_, err = tx.ExecContext(ctx, orderQuery, order.ID, order.UserID, order.Total, order.Status)
	if err != nil {
		tx.Rollback()
		return err
	}

	// Batch insert items
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES `
	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, order.ID, item.ProductID, item.Quantity, item.UnitPrice)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	row := r.db.QueryRowContext(ctx, `SELECT created_at FROM orders WHERE id = ?`, order.ID)
	return row.Scan(&order.CreatedAt)
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	orderQuery := `SELECT id, user_id, total, status, COALESCE(payment_id, ''), created_at FROM orders WHERE id = ?`
	itemQuery := `SELECT product_id, quantity, unit_price FROM order_items WHERE order_id = ?`

	order := &entity.Order{}
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.PaymentID, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.OrderItem{}
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

func (r *OrderRepository) GetOrdersByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	query := `SELECT id, user_id, total, status, COALESCE(payment_id, ''), created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order := &entity.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.PaymentID, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		itemRows, err := r.db.QueryContext(ctx, `SELECT product_id, quantity, unit_price FROM order_items WHERE order_id = ?`, order.ID)
		if err != nil {
			return nil, err
		}
		for itemRows.Next() {
			item := entity.OrderItem{}
			if err := itemRows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
				itemRows.Close()
				return nil, err
			}
			order.Items = append(order.Items, item)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, err
		}
		itemRows.Close()
	}

	return orders, nil
}

// UpdateStatusFrom moves an order between statuses with a compare-and-swap:
// the row only changes when its current status equals from. Returns whether
// the transition happened, so a stale reconciliation write degrades to a
// no-op instead of overwriting a terminal status.
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id, from, to string) (bool, error) {
	query := `UPDATE orders SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
