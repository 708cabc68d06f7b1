package repository

import (
	"context"
	"database/sql"

	"storefront-service/internal/entity"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

func (r *CartRepository) GetItems(ctx context.Context, userID string) ([]entity.CartItem, error) {
	query := `SELECT product_id, quantity FROM cart_items WHERE user_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		item := entity.CartItem{}
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// AddItem inserts a cart row or bumps the quantity when the product is
// already in the cart.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	query := `INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	_, err := r.db.ExecContext(ctx, query, userID, productID, quantity)
	return err
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID, productID)
	return err
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
