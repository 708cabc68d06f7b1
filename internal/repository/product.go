package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT id, name, description, category, image, price, stock FROM products WHERE id = ?`

	product := &entity.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Category,
		&product.Image, &product.Price, &product.Stock,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT id, name, description, category, image, price, stock FROM products ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product := &entity.Product{}
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Category, &product.Image, &product.Price, &product.Stock)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	query := `INSERT INTO products (id, name, description, category, image, price, stock) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, product.ID, product.Name, product.Description, product.Category, product.Image, product.Price, product.Stock)
	return err
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET name = ?, description = ?, category = ?, image = ?, price = ?, stock = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Category, product.Image, product.Price, product.Stock, product.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, apperr.ErrNotFound)
	}
	return nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// AdjustStock applies delta to a product's stock. Negative deltas only
// succeed while enough stock remains; the guard lives in the WHERE clause so
// concurrent reservations cannot oversell.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) (bool, error) {
	query := `UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0`
	res, err := r.db.ExecContext(ctx, query, delta, id, delta)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
