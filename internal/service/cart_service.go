package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
)

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem puts quantity units of a product in the user's cart, merging with
// an existing row for the same product.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("product %s: %w", productID, apperr.ErrProductUnavailable)
		}
		return err
	}

	return s.carts.AddItem(ctx, userID, productID, quantity)
}

// GetCart returns the cart with product details resolved. Items whose
// product has been deleted are listed with an empty product so the client
// can prompt removal; checkout rejects them outright.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]entity.ResolvedCartItem, error) {
	items, err := s.carts.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]entity.ResolvedCartItem, 0, len(items))
	for _, item := range items {
		ri := entity.ResolvedCartItem{Quantity: item.Quantity}
		product, err := s.products.GetProductByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if product != nil {
			ri.Product = *product
		} else {
			ri.Product = entity.Product{ID: item.ProductID}
		}
		resolved = append(resolved, ri)
	}

	return resolved, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.carts.RemoveItem(ctx, userID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
