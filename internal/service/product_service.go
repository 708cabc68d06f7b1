package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"storefront-service/internal/entity"
)

const productCacheTTL = 1 * time.Minute

type ProductService struct {
	products ProductStore
	rdb      *redis.Client
}

func NewProductService(products ProductStore, rdb *redis.Client) *ProductService {
	return &ProductService{products: products, rdb: rdb}
}

// GetProduct reads through the redis cache.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	key := fmt.Sprintf("product:%s", id)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Error().Err(err).Str("product_id", id).Msg("Error reading product cache")
	}
	if cached != "" {
		var product entity.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
		logger.Warn().Str("product_id", id).Msg("Dropping undecodable product cache entry")
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	return s.products.GetProducts(ctx)
}

func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf("product:%s", id)).Err(); err != nil {
		logger.Error().Err(err).Str("product_id", id).Msg("Error evicting product cache")
	}
	return nil
}

// ReserveStock decrements stock for a placed order item.
func (s *ProductService) ReserveStock(ctx context.Context, productID string, quantity int) error {
	ok, err := s.products.AdjustStock(ctx, productID, -quantity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product %s out of stock", productID)
	}
	s.evictProduct(ctx, productID)
	return nil
}

// ReleaseStock returns stock when an order is cancelled.
func (s *ProductService) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	if _, err := s.products.AdjustStock(ctx, productID, quantity); err != nil {
		return err
	}
	s.evictProduct(ctx, productID)
	return nil
}

// PreWarmCache loads every product into the cache, used at startup.
func (s *ProductService) PreWarmCache(ctx context.Context) error {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return err
	}

	for _, product := range products {
		s.cacheProduct(ctx, product)
	}
	return nil
}

func (s *ProductService) cacheProduct(ctx context.Context, product *entity.Product) {
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	key := fmt.Sprintf("product:%s", product.ID)
	if err := s.rdb.Set(ctx, key, payload, productCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Str("product_id", product.ID).Msg("Error setting product in cache")
	}
}

func (s *ProductService) evictProduct(ctx context.Context, id string) {
	if err := s.rdb.Del(ctx, fmt.Sprintf("product:%s", id)).Err(); err != nil {
		logger.Error().Err(err).Str("product_id", id).Msg("Error evicting product cache")
	}
}
