// Package service holds the business layer: checkout orchestration, payment
// reconciliation and the supporting cart, product, order and user services.
package service

import (
	"context"

	"github.com/segmentio/kafka-go"

	"storefront-service/internal/entity"
	"storefront-service/internal/pesapal"
)

// Persistence dependencies, satisfied by the repository package. Kept as
// small interfaces so the orchestration paths are testable with in-memory
// fakes.

type CartStore interface {
	GetItems(ctx context.Context, userID string) ([]entity.CartItem, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*entity.Product, error)
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) error
	UpdateProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (bool, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *entity.Order) error
	GetOrderByID(ctx context.Context, id string) (*entity.Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	UpdateStatusFrom(ctx context.Context, id, from, to string) (bool, error)
}

type PaymentStore interface {
	CreateForOrder(ctx context.Context, payment *entity.Payment) error
	GetByTrackingID(ctx context.Context, trackingID string) (*entity.Payment, error)
	SetStatusByTrackingID(ctx context.Context, trackingID, status string) (*entity.Payment, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

// PaymentGateway is the slice of the pesapal client the services use.
type PaymentGateway interface {
	SubmitOrder(ctx context.Context, order pesapal.OrderRequest) (*pesapal.OrderResponse, error)
	GetTransactionStatus(ctx context.Context, trackingID string) (*pesapal.TransactionStatus, error)
}

// EventPublisher is satisfied by *kafka.Writer.
type EventPublisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}
