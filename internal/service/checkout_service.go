package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
	"storefront-service/internal/pesapal"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	checkoutCurrency    = "KES"
	checkoutCountry     = "KE"
	checkoutDescription = "E-commerce checkout"
	placeholderPhone    = "0700000000"
)

// CheckoutService turns a user's cart into a pending order plus a hosted
// payment session at the provider.
type CheckoutService struct {
	carts    CartStore
	products ProductStore
	orders   OrderStore
	payments PaymentStore
	gateway  PaymentGateway
	events   EventPublisher
}

func NewCheckoutService(carts CartStore, products ProductStore, orders OrderStore, payments PaymentStore, gateway PaymentGateway, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		products: products,
		orders:   orders,
		payments: payments,
		gateway:  gateway,
		events:   events,
	}
}

type CheckoutResult struct {
	RedirectURL     string          `json:"redirect_url"`
	OrderTrackingID string          `json:"order_tracking_id"`
	Order           *entity.Order   `json:"order"`
	Payment         *entity.Payment `json:"payment"`
}

// Checkout prices the cart, persists the order, opens a payment session at
// the provider and finalizes payment + order link + cart clearing in one
// transaction. The cart is only emptied once the payment record exists, so
// every earlier failure leaves it intact for a retry. A provider rejection
// after the order insert marks the order abandoned instead of leaving an
// unexplained pending row.
func (s *CheckoutService) Checkout(ctx context.Context, user *entity.User) (*CheckoutResult, error) {
	items, err := s.carts.GetItems(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	orderItems := make([]entity.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		product, err := s.products.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				// Product deleted after being added to the cart.
				return nil, fmt.Errorf("product %s: %w", item.ProductID, apperr.ErrProductUnavailable)
			}
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, entity.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price, // snapshot, never re-read
		})
	}

	order := &entity.Order{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Items:  orderItems,
		Total:  total,
		Status: entity.OrderStatusPending,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("Error creating order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	phone := user.Phone
	if phone == "" {
		phone = placeholderPhone
	}

	// Merchant reference is a fresh UUID per attempt, never the order id,
	// so a retried checkout cannot collide at the provider.
	resp, err := s.gateway.SubmitOrder(ctx, pesapal.OrderRequest{
		ID:          uuid.NewString(),
		Currency:    checkoutCurrency,
		Amount:      total.InexactFloat64(),
		Description: checkoutDescription,
		BillingAddress: pesapal.BillingAddress{
			EmailAddress: user.Email,
			FirstName:    user.Name,
			PhoneNumber:  phone,
			CountryCode:  checkoutCountry,
		},
	})
	if err != nil {
		if moved, cerr := s.orders.UpdateStatusFrom(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusAbandoned); cerr != nil || !moved {
			logger.Error().Err(cerr).Str("order_id", order.ID).Msg("Error abandoning order after failed payment session")
		}
		return nil, err
	}

	payment := &entity.Payment{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		OrderID:    order.ID,
		TrackingID: resp.OrderTrackingID,
		Amount:     total,
		Status:     entity.PaymentStatusPending,
	}
	if err := s.payments.CreateForOrder(ctx, payment); err != nil {
		logger.Error().Err(err).Str("order_id", order.ID).Msg("Error creating payment")
		return nil, fmt.Errorf("create payment: %w", err)
	}
	order.PaymentID = payment.ID

	if err := s.publishOrderEvent(ctx, order, "created"); err != nil {
		// The checkout itself succeeded; stock sync catches up via the
		// next event or manual reconciliation.
		logger.Error().Err(err).Str("order_id", order.ID).Msg("Error publishing order created event")
	}

	return &CheckoutResult{
		RedirectURL:     resp.RedirectURL,
		OrderTrackingID: resp.OrderTrackingID,
		Order:           order,
		Payment:         payment,
	}, nil
}

func (s *CheckoutService) publishOrderEvent(ctx context.Context, order *entity.Order, event string) error {
	return publishOrderEvent(ctx, s.events, order, event)
}

// publishOrderEvent writes an order lifecycle event keyed
// "order.<event>.<id>" for the stock sync consumer.
func publishOrderEvent(ctx context.Context, events EventPublisher, order *entity.Order, event string) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%s", event, order.ID)),
		Value: payload,
	}
	return events.WriteMessages(ctx, msg)
}
