package service

import (
	"context"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
)

// fulfillmentNext defines the admin-driven fulfillment chain. Payment
// reconciliation owns the pending transitions; everything here starts from
// paid.
var fulfillmentNext = map[string]string{
	entity.OrderStatusPaid:       entity.OrderStatusProcessing,
	entity.OrderStatusProcessing: entity.OrderStatusShipped,
	entity.OrderStatusShipped:    entity.OrderStatusDelivered,
}

type OrderService struct {
	orders OrderStore
	events EventPublisher
}

func NewOrderService(orders OrderStore, events EventPublisher) *OrderService {
	return &OrderService{orders: orders, events: events}
}

func (s *OrderService) GetOrdersForUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return s.orders.GetOrdersByUser(ctx, userID)
}

// GetOrder returns an order visible to the requesting user: the owner, or
// any admin.
func (s *OrderService) GetOrder(ctx context.Context, user *entity.User, orderID string) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID && user.Role != entity.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	return order, nil
}

// AdvanceStatus moves an order one step along the fulfillment chain
// (paid → processing → shipped → delivered) using the same conditional
// update guard as payment reconciliation.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID, to string) (*entity.Order, error) {
	var from string
	for f, t := range fulfillmentNext {
		if t == to {
			from = f
			break
		}
	}
	if from == "" {
		return nil, fmt.Errorf("status %q: %w", to, apperr.ErrInvalidTransition)
	}

	moved, err := s.orders.UpdateStatusFrom(ctx, orderID, from, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("order %s is not %q: %w", orderID, from, apperr.ErrInvalidTransition)
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := publishOrderEvent(ctx, s.events, order, to); err != nil {
		logger.Error().Err(err).Str("order_id", order.ID).Msgf("Error publishing order %s event", to)
	}
	return order, nil
}
