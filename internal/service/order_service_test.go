package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
)

func TestGetOrderOwnership(t *testing.T) {
	orders := newFakeOrderStore()
	orders.orders["order-1"] = &entity.Order{ID: "order-1", UserID: "user-1", Status: entity.OrderStatusPaid}
	svc := NewOrderService(orders, &fakeEvents{})

	ctx := context.Background()

	owner := &entity.User{ID: "user-1", Role: entity.RoleCustomer}
	got, err := svc.GetOrder(ctx, owner, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)

	stranger := &entity.User{ID: "user-2", Role: entity.RoleCustomer}
	_, err = svc.GetOrder(ctx, stranger, "order-1")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	admin := &entity.User{ID: "user-3", Role: entity.RoleAdmin}
	_, err = svc.GetOrder(ctx, admin, "order-1")
	require.NoError(t, err)
}

func TestAdvanceStatusFollowsFulfillmentChain(t *testing.T) {
	orders := newFakeOrderStore()
	orders.orders["order-1"] = &entity.Order{ID: "order-1", UserID: "user-1", Status: entity.OrderStatusPaid}
	events := &fakeEvents{}
	svc := NewOrderService(orders, events)

	ctx := context.Background()

	got, err := svc.AdvanceStatus(ctx, "order-1", entity.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, got.Status)

	got, err = svc.AdvanceStatus(ctx, "order-1", entity.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, got.Status)

	assert.Len(t, events.msgs, 2)
}

func TestAdvanceStatusRejectsSkips(t *testing.T) {
	orders := newFakeOrderStore()
	orders.orders["order-1"] = &entity.Order{ID: "order-1", Status: entity.OrderStatusPaid}
	svc := NewOrderService(orders, &fakeEvents{})

	ctx := context.Background()

	// paid cannot jump straight to delivered
	_, err := svc.AdvanceStatus(ctx, "order-1", entity.OrderStatusDelivered)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, entity.OrderStatusPaid, orders.orders["order-1"].Status)

	// pending orders are owned by payment reconciliation
	orders.orders["order-1"].Status = entity.OrderStatusPending
	_, err = svc.AdvanceStatus(ctx, "order-1", entity.OrderStatusProcessing)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	// unknown target
	_, err = svc.AdvanceStatus(ctx, "order-1", "lost")
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
}
