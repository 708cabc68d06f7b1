package service

import (
	"context"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
	"storefront-service/internal/pesapal"
)

// PaymentService keeps order status consistent with the provider's
// authoritative transaction status. Both entry points — the client polling
// and the provider's IPN push — run the same reconciliation: fetch the live
// status, mirror it onto the payment row, then move the order through the
// pending-only transition guard.
type PaymentService struct {
	payments PaymentStore
	orders   OrderStore
	gateway  PaymentGateway
	events   EventPublisher
}

func NewPaymentService(payments PaymentStore, orders OrderStore, gateway PaymentGateway, events EventPublisher) *PaymentService {
	return &PaymentService{
		payments: payments,
		orders:   orders,
		gateway:  gateway,
		events:   events,
	}
}

// PullStatus fetches the live provider status for a tracking id, reconciles
// the local records and returns the raw payload for display.
func (s *PaymentService) PullStatus(ctx context.Context, trackingID string) (*pesapal.TransactionStatus, error) {
	status, err := s.gateway.GetTransactionStatus(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if err := s.reconcile(ctx, trackingID, status); err != nil {
		return nil, err
	}

	return status, nil
}

// HandleNotification processes an IPN push. The notification payload is only
// a trigger: the provider's live status endpoint is the sole source of
// truth, which defends against spoofed or stale pushes.
func (s *PaymentService) HandleNotification(ctx context.Context, trackingID string) error {
	if trackingID == "" {
		return apperr.ErrMissingTrackingID
	}

	status, err := s.gateway.GetTransactionStatus(ctx, trackingID)
	if err != nil {
		return err
	}

	return s.reconcile(ctx, trackingID, status)
}

func (s *PaymentService) reconcile(ctx context.Context, trackingID string, status *pesapal.TransactionStatus) error {
	payment, err := s.payments.SetStatusByTrackingID(ctx, trackingID, status.PaymentStatusDescription)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", trackingID, err)
	}
	if payment == nil {
		// Unknown tracking id: tolerated, reconciliation is best effort
		// toward the provider.
		logger.Warn().Str("tracking_id", trackingID).Msg("No payment found for tracking id")
		return nil
	}

	var next, event string
	switch status.PaymentStatusDescription {
	case pesapal.StatusCompleted:
		next, event = entity.OrderStatusPaid, "paid"
	case pesapal.StatusFailed:
		next, event = entity.OrderStatusCancelled, "cancelled"
	default:
		// Intermediate provider statuses leave the order pending.
		return nil
	}

	moved, err := s.orders.UpdateStatusFrom(ctx, payment.OrderID, entity.OrderStatusPending, next)
	if err != nil {
		return fmt.Errorf("update order %s: %w", payment.OrderID, err)
	}
	if !moved {
		// Already past pending; a late or duplicate notification must not
		// overwrite a terminal status.
		logger.Info().Str("order_id", payment.OrderID).Str("provider_status", status.PaymentStatusDescription).Msg("Order already reconciled, skipping transition")
		return nil
	}

	order, err := s.orders.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", payment.OrderID, err)
	}
	if err := publishOrderEvent(ctx, s.events, order, event); err != nil {
		logger.Error().Err(err).Str("order_id", order.ID).Msgf("Error publishing order %s event", event)
	}

	return nil
}
