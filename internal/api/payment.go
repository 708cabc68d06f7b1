package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"storefront-service/internal/apperr"
	"storefront-service/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new instance of PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// TransactionStatus polls the provider and returns the raw payload
// --> GET /api/payment/transaction-status/:orderTrackingId
func (h *PaymentHandler) TransactionStatus(c echo.Context) error {
	status, err := h.paymentService.PullStatus(c.Request().Context(), c.Param("orderTrackingId"))
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, status)
}

type ipnPayload struct {
	OrderTrackingID   string `json:"OrderTrackingId" query:"OrderTrackingId"`
	MerchantReference string `json:"OrderMerchantReference" query:"OrderMerchantReference"`
	NotificationType  string `json:"OrderNotificationType" query:"OrderNotificationType"`
}

// IPNListener handles the provider's asynchronous notification, arriving as
// GET query params or a POST body --> ANY /api/payment/ipn-listener
//
// Apart from a missing tracking id, the provider always gets a 200
// acknowledgment: unacknowledged notifications are retried, and a retry
// storm helps nobody. Internal failures are logged instead.
func (h *PaymentHandler) IPNListener(c echo.Context) error {
	payload := ipnPayload{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid notification payload"})
	}

	err := h.paymentService.HandleNotification(c.Request().Context(), payload.OrderTrackingID)
	if errors.Is(err, apperr.ErrMissingTrackingID) {
		return c.JSON(400, map[string]string{"error": err.Error()})
	}
	if err != nil {
		logger.Error().Err(err).Str("tracking_id", payload.OrderTrackingID).Msg("IPN reconciliation failed")
	}

	return c.JSON(200, map[string]interface{}{
		"orderNotificationType":  payload.NotificationType,
		"orderTrackingId":        payload.OrderTrackingID,
		"orderMerchantReference": payload.MerchantReference,
		"status":                 http.StatusOK,
	})
}

// Callback is the browser redirect target after a completed provider-hosted
// payment --> GET /api/payment/callback
func (h *PaymentHandler) Callback(c echo.Context) error {
	return c.JSON(200, map[string]string{
		"message":           "Payment received, your order is being processed",
		"order_tracking_id": c.QueryParam("OrderTrackingId"),
	})
}

// Cancel is the browser redirect target after an abandoned provider-hosted
// payment --> GET /api/payment/cancel
func (h *PaymentHandler) Cancel(c echo.Context) error {
	return c.JSON(200, map[string]string{
		"message": "Payment cancelled, your cart is untouched",
	})
}
