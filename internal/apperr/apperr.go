// Package apperr defines the sentinel errors shared across the service and
// their HTTP status mapping.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrUpstreamAuth       = errors.New("provider authentication failed")
	ErrPaymentSession     = errors.New("payment session request failed")
	ErrUpstreamStatus     = errors.New("provider status fetch failed")
	ErrMissingTrackingID  = errors.New("missing order tracking id")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidTransition  = errors.New("invalid order status transition")
)

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrMissingTrackingID),
		errors.Is(err, ErrEmailTaken):
		return http.StatusBadRequest

	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrProductUnavailable):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, ErrUpstreamAuth),
		errors.Is(err, ErrPaymentSession),
		errors.Is(err, ErrUpstreamStatus):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}
