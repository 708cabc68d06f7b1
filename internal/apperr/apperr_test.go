package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("checkout: %w", ErrEmptyCart)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "empty_cart", err: ErrEmptyCart, want: http.StatusBadRequest},
		{name: "empty_cart_wrapped", err: wrapped, want: http.StatusBadRequest},
		{name: "missing_tracking_id", err: ErrMissingTrackingID, want: http.StatusBadRequest},
		{name: "email_taken", err: ErrEmailTaken, want: http.StatusBadRequest},
		{name: "invalid_credentials", err: ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "forbidden", err: ErrForbidden, want: http.StatusForbidden},
		{name: "not_found", err: ErrNotFound, want: http.StatusNotFound},
		{name: "product_unavailable", err: ErrProductUnavailable, want: http.StatusNotFound},
		{name: "invalid_transition", err: ErrInvalidTransition, want: http.StatusConflict},
		{name: "upstream_auth", err: ErrUpstreamAuth, want: http.StatusBadGateway},
		{name: "payment_session", err: ErrPaymentSession, want: http.StatusBadGateway},
		{name: "upstream_status", err: ErrUpstreamStatus, want: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{name: "unknown", err: errors.New("unknown"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
