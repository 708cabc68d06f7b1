package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/apperr"
	"storefront-service/internal/service"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new instance of CheckoutHandler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout converts the caller's cart into an order and a hosted payment
// session --> POST /api/checkout
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	result, err := h.checkoutService.Checkout(c.Request().Context(), user)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(200, result)
}
