package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/apperr"
	"storefront-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders lists the caller's orders --> GET /api/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	orders, err := h.orderService.GetOrdersForUser(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, orders)
}

// GetOrder fetches one order, owner or admin only --> GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, order)
}

// AdvanceStatus moves an order along the fulfillment chain (admin)
// --> PUT /api/orders/:id/status
func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	req := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.AdvanceStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, order)
}
