package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/apperr"
	"storefront-service/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItem puts a product in the cart --> POST /api/cart
func (h *CartHandler) AddItem(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	req := struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if req.ProductID == "" || req.Quantity == 0 {
		return c.JSON(400, map[string]string{"error": "Product ID and quantity are required"})
	}

	if err := h.cartService.AddItem(c.Request().Context(), user.ID, req.ProductID, req.Quantity); err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	items, err := h.cartService.GetCart(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]interface{}{"items": items})
}

// GetCart lists the cart with products resolved --> GET /api/cart
func (h *CartHandler) GetCart(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	items, err := h.cartService.GetCart(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]interface{}{"items": items})
}

// RemoveItem drops one product from the cart --> DELETE /api/cart/:productID
func (h *CartHandler) RemoveItem(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.cartService.RemoveItem(c.Request().Context(), user.ID, c.Param("productID")); err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "Item removed"})
}

// ClearCart empties the cart --> DELETE /api/cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.cartService.Clear(c.Request().Context(), user.ID); err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "Cart cleared"})
}
