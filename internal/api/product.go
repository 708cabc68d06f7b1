package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts lists the catalog --> GET /api/products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.GetProducts(c.Request().Context())
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, products)
}

// GetProduct fetches one product --> GET /api/products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productService.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, product)
}

// CreateProduct adds a product (admin) --> POST /api/products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.productService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(201, created)
}

// UpdateProduct updates a product (admin) --> PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	product.ID = c.Param("id")

	updated, err := h.productService.UpdateProduct(c.Request().Context(), &product)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, updated)
}

// DeleteProduct removes a product (admin) --> DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.productService.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "Product deleted"})
}
