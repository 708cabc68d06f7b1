package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// CurrentUser rebuilds the authenticated user from the JWT claims the
// echo-jwt middleware stored on the context.
func CurrentUser(c echo.Context) *entity.User {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok {
		return nil
	}
	return &entity.User{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Phone: claims.Phone,
		Role:  claims.Role,
	}
}

// RequireAdmin guards admin-only routes.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || user.Role != entity.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

// Register creates a user --> POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, token, err := h.userService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(201, map[string]interface{}{"user": user, "token": token})
}

// Login authenticates a user --> POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]interface{}{"user": user, "token": token})
}

// Session validates the caller's session --> GET /api/auth/session
func (h *AuthHandler) Session(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	raw := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	if err := h.userService.ValidateSession(c.Request().Context(), user.ID, raw); err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"message": "Session is valid"})
}

// Logout drops the caller's session --> POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.userService.Logout(c.Request().Context(), user.ID); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"message": "Logged out"})
}
