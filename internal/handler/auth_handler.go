package handler

import (
	"errors"

	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService service.AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{authService: authService, log: log}
}

// Register creates a regular user account
// POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := service.DecodeRequest(c.Body(), &req); err != nil {
		return h.fail(c, err)
	}

	if _, err := h.authService.Register(req); err != nil {
		return h.fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"status": true, "message": "Berhasil register"})
}

// Login handles user authentication
// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := service.DecodeRequest(c.Body(), &req); err != nil {
		return h.fail(c, err)
	}

	result, err := h.authService.Login(req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":     true,
		"message":    "User logged in",
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Logout revokes the token used for this request
// POST /api/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return c.Status(401).JSON(fiber.Map{"status": false, "message": "Unauthenticated."})
	}

	if err := h.authService.Logout(principal.TokenID); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"status": true, "message": "User logged out successfully"})
}

// Me returns the authenticated user
// GET /api/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return c.Status(401).JSON(fiber.Map{"status": false, "message": "Unauthenticated."})
	}

	user, err := h.authService.Me(principal.User.ID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Authenticated user data",
		"user":    user.ToResponse(),
	})
}

func (h *AuthHandler) fail(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(422).JSON(fiber.Map{
			"status":  false,
			"message": "Data yang diberikan tidak valid.",
			"errors":  verr.Errors,
		})
	case errors.Is(err, service.ErrMalformedBody):
		return c.Status(400).JSON(fiber.Map{"status": false, "message": "Invalid JSON"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"status": false, "message": "Provided email or password is incorrect"})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"status": false, "message": "User not found"})
	default:
		h.log.Error("auth request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"status": false, "message": "Terjadi kesalahan pada server."})
	}
}
