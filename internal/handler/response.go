package handler

import (
	"errors"
	"strconv"

	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/policy"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Helper untuk ambil actor dari context (set by auth middleware)
func actorFrom(c *fiber.Ctx) service.Actor {
	return middleware.CurrentPrincipal(c).Actor()
}

// parseID reads the :id route param. Anything that is not a positive integer matches no row.
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": message})
}

// respondError maps service errors onto status codes and the {success, message} envelope.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, notFoundMessage string) error {
	var verr *service.ValidationError
	var denied *policy.PermissionDenied

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Data yang diberikan tidak valid.",
			"errors":  verr.Errors,
		})
	case errors.Is(err, service.ErrNotFound):
		return notFound(c, notFoundMessage)
	case errors.As(err, &denied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": denied.Message})
	case errors.Is(err, service.ErrMalformedBody):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	default:
		if log != nil {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Terjadi kesalahan pada server.",
		})
	}
}
