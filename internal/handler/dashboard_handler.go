package handler

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(s service.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return respondError(c, h.log, err, "")
	}

	perKategori, err := h.service.BarangPerKategori()
	if err != nil {
		return respondError(c, h.log, err, "")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Statistik dashboard berhasil diambil.",
		"data": fiber.Map{
			"totals":       stats,
			"per_kategori": perKategori,
		},
	})
}

// GetLowStock lists items below their minimum stock
// Query params: limit (default 10)
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	items, err := h.service.LowStock(limit)
	if err != nil {
		return respondError(c, h.log, err, "")
	}

	data := make([]model.BarangResponse, len(items))
	for i := range items {
		data[i] = items[i].ToResponse()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Data barang stok menipis berhasil diambil.",
		"data":    data,
	})
}
