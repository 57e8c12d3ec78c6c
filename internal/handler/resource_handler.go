package handler

import (
	"fmt"

	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResourceHandler serves the five CRUD endpoints of one resource.
// T is the stored row and R its response shape.
type ResourceHandler[T any, R any] struct {
	service service.ResourceService[T]
	present func(*T) R
	// filters adds list scopes read from the query string.
	filters func(c *fiber.Ctx) []repository.Scope
	log     *zap.Logger
}

func NewResourceHandler[T any, R any](s service.ResourceService[T], present func(*T) R, log *zap.Logger) *ResourceHandler[T, R] {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResourceHandler[T, R]{service: s, present: present, log: log}
}

// WithFilters sets extra list filters and returns h.
func (h *ResourceHandler[T, R]) WithFilters(fn func(c *fiber.Ctx) []repository.Scope) *ResourceHandler[T, R] {
	h.filters = fn
	return h
}

func (h *ResourceHandler[T, R]) message(action string) string {
	return fmt.Sprintf("Data %s berhasil %s.", h.service.Name(), action)
}

func (h *ResourceHandler[T, R]) notFoundMessage() string {
	return fmt.Sprintf("Data %s tidak ditemukan.", h.service.Name())
}

// Index lists one page. Query params: page, per_page, search
func (h *ResourceHandler[T, R]) Index(c *fiber.Ctx) error {
	req := pagination.NewPageRequest(c.QueryInt("page", pagination.DefaultPage), c.QueryInt("per_page", pagination.DefaultPerPage), c.Query("search"))

	var scopes []repository.Scope
	if h.filters != nil {
		scopes = h.filters(c)
	}

	page, err := h.service.List(req, scopes...)
	if err != nil {
		return respondError(c, h.log, err, h.notFoundMessage())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": h.message("diambil"),
		"data": pagination.Map(page, func(item T) R {
			return h.present(&item)
		}),
	})
}

func (h *ResourceHandler[T, R]) Show(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, h.notFoundMessage())
	}

	entity, err := h.service.Get(id)
	if err != nil {
		return respondError(c, h.log, err, h.notFoundMessage())
	}
	return c.JSON(h.present(entity))
}

func (h *ResourceHandler[T, R]) Store(c *fiber.Ctx) error {
	entity, err := h.service.Create(c.Body(), actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err, h.notFoundMessage())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": h.message("ditambahkan"),
		"data":    h.present(entity),
	})
}

func (h *ResourceHandler[T, R]) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, h.notFoundMessage())
	}

	entity, err := h.service.Update(id, c.Body(), actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err, h.notFoundMessage())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": h.message("diubah"),
		"data":    h.present(entity),
	})
}

func (h *ResourceHandler[T, R]) Destroy(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, h.notFoundMessage())
	}

	if _, err := h.service.Delete(id, actorFrom(c)); err != nil {
		return respondError(c, h.log, err, h.notFoundMessage())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": h.message("dihapus"),
	})
}
