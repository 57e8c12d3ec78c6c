package handler

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func NewKategoriHandler(s service.ResourceService[model.Kategori], log *zap.Logger) *ResourceHandler[model.Kategori, model.Kategori] {
	return NewResourceHandler(s, func(k *model.Kategori) model.Kategori { return *k }, log)
}

func NewSupplierHandler(s service.ResourceService[model.Supplier], log *zap.Logger) *ResourceHandler[model.Supplier, model.Supplier] {
	return NewResourceHandler(s, func(sp *model.Supplier) model.Supplier { return *sp }, log)
}

func NewBarangHandler(s service.ResourceService[model.Barang], log *zap.Logger) *ResourceHandler[model.Barang, model.BarangResponse] {
	return NewResourceHandler(s, func(b *model.Barang) model.BarangResponse { return b.ToResponse() }, log).
		WithFilters(barangFilters)
}

// barangFilters reads kategori_id, supplier_id and low_stock from the query.
func barangFilters(c *fiber.Ctx) []repository.Scope {
	f := repository.BarangFilter{
		LowStock: c.QueryBool("low_stock", false),
	}
	if id := c.QueryInt("kategori_id", 0); id > 0 {
		f.KategoriID = uint(id)
	}
	if id := c.QueryInt("supplier_id", 0); id > 0 {
		f.SupplierID = uint(id)
	}
	return []repository.Scope{f.Scope()}
}

// LookupSource lists {id,label} pairs for a select input.
type LookupSource interface {
	Lookups() ([]model.Lookup, error)
}

type LookupHandler struct {
	kategori LookupSource
	supplier LookupSource
	log      *zap.Logger
}

func NewLookupHandler(kategori, supplier LookupSource, log *zap.Logger) *LookupHandler {
	return &LookupHandler{kategori: kategori, supplier: supplier, log: log}
}

// ListKategori serves GET /barang/listkategori
func (h *LookupHandler) ListKategori(c *fiber.Ctx) error {
	return h.list(c, h.kategori, "kategori")
}

// ListSupplier serves GET /barang/listsupplier
func (h *LookupHandler) ListSupplier(c *fiber.Ctx) error {
	return h.list(c, h.supplier, "supplier")
}

func (h *LookupHandler) list(c *fiber.Ctx, src LookupSource, name string) error {
	items, err := src.Lookups()
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	if items == nil {
		items = []model.Lookup{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Data " + name + " berhasil diambil.",
		"data":    items,
	})
}
