package repository

import (
	"errors"

	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

// BarangFilter narrows the Barang list beyond the free-text search.
type BarangFilter struct {
	KategoriID uint
	SupplierID uint
	LowStock   bool
}

// Scope converts the filter into a list scope.
func (f BarangFilter) Scope() Scope {
	return func(db *gorm.DB) *gorm.DB {
		if f.KategoriID != 0 {
			db = db.Where("kategori_id = ?", f.KategoriID)
		}
		if f.SupplierID != 0 {
			db = db.Where("supplier_id = ?", f.SupplierID)
		}
		if f.LowStock {
			db = db.Where("stok < stok_minimum")
		}
		return db
	}
}

type BarangRepository interface {
	ResourceRepository[model.Barang]
	FindByKode(kode string) (*model.Barang, error)
	KodeTaken(kode string, excludeID uint) (bool, error)
	CountByKodePrefix(prefix string) (int64, error)
	FindLowStock(limit int) ([]model.Barang, error)
}

type barangRepo struct {
	ResourceRepository[model.Barang]
	db *gorm.DB
}

func NewBarangRepo(db *gorm.DB) BarangRepository {
	return &barangRepo{
		ResourceRepository: NewResourceRepo[model.Barang](db, Schema{
			SearchColumns: []string{"nama", "kode"},
			Preloads:      []string{"Kategori", "Supplier"},
		}),
		db: db,
	}
}

func (r *barangRepo) FindByKode(kode string) (*model.Barang, error) {
	var barang model.Barang
	if err := r.db.Preload("Kategori").Preload("Supplier").Where("kode = ?", kode).First(&barang).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &barang, nil
}

func (r *barangRepo) KodeTaken(kode string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.Model(&model.Barang{}).Where("kode = ?", kode)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *barangRepo) CountByKodePrefix(prefix string) (int64, error) {
	var n int64
	err := r.db.Model(&model.Barang{}).Where("kode LIKE ?", prefix+"%").Count(&n).Error
	return n, err
}

// FindLowStock lists items whose stok is below stok_minimum, lowest first.
func (r *barangRepo) FindLowStock(limit int) ([]model.Barang, error) {
	var rows []model.Barang
	q := r.db.Preload("Kategori").Preload("Supplier").
		Where("stok < stok_minimum").
		Order("stok ASC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}
