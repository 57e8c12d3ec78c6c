package repository

import (
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	ResourceRepository[model.Supplier]
	Lookups() ([]model.Lookup, error)
	Exists(id uint) (bool, error)
}

type supplierRepo struct {
	ResourceRepository[model.Supplier]
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{
		ResourceRepository: NewResourceRepo[model.Supplier](db, Schema{
			SearchColumns: []string{"supplier"},
			Dependents: []Dependent{
				{Model: func() interface{} { return &model.Barang{} }, Column: "supplier_id"},
			},
		}),
		db: db,
	}
}

func (r *supplierRepo) Lookups() ([]model.Lookup, error) {
	var rows []model.Supplier
	if err := r.db.Select("id", "supplier").Order("supplier ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]model.Lookup, len(rows))
	for i, s := range rows {
		out[i] = s.Lookup()
	}
	return out, nil
}

func (r *supplierRepo) Exists(id uint) (bool, error) {
	var n int64
	err := r.db.Model(&model.Supplier{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
