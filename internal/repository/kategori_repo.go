package repository

import (
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

type KategoriRepository interface {
	ResourceRepository[model.Kategori]
	Lookups() ([]model.Lookup, error)
	Exists(id uint) (bool, error)
}

type kategoriRepo struct {
	ResourceRepository[model.Kategori]
	db *gorm.DB
}

func NewKategoriRepo(db *gorm.DB) KategoriRepository {
	return &kategoriRepo{
		ResourceRepository: NewResourceRepo[model.Kategori](db, Schema{
			SearchColumns: []string{"kategori"},
			Dependents: []Dependent{
				{Model: func() interface{} { return &model.Barang{} }, Column: "kategori_id"},
			},
		}),
		db: db,
	}
}

func (r *kategoriRepo) Lookups() ([]model.Lookup, error) {
	var rows []model.Kategori
	if err := r.db.Select("id", "kategori").Order("kategori ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]model.Lookup, len(rows))
	for i, k := range rows {
		out[i] = k.Lookup()
	}
	return out, nil
}

func (r *kategoriRepo) Exists(id uint) (bool, error) {
	var n int64
	err := r.db.Model(&model.Kategori{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
