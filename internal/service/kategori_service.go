package service

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"go.uber.org/zap"
)

const ResourceKategori = "kategori"

// KategoriForm is the writable part of a Kategori.
type KategoriForm struct {
	Kategori string `json:"kategori" validate:"notblank,max=255"`
}

func NewKategoriService(repo repository.KategoriRepository, events EventPublisher, log *zap.Logger) ResourceService[model.Kategori] {
	return newResourceService[model.Kategori, KategoriForm](Definition[model.Kategori, KategoriForm]{
		Name:    ResourceKategori,
		NewForm: func() *KategoriForm { return &KategoriForm{} },
		Load: func(f *KategoriForm, k *model.Kategori) {
			f.Kategori = k.Kategori
		},
		Apply: func(f *KategoriForm, k *model.Kategori) {
			k.Kategori = f.Kategori
		},
		Values: func(f *KategoriForm) map[string]interface{} {
			return map[string]interface{}{"kategori": f.Kategori}
		},
	}, repo, events, log)
}
