package service

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"go.uber.org/zap"
)

const ResourceSupplier = "supplier"

type SupplierForm struct {
	Supplier  string `json:"supplier" validate:"notblank,max=255"`
	Alamat    string `json:"alamat"`
	Kontak    string `json:"kontak" validate:"notblank,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Deskripsi string `json:"deskripsi"`
}

func NewSupplierService(repo repository.SupplierRepository, events EventPublisher, log *zap.Logger) ResourceService[model.Supplier] {
	return newResourceService[model.Supplier, SupplierForm](Definition[model.Supplier, SupplierForm]{
		Name:    ResourceSupplier,
		NewForm: func() *SupplierForm { return &SupplierForm{} },
		Load: func(f *SupplierForm, s *model.Supplier) {
			*f = SupplierForm{
				Supplier:  s.Supplier,
				Alamat:    s.Alamat,
				Kontak:    s.Kontak,
				Email:     s.Email,
				Deskripsi: s.Deskripsi,
			}
		},
		Apply: func(f *SupplierForm, s *model.Supplier) {
			s.Supplier = f.Supplier
			s.Alamat = f.Alamat
			s.Kontak = f.Kontak
			s.Email = f.Email
			s.Deskripsi = f.Deskripsi
		},
		Values: func(f *SupplierForm) map[string]interface{} {
			return map[string]interface{}{
				"supplier":  f.Supplier,
				"alamat":    f.Alamat,
				"kontak":    f.Kontak,
				"email":     f.Email,
				"deskripsi": f.Deskripsi,
			}
		},
	}, repo, events, log)
}
