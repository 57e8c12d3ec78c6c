package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/validator"

	"go.uber.org/zap"
)

const ResourceBarang = "barang"

// maxKodeAttempts bounds the search for a free generated kode.
const maxKodeAttempts = 100

var ErrKodeExhausted = errors.New("could not generate a unique kode")

type BarangForm struct {
	Kode        string       `json:"kode" validate:"omitempty,max=255"`
	Nama        string       `json:"nama" validate:"notblank,max=255"`
	KategoriID  uint         `json:"kategori_id" validate:"required"`
	SupplierID  uint         `json:"supplier_id" validate:"required"`
	Merk        string       `json:"merk" validate:"max=255"`
	Spesifikasi string       `json:"spesifikasi"`
	Satuan      model.Satuan `json:"satuan" validate:"required,oneof=KG Pcs Unit"`
	Stok        int          `json:"stok" validate:"gte=0"`
	StokMinimum int          `json:"stok_minimum" validate:"gte=0"`
	Gambar      string       `json:"gambar" validate:"omitempty,url,max=255"`
}

type barangRules struct {
	barang   repository.BarangRepository
	kategori repository.KategoriRepository
	supplier repository.SupplierRepository
	now      func() time.Time
}

func NewBarangService(
	barangRepo repository.BarangRepository,
	kategoriRepo repository.KategoriRepository,
	supplierRepo repository.SupplierRepository,
	events EventPublisher,
	log *zap.Logger,
) ResourceService[model.Barang] {
	rules := &barangRules{barang: barangRepo, kategori: kategoriRepo, supplier: supplierRepo, now: time.Now}

	return newResourceService[model.Barang, BarangForm](Definition[model.Barang, BarangForm]{
		Name:    ResourceBarang,
		NewForm: func() *BarangForm { return &BarangForm{} },
		Load: func(f *BarangForm, b *model.Barang) {
			*f = BarangForm{
				Kode:        b.Kode,
				Nama:        b.Nama,
				KategoriID:  b.KategoriID,
				SupplierID:  b.SupplierID,
				Merk:        b.Merk,
				Spesifikasi: b.Spesifikasi,
				Satuan:      b.Satuan,
				Stok:        b.Stok,
				StokMinimum: b.StokMinimum,
				Gambar:      b.Gambar,
			}
		},
		Apply: func(f *BarangForm, b *model.Barang) {
			b.Kode = f.Kode
			b.Nama = f.Nama
			b.KategoriID = f.KategoriID
			b.SupplierID = f.SupplierID
			b.Merk = f.Merk
			b.Spesifikasi = f.Spesifikasi
			b.Satuan = f.Satuan
			b.Stok = f.Stok
			b.StokMinimum = f.StokMinimum
			b.Gambar = f.Gambar
		},
		Values: func(f *BarangForm) map[string]interface{} {
			return map[string]interface{}{
				"kode":         f.Kode,
				"nama":         f.Nama,
				"kategori_id":  f.KategoriID,
				"supplier_id":  f.SupplierID,
				"merk":         f.Merk,
				"spesifikasi":  f.Spesifikasi,
				"satuan":       string(f.Satuan),
				"stok":         f.Stok,
				"stok_minimum": f.StokMinimum,
				"gambar":       f.Gambar,
			}
		},
		Check:        rules.check,
		BeforeCreate: rules.assignKode,
		Unique:       "kode",
	}, barangRepo, events, log)
}

func (r *barangRules) check(f *BarangForm, id uint) (validator.Errors, error) {
	errs := validator.Errors{}

	if f.KategoriID != 0 {
		ok, err := r.kategori.Exists(f.KategoriID)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("kategori_id", "kategori_id yang dipilih tidak valid.")
		}
	}

	if f.SupplierID != 0 {
		ok, err := r.supplier.Exists(f.SupplierID)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("supplier_id", "supplier_id yang dipilih tidak valid.")
		}
	}

	f.Kode = strings.TrimSpace(f.Kode)
	switch {
	case f.Kode == "" && id != 0:
		// An existing row always keeps a kode.
		errs.Add("kode", "kode wajib diisi.")
	case f.Kode != "":
		taken, err := r.barang.KodeTaken(f.Kode, id)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("kode", "kode sudah digunakan.")
		}
	}

	return errs, nil
}

// assignKode fills an omitted kode with K{kategori}S{supplier}{seq}{YYYY}{MM}.
func (r *barangRules) assignKode(f *BarangForm) error {
	if f.Kode != "" {
		return nil
	}

	prefix := fmt.Sprintf("K%dS%d", f.KategoriID, f.SupplierID)
	n, err := r.barang.CountByKodePrefix(prefix)
	if err != nil {
		return err
	}

	now := r.now()
	for seq := n + 1; seq <= n+maxKodeAttempts; seq++ {
		kode := GenerateKode(f.KategoriID, f.SupplierID, seq, now)
		taken, err := r.barang.KodeTaken(kode, 0)
		if err != nil {
			return err
		}
		if !taken {
			f.Kode = kode
			return nil
		}
	}
	return ErrKodeExhausted
}

// GenerateKode formats a Barang code: kategori 1, supplier 2, seq 3 in January 2025 gives K1S203202501.
func GenerateKode(kategoriID, supplierID uint, seq int64, at time.Time) string {
	return fmt.Sprintf("K%dS%d%02d%04d%02d", kategoriID, supplierID, seq, at.Year(), int(at.Month()))
}
