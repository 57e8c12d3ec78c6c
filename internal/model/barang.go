package model

import "time"

// Satuan is the unit a Barang is counted in.
type Satuan string

const (
	SatuanKG   Satuan = "KG"
	SatuanPcs  Satuan = "Pcs"
	SatuanUnit Satuan = "Unit"
)

// Display values used when a Barang's reference cannot be resolved.
const (
	PlaceholderKategori = "Tanpa Kategori"
	PlaceholderSupplier = "Tanpa Supplier"
)

// Barang is an inventory item. Deleting its Kategori or Supplier deletes it too.
type Barang struct {
	BaseModel
	Kode        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"kode"`
	Nama        string    `gorm:"type:varchar(255);not null" json:"nama"`
	KategoriID  uint      `gorm:"not null;index" json:"kategori_id"`
	Kategori    *Kategori `gorm:"foreignKey:KategoriID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SupplierID  uint      `gorm:"not null;index" json:"supplier_id"`
	Supplier    *Supplier `gorm:"foreignKey:SupplierID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Merk        string    `gorm:"type:varchar(255)" json:"merk"`
	Spesifikasi string    `gorm:"type:text" json:"spesifikasi"`
	Satuan      Satuan    `gorm:"type:varchar(50);not null" json:"satuan"`
	Stok        int       `gorm:"not null;default:0" json:"stok"`
	StokMinimum int       `gorm:"not null;default:0" json:"stok_minimum"`
	Gambar      string    `gorm:"type:varchar(255)" json:"gambar"`
}

func (Barang) TableName() string {
	return "barang"
}

// LowStock reports whether the stock fell below the configured minimum.
func (b *Barang) LowStock() bool {
	return b.Stok < b.StokMinimum
}

// Ref is an optional reference resolved for display. ID is nil when the target is absent.
type Ref struct {
	ID    *uint  `json:"id"`
	Label string `json:"label"`
}

// resolveRef substitutes the named default when the reference did not load.
func resolveRef(id uint, label string, found bool, fallback string) Ref {
	if !found {
		return Ref{Label: fallback}
	}
	return Ref{ID: &id, Label: label}
}

// BarangResponse is the API shape of a Barang, with its references resolved.
type BarangResponse struct {
	ID          uint      `json:"id"`
	Kode        string    `json:"kode"`
	Nama        string    `json:"nama"`
	KategoriID  uint      `json:"kategori_id"`
	Kategori    Ref       `json:"kategori"`
	SupplierID  uint      `json:"supplier_id"`
	Supplier    Ref       `json:"supplier"`
	Merk        string    `json:"merk"`
	Spesifikasi string    `json:"spesifikasi"`
	Satuan      Satuan    `json:"satuan"`
	Stok        int       `json:"stok"`
	StokMinimum int       `json:"stok_minimum"`
	LowStock    bool      `json:"low_stock"`
	Gambar      string    `json:"gambar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   uint      `json:"created_by,omitempty"`
	UpdatedBy   uint      `json:"updated_by,omitempty"`
}

// ToResponse converts Barang to BarangResponse.
func (b *Barang) ToResponse() BarangResponse {
	resp := BarangResponse{
		ID:          b.ID,
		Kode:        b.Kode,
		Nama:        b.Nama,
		KategoriID:  b.KategoriID,
		SupplierID:  b.SupplierID,
		Merk:        b.Merk,
		Spesifikasi: b.Spesifikasi,
		Satuan:      b.Satuan,
		Stok:        b.Stok,
		StokMinimum: b.StokMinimum,
		LowStock:    b.LowStock(),
		Gambar:      b.Gambar,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CreatedBy:   b.CreatedBy,
		UpdatedBy:   b.UpdatedBy,
	}

	if b.Kategori != nil && b.Kategori.ID != 0 {
		resp.Kategori = resolveRef(b.Kategori.ID, b.Kategori.Kategori, true, PlaceholderKategori)
	} else {
		resp.Kategori = resolveRef(0, "", false, PlaceholderKategori)
	}

	if b.Supplier != nil && b.Supplier.ID != 0 {
		resp.Supplier = resolveRef(b.Supplier.ID, b.Supplier.Supplier, true, PlaceholderSupplier)
	} else {
		resp.Supplier = resolveRef(0, "", false, PlaceholderSupplier)
	}

	return resp
}
