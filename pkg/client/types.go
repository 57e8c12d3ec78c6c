package client

import "time"

// Entity names, shared with the server's change feed.
const (
	EntityKategori = "kategori"
	EntitySupplier = "supplier"
	EntityBarang   = "barang"
)

// EventResourceChanged is the change-feed event type that triggers invalidation.
const EventResourceChanged = "resource_changed"

type Kategori struct {
	ID        uint      `json:"id"`
	Kategori  string    `json:"kategori"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Supplier struct {
	ID        uint      `json:"id"`
	Supplier  string    `json:"supplier"`
	Alamat    string    `json:"alamat"`
	Kontak    string    `json:"kontak"`
	Email     string    `json:"email"`
	Deskripsi string    `json:"deskripsi"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref is a resolved reference; ID is nil when the server substituted a placeholder label.
type Ref struct {
	ID    *uint  `json:"id"`
	Label string `json:"label"`
}

type Barang struct {
	ID          uint      `json:"id"`
	Kode        string    `json:"kode"`
	Nama        string    `json:"nama"`
	KategoriID  uint      `json:"kategori_id"`
	Kategori    Ref       `json:"kategori"`
	SupplierID  uint      `json:"supplier_id"`
	Supplier    Ref       `json:"supplier"`
	Merk        string    `json:"merk"`
	Spesifikasi string    `json:"spesifikasi"`
	Satuan      string    `json:"satuan"`
	Stok        int       `json:"stok"`
	StokMinimum int       `json:"stok_minimum"`
	LowStock    bool      `json:"low_stock"`
	Gambar      string    `json:"gambar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Lookup struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Event is a change-feed message.
type Event struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       uint   `json:"id"`
	Cascaded int64  `json:"cascaded"`
	Message  string `json:"message"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}
