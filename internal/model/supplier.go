package model

// Supplier is a vendor that delivers Barang.
type Supplier struct {
	BaseModel
	Supplier  string `gorm:"type:varchar(255);not null" json:"supplier"`
	Alamat    string `gorm:"type:text" json:"alamat"`
	Kontak    string `gorm:"type:varchar(100);not null" json:"kontak"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
	Deskripsi string `gorm:"type:text" json:"deskripsi"`
}

func (Supplier) TableName() string {
	return "supplier"
}

func (s Supplier) Lookup() Lookup {
	return Lookup{ID: s.ID, Label: s.Supplier}
}

// Lookup is an option of a dropdown list.
type Lookup struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}
