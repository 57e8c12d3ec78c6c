package model

// Kategori is a product category.
type Kategori struct {
	BaseModel
	Kategori string `gorm:"type:varchar(255);not null" json:"kategori"`
}

func (Kategori) TableName() string {
	return "kategori"
}

// Lookup is the {id,label} pair used by dropdowns.
func (k Kategori) Lookup() Lookup {
	return Lookup{ID: k.ID, Label: k.Kategori}
}
