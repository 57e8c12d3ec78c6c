package model

import "gorm.io/gorm"

// Migrate creates or updates every table. Referenced tables come before their dependents.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Kategori{},
		&Supplier{},
		&Barang{},
		&User{},
		&PersonalAccessToken{},
	)
}
