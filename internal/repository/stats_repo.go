package repository

import (
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalKategori int64 `json:"total_kategori"`
	TotalSupplier int64 `json:"total_supplier"`
	TotalBarang   int64 `json:"total_barang"`
	LowStockCount int64 `json:"low_stock_count"`
	TotalStok     int64 `json:"total_stok"`
}

// KategoriCount is the number of Barang filed under one Kategori.
type KategoriCount struct {
	KategoriID uint   `json:"kategori_id"`
	Kategori   string `json:"kategori"`
	Jumlah     int64  `json:"jumlah"`
}

type StatsRepository interface {
	GetDashboardStats() (*DashboardStats, error)
	BarangPerKategori() ([]KategoriCount, error)
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

func (r *statsRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Kategori{}).Count(&stats.TotalKategori).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Supplier{}).Count(&stats.TotalSupplier).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Barang{}).Count(&stats.TotalBarang).Error; err != nil {
		return nil, err
	}

	// Low stock: stok di bawah stok_minimum
	if err := r.db.Model(&model.Barang{}).Where("stok < stok_minimum").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Barang{}).Select("COALESCE(SUM(stok), 0)").Scan(&stats.TotalStok).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *statsRepo) BarangPerKategori() ([]KategoriCount, error) {
	var results []KategoriCount

	rows, err := r.db.Model(&model.Kategori{}).
		Select("kategori.id, kategori.kategori, COUNT(barang.id)").
		Joins("LEFT JOIN barang ON barang.kategori_id = kategori.id").
		Group("kategori.id, kategori.kategori").
		Order("kategori.kategori ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c KategoriCount
		if err := rows.Scan(&c.KategoriID, &c.Kategori, &c.Jumlah); err != nil {
			return nil, err
		}
		results = append(results, c)
	}

	return results, rows.Err()
}
