package service

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() (*repository.DashboardStats, error)
	BarangPerKategori() ([]repository.KategoriCount, error)
	LowStock(limit int) ([]model.Barang, error)
}

type dashboardService struct {
	statsRepo  repository.StatsRepository
	barangRepo repository.BarangRepository
}

func NewDashboardService(statsRepo repository.StatsRepository, barangRepo repository.BarangRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo, barangRepo: barangRepo}
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.statsRepo.GetDashboardStats()
}

func (s *dashboardService) BarangPerKategori() ([]repository.KategoriCount, error) {
	return s.statsRepo.BarangPerKategori()
}

func (s *dashboardService) LowStock(limit int) ([]model.Barang, error) {
	return s.barangRepo.FindLowStock(limit)
}
