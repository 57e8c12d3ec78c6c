package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/ws"
)

// EventLowStock is published when the low-stock report finds items.
const EventLowStock = "low_stock"

// lowStockReportLimit caps how many items one report names.
const lowStockReportLimit = 50

type TokenPurger interface {
	PurgeExpiredTokens() (int64, error)
}

type LowStockSource interface {
	LowStock(limit int) ([]model.Barang, error)
}

type Publisher interface {
	Publish(evt ws.Event)
}

// Scheduler manages scheduled maintenance tasks.
type Scheduler struct {
	cron   *cron.Cron
	cfg    config.MaintenanceConfig
	tokens TokenPurger
	stock  LowStockSource
	events Publisher
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.MaintenanceConfig, tokens TokenPurger, stock LowStockSource, events Publisher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		cfg:    cfg,
		tokens: tokens,
		stock:  stock,
		events: events,
		logger: logger,
	}
}

// Start registers the jobs and starts the cron loop. A bad expression fails before anything runs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.TokenPurgeCron, s.PurgeTokens); err != nil {
		return fmt.Errorf("schedule token purge %q: %w", s.cfg.TokenPurgeCron, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.LowStockCron, s.ReportLowStock); err != nil {
		return fmt.Errorf("schedule low stock report %q: %w", s.cfg.LowStockCron, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("token_purge", s.cfg.TokenPurgeCron),
		zap.String("low_stock", s.cfg.LowStockCron))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// PurgeTokens deletes expired access tokens.
func (s *Scheduler) PurgeTokens() {
	n, err := s.tokens.PurgeExpiredTokens()
	if err != nil {
		s.logger.Error("failed to purge expired tokens", zap.Error(err))
		return
	}
	s.logger.Info("expired tokens purged", zap.Int64("count", n))
}

// ReportLowStock logs every item below its minimum and notifies websocket clients.
func (s *Scheduler) ReportLowStock() {
	items, err := s.stock.LowStock(lowStockReportLimit)
	if err != nil {
		s.logger.Error("failed to load low stock items", zap.Error(err))
		return
	}
	if len(items) == 0 {
		s.logger.Info("no low stock items")
		return
	}

	for _, b := range items {
		s.logger.Warn("low stock",
			zap.Uint("barang_id", b.ID),
			zap.String("kode", b.Kode),
			zap.Int("stok", b.Stok),
			zap.Int("stok_minimum", b.StokMinimum))
	}

	if s.events != nil {
		s.events.Publish(ws.Event{
			Type:     EventLowStock,
			Resource: "barang",
			Message:  fmt.Sprintf("%d barang di bawah stok minimum", len(items)),
		})
	}
}
