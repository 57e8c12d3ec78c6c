package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/policy"
	"go-inventory-api/internal/scheduler"
	"go-inventory-api/internal/server"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/logger"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// 2. Setup Database
	gormLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := database.Connect(database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN(),
		LogLevel: gormLevel,
	}, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to connect database", zap.Error(err))
	}

	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := model.Migrate(db); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	jwtManager, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		baseLogger.Fatal("failed to init jwt manager", zap.Error(err))
	}

	// 3. Wire layers and routes
	app := server.New(db, server.Options{
		AppName:      cfg.Server.AppName,
		AllowOrigins: cfg.Server.AllowOrigins,
		JWT:          jwtManager,
		Gate:         policy.Default(),
	}, baseLogger)

	// 4. Seed default admin user
	if created, err := app.Auth.SeedAdmin(cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		baseLogger.Warn("failed to seed admin user", zap.Error(err))
	} else if created {
		baseLogger.Info("admin user created", zap.String("email", cfg.Seed.AdminEmail))
	}

	// 5. WebSocket Hub
	go app.Hub.Run()
	defer app.Hub.Close()

	// 6. Scheduler
	sched := scheduler.NewScheduler(cfg.Maintenance, app.Auth, app.Dashboard, app.Hub, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// 7. Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := app.Fiber.Listen(":" + cfg.Server.Port); err != nil {
			baseLogger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	if err := app.Fiber.Shutdown(); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	baseLogger.Info("server exited")
}
