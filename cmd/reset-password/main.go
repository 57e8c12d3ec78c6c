package main

import (
	"flag"
	"strings"

	"go.uber.org/zap"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/logger"
)

// reset-password sets a user's password, by default the configured admin,
// and revokes every access token the user holds.
func main() {
	envFile := flag.String("env", "", "path to an .env file")
	email := flag.String("email", "", "account to reset (default: ADMIN_EMAIL)")
	password := flag.String("password", "", "new password (default: ADMIN_PASSWORD)")
	flag.Parse()

	// 1. Load Env
	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.LogLevel)).Named("reset-password")
	defer func() { _ = log.Sync() }()

	target := strings.ToLower(strings.TrimSpace(*email))
	if target == "" {
		target = strings.ToLower(cfg.Seed.AdminEmail)
	}
	newPassword := *password
	if newPassword == "" {
		newPassword = cfg.Seed.AdminPassword
	}
	if len(newPassword) < 4 {
		log.Fatal("password must be at least 4 characters")
	}

	// 2. Setup Database
	db, err := database.Connect(database.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN()}, log)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// 3. Find user
	user, err := userRepo.FindByEmail(target)
	if err != nil {
		log.Fatal("user not found", zap.String("email", target), zap.Error(err))
	}

	// 4. Hash and store the new password
	if err := user.SetPassword(newPassword); err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}
	if err := userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		log.Fatal("failed to update password", zap.Error(err))
	}

	// 5. Revoke sessions
	revoked, err := tokenRepo.DeleteByUser(user.ID)
	if err != nil {
		log.Fatal("failed to revoke tokens", zap.Error(err))
	}

	log.Info("password reset", zap.String("email", target), zap.Int64("tokens_revoked", revoked))
}
