package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Seed        SeedConfig
	Maintenance MaintenanceConfig
	LogLevel    string
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Port         string
	AppName      string
	AllowOrigins string
}

// DatabaseConfig selects the gorm dialector and its DSN.
type DatabaseConfig struct {
	Driver   string // postgres, mysql or sqlite
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SeedConfig is the default administrator created on first boot.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// MaintenanceConfig holds cron expressions for background jobs.
type MaintenanceConfig struct {
	TokenPurgeCron string
	LowStockCron   string
}

// Load reads environment variables (optionally from envFile) into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when the environment is set directly.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getenvWithDefault("APP_PORT", "8000"),
			AppName:      getenvWithDefault("APP_NAME", "Inventory Data Master API"),
			AllowOrigins: getenvWithDefault("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:   getenvWithDefault("DB_DRIVER", "postgres"),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenvWithDefault("DB_HOST", "localhost"),
			User:     getenvWithDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenvWithDefault("DB_NAME", "inventory"),
			Port:     getenvWithDefault("DB_PORT", "5432"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  ttl,
		},
		Seed: SeedConfig{
			AdminName:     getenvWithDefault("ADMIN_NAME", "Administrator"),
			AdminEmail:    getenvWithDefault("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getenvWithDefault("ADMIN_PASSWORD", "admin123"),
		},
		Maintenance: MaintenanceConfig{
			TokenPurgeCron: getenvWithDefault("TOKEN_PURGE_CRON", "@hourly"),
			LowStockCron:   getenvWithDefault("LOW_STOCK_CRON", "0 7 * * *"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (postgres, mysql, sqlite)", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}

	if c.Seed.AdminEmail == "" || c.Seed.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be provided")
	}

	return nil
}

// DSN returns DATABASE_URL when set, otherwise a driver-specific DSN built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		return d.Name + ".db"
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
			d.Host, d.User, d.Password, d.Name, d.Port)
	}
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
