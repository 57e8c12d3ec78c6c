package server

import (
	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/policy"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options configures the HTTP application.
type Options struct {
	AppName      string
	AllowOrigins string
	JWT          *jwt.Manager
	Gate         *policy.Gate
}

// App is the wired application. The hub is not running until Hub.Run is called.
type App struct {
	Fiber     *fiber.App
	Hub       *ws.Hub
	Auth      service.AuthService
	Dashboard service.DashboardService
}

// New wires repositories, services and handlers onto a fiber app.
func New(db *gorm.DB, opts Options, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Gate == nil {
		opts.Gate = policy.Default()
	}

	hub := ws.NewHub(logger.Named(log, "ws"))

	// Dependency Injection (Wiring Layers)
	kategoriRepo := repository.NewKategoriRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	barangRepo := repository.NewBarangRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	svcLog := logger.Named(log, "svc")
	authService := service.NewAuthService(userRepo, tokenRepo, opts.JWT, logger.Named(log, "svc.auth"))
	kategoriService := service.NewKategoriService(kategoriRepo, hub, svcLog)
	supplierService := service.NewSupplierService(supplierRepo, hub, svcLog)
	barangService := service.NewBarangService(barangRepo, kategoriRepo, supplierRepo, hub, svcLog)
	dashService := service.NewDashboardService(statsRepo, barangRepo)

	hLog := logger.Named(log, "handler")
	authHandler := handler.NewAuthHandler(authService, hLog)
	kategoriHandler := handler.NewKategoriHandler(kategoriService, hLog)
	supplierHandler := handler.NewSupplierHandler(supplierService, hLog)
	barangHandler := handler.NewBarangHandler(barangService, hLog)
	lookupHandler := handler.NewLookupHandler(kategoriRepo, supplierRepo, hLog)
	dashHandler := handler.NewDashboardHandler(dashService, hLog)

	app := fiber.New(fiber.Config{
		AppName: opts.AppName,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger.Named(log, "http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(authService)
	protected := api.Group("", requireAuth)

	protected.Post("/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)

	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/low-stock", dashHandler.GetLowStock)

	gate := opts.Gate
	can := func(resource string, ability policy.Ability) fiber.Handler {
		return middleware.Authorize(gate, resource, ability)
	}

	// Kategori routes
	protected.Get("/kategori", kategoriHandler.Index)
	protected.Get("/kategori/:id", kategoriHandler.Show)
	protected.Post("/kategori", can(policy.ResourceKategori, policy.Create), kategoriHandler.Store)
	protected.Put("/kategori/:id", can(policy.ResourceKategori, policy.Update), kategoriHandler.Update)
	protected.Delete("/kategori/:id", can(policy.ResourceKategori, policy.Delete), kategoriHandler.Destroy)

	// Supplier routes
	protected.Get("/supplier", supplierHandler.Index)
	protected.Get("/supplier/:id", supplierHandler.Show)
	protected.Post("/supplier", can(policy.ResourceSupplier, policy.Create), supplierHandler.Store)
	protected.Put("/supplier/:id", can(policy.ResourceSupplier, policy.Update), supplierHandler.Update)
	protected.Delete("/supplier/:id", can(policy.ResourceSupplier, policy.Delete), supplierHandler.Destroy)

	// Barang routes (lookups first so they do not match :id)
	protected.Get("/barang/listkategori", lookupHandler.ListKategori)
	protected.Get("/barang/listsupplier", lookupHandler.ListSupplier)
	protected.Get("/barang", barangHandler.Index)
	protected.Get("/barang/:id", barangHandler.Show)
	protected.Post("/barang", can(policy.ResourceBarang, policy.Create), barangHandler.Store)
	protected.Put("/barang/:id", can(policy.ResourceBarang, policy.Update), barangHandler.Update)
	protected.Delete("/barang/:id", can(policy.ResourceBarang, policy.Delete), barangHandler.Destroy)

	// WebSocket Route
	app.Use("/ws", handler.UpgradeOnly)
	app.Get("/ws", requireAuth, handler.ChangeFeed(hub))

	log.Info("router initialized")

	return &App{
		Fiber:     app,
		Hub:       hub,
		Auth:      authService,
		Dashboard: dashService,
	}
}
