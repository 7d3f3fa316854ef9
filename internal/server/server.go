// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"larder/internal/cache"
	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/email"
	"larder/internal/middleware"
	"larder/internal/models"
	"larder/internal/repository"
	"larder/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	authService         *service.AuthService
	userService         *service.UserService
	catalogService      *service.CatalogService
	categoryService     *service.CategoryService
	listService         *service.ListService
	purchaseService     *service.PurchaseService
	checkoutService     *service.CheckoutService
	subscriptionService *service.SubscriptionService
}

// NewServer creates a server instance, establishing database and Redis
// connections from the configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and no Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	listRepo := repository.NewListRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	var mailer service.ConfirmationSender
	if client := email.NewClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom); client.Configured() {
		mailer = client
	}

	return &Server{
		config:              cfg,
		db:                  db,
		redis:               redisClient,
		promMiddleware:      middleware.InitMetrics("larder-api"),
		authService:         service.NewAuthService(userRepo, cfg),
		userService:         service.NewUserService(userRepo),
		catalogService:      service.NewCatalogService(productRepo, categoryRepo),
		categoryService:     service.NewCategoryService(categoryRepo),
		listService:         service.NewListService(listRepo, productRepo, purchaseRepo),
		purchaseService:     service.NewPurchaseService(purchaseRepo),
		checkoutService:     service.NewCheckoutService(db, service.NewResolveOrCreatePolicy()),
		subscriptionService: service.NewSubscriptionService(subscriptionRepo, userRepo, mailer),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Larder Metrics Dashboard",
	}))

	// Auth routes. Register and login are brute-force targets, so they get
	// fail-closed per-IP budgets on top of the global limiter.
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimitWithPolicy(
		s.redis, 3, 10*time.Minute, middleware.FailClosed, "register"), s.Register)
	auth.Post("/login", middleware.RateLimitWithPolicy(
		s.redis, 10, 5*time.Minute, middleware.FailClosed, "login"), s.Login)

	// Everything below requires a valid token.
	protected := api.Group("", s.AuthRequired())

	protected.Get("/auth/me", s.Me)
	protected.Post("/auth/refresh", s.Refresh)

	// Category routes
	categories := protected.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Post("/", s.CreateCategory)
	categories.Get("/:id/products", s.GetCategoryProducts)
	categories.Get("/:id", s.GetCategory)
	categories.Patch("/:id", s.UpdateCategory)
	categories.Delete("/:id", s.DeleteCategory)

	// Product routes. Specific /:id/:resource and static segments go before
	// the generic /:id routes.
	products := protected.Group("/products")
	products.Get("/", s.GetProducts)
	products.Post("/", s.CreateProduct)
	products.Get("/low-stock", s.GetLowStockProducts)
	products.Get("/barcode/:barcode", s.GetProductByBarcode)
	products.Post("/:id/stock", s.AdjustProductStock)
	products.Get("/:id", s.GetProduct)
	products.Patch("/:id", s.UpdateProduct)
	products.Delete("/:id", s.DeleteProduct)

	// Shopping list routes
	lists := protected.Group("/lists")
	lists.Get("/", s.GetLists)
	lists.Post("/", s.CreateList)
	lists.Get("/:id/summary", s.GetListSummary)
	lists.Get("/:id/suggestions", s.GetListSuggestions)
	lists.Post("/:id/finalize", s.FinalizeList)
	lists.Post("/:id/products/:productId", s.AddProductToList)
	lists.Post("/:id/items", s.AddListItem)
	lists.Patch("/:id/items/:itemId", s.UpdateListItem)
	lists.Post("/:id/items/:itemId/toggle", s.ToggleListItem)
	lists.Delete("/:id/items/:itemId", s.DeleteListItem)
	lists.Get("/:id", s.GetList)
	lists.Patch("/:id", s.UpdateList)
	lists.Delete("/:id", s.DeleteList)

	// Purchase routes
	purchases := protected.Group("/purchases")
	purchases.Get("/", s.GetPurchases)
	purchases.Post("/", s.CreatePurchase)
	purchases.Get("/statistics", s.GetPurchaseStatistics)
	purchases.Get("/:id", s.GetPurchase)
	purchases.Patch("/:id", s.UpdatePurchase)
	purchases.Delete("/:id", s.DeletePurchase)

	// Subscription routes
	subscriptions := protected.Group("/subscriptions")
	subscriptions.Post("/", s.Subscribe)
	subscriptions.Get("/me", s.GetMySubscription)
	subscriptions.Post("/cancel", s.CancelSubscription)

	// Admin routes
	admin := protected.Group("/admin", s.SuperuserRequired())
	users := admin.Group("/users")
	users.Get("/", s.GetUsers)
	users.Post("/:id/superuser", s.SetUserSuperuser)
	users.Get("/:id", s.GetUser)
	users.Patch("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so an
// absent client degrades the report without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds the Fiber application with all middleware and routes attached.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "Larder API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server.
func (s *Server) Start() error {
	app := s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
