package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/backoffice-api/docs" // Swagger docs
	"github.com/sjperalta/backoffice-api/internal/config"
	"github.com/sjperalta/backoffice-api/internal/database"
	"github.com/sjperalta/backoffice-api/internal/events"
	"github.com/sjperalta/backoffice-api/internal/handlers"
	"github.com/sjperalta/backoffice-api/internal/jobs"
	"github.com/sjperalta/backoffice-api/internal/metrics"
	"github.com/sjperalta/backoffice-api/internal/middleware"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/sjperalta/backoffice-api/internal/storage"
	"github.com/sjperalta/backoffice-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Back-office API
// @version 1.0
// @description REST API for customers, samples, orders and employees, with single-session authentication and an operation audit trail

// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  50,
		MaxBackups: 10,
		MaxAgeDays: 30,
	})

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	metrics.Register(prometheus.DefaultRegisterer)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	hub := events.NewHub(32)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, hub, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, hub)

	// Setup router
	router := setupRouter(h, svcs, store, cfg)

	// WriteTimeout stays 0: notification streams are long-lived
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Drains pending audit writes
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, svcs *services.Services, store *storage.LocalStorage, cfg *config.Config) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.LoginRateLimitPerMinute, time.Minute)

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/notifications/subscribe", "/metrics"})))

	// Probes and docs are registered before the limiter and auth middleware so neither applies
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", h.Health.Index)

	router.Use(limiter.Middleware())
	router.Use(middleware.RequestContext())
	router.Use(middleware.Auth(svcs.Auth, middleware.DefaultExemptPrefixes))

	// Sample images are public and read-only
	router.Static("/"+storage.SampleImageDir, store.BasePath()+"/"+storage.SampleImageDir)

	api := router.Group("/api")
	{
		// Authentication (exempt from the token check)
		api.POST("/admin/login", h.Auth.AdminLogin)
		api.POST("/user/login", h.Auth.UserLogin)
		api.GET("/auth/verify", h.Auth.Verify)

		customers := api.Group("/customers")
		{
			customers.GET("", h.Customer.Index)
			customers.POST("", h.Customer.Create)
			customers.GET("/:id", h.Customer.Show)
			customers.PUT("/:id", h.Customer.Update)
			customers.DELETE("/:id", h.Customer.Delete)
			customers.GET("/:id/stats", h.Customer.Stats)
		}

		// Static routes first so "page" is not matched as :id
		samples := api.Group("/samples")
		{
			samples.GET("", h.Sample.Index)
			samples.GET("/page", h.Sample.Page)
			samples.POST("", h.Sample.Create)
			samples.POST("/fix-null-customers", h.Sample.FixNullCustomers)
			samples.GET("/:id", h.Sample.Show)
			samples.PUT("/:id", h.Sample.Update)
			samples.DELETE("/:id", h.Sample.Delete)
			samples.DELETE("/:id/image", h.Sample.DeleteImage)
			samples.GET("/:id/order-count", h.Sample.OrderCount)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", h.Order.Index)
			orders.POST("", h.Order.Create)
			orders.GET("/:id", h.Order.Show)
			orders.PUT("/:id", h.Order.Update)
			orders.POST("/:id/transition", h.Order.Transition)
			orders.DELETE("/:id", h.Order.Delete)
		}

		employees := api.Group("/employees")
		{
			employees.GET("", h.Employee.Index)
			employees.POST("", h.Employee.Create)
			employees.GET("/:id", h.Employee.Show)
			employees.PUT("/:id", h.Employee.Update)
			employees.DELETE("/:id", h.Employee.Delete)
		}

		// User management (admin only)
		users := api.Group("/users")
		users.Use(middleware.RequireAdmin())
		{
			users.GET("", h.User.Index)
			users.POST("", h.User.Create)
			users.GET("/:id", h.User.Show)
			users.PUT("/:id", h.User.Update)
			users.DELETE("/:id", h.User.Delete)
		}

		logs := api.Group("/logs")
		{
			logs.GET("", h.Log.Index)
			logs.GET("/search", h.Log.Search)
			logs.GET("/export", h.Log.Export)
			logs.DELETE("/clean", middleware.RequireAdmin(), h.Log.Clean)
			logs.DELETE("/clean-login", middleware.RequireAdmin(), h.Log.CleanLogin)
			logs.GET("/:id", h.Log.Show)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("/subscribe", h.Notification.Subscribe)
			notifications.GET("/stats", h.Notification.Stats)
		}

		system := api.Group("/system")
		{
			system.GET("/jobs", h.System.Jobs)
			system.GET("/ddns", h.System.DDNSStatus)
			system.POST("/ddns/run", middleware.RequireAdmin(), h.System.DDNSRun)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	if cfg.AuditRetentionDays > 0 {
		err := worker.ScheduleCron(cfg.AuditRetentionCron, func(ctx context.Context) error {
			logger.Info("[Job] Purging operation logs...", "retention_days", cfg.AuditRetentionDays)
			_, err := svcs.OperationLog.PurgeOlderThan(ctx, cfg.AuditRetentionDays)
			return err
		})
		if err != nil {
			logger.Error("Invalid audit retention schedule", "cron", cfg.AuditRetentionCron, "error", err)
		}
	}

	if svcs.DDNS.Enabled() {
		worker.ScheduleEveryImmediate(cfg.DDNSInterval(), func(ctx context.Context) error {
			_, err := svcs.DDNS.Run(ctx)
			return err
		})
	}

	logger.Info("Scheduled recurring jobs")
}
