package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-operations/config"
	deliveryHttp "clinic-operations/internal/delivery/http"
	"clinic-operations/internal/delivery/http/handler"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/infrastructure/cache"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/repository/memory"
	"clinic-operations/internal/scheduler"
	"clinic-operations/pkg/jwt"
	"clinic-operations/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *scheduler.Scheduler
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := NewLogger(cfg.Log)
	app.Log = log
	log.Info("Configuration loaded successfully")

	repos, err := app.openStorage()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	clinicMetrics := metrics.NewClinicMetrics(reg)

	usecases := NewUsecases(cfg, log, repos, app.RedisClient, clinicMetrics)

	// Queue counters live in Redis and may be behind the database after a flush.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := usecases.Receptions.SyncQueue(ctx); err != nil {
		log.WithError(err).Warn("Failed to sync reception queue counters")
	}

	app.Scheduler = scheduler.New(log, cfg.Scheduling, cfg.App.Location(), usecases.Appointments, usecases.Calendar)
	if err := app.Scheduler.Register(); err != nil {
		return nil, err
	}

	app.Server = initializeServer(cfg, log, usecases, reg)

	return app, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// openStorage connects Postgres and Redis, or falls back to the in-memory
// store when STORAGE_DRIVER=memory.
func (app *App) openStorage() (*Repositories, error) {
	cfg, log := app.Config, app.Log

	if cfg.App.StorageDriver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		return NewMemoryRepositories(memory.NewStore()), nil
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	return NewPostgresRepositories(db), nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, uc *Usecases, reg *prometheus.Registry) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Schedule:    handler.NewScheduleHandler(uc.Calendar, customValidator),
		Appointment: handler.NewAppointmentHandler(uc.Appointments, customValidator, cfg.Scheduling.NoShowGrace),
		Reception:   handler.NewReceptionHandler(uc.Receptions, customValidator),
		Record:      handler.NewRecordHandler(uc.Records, customValidator),
		Invoice:     handler.NewInvoiceHandler(uc.Billing, customValidator, log, cfg.Billing.GatewaySecret, cfg.Billing.AllowUnsignedCallbacks),
		Catalog:     handler.NewCatalogHandler(uc.Catalog, customValidator),
		Staff:       handler.NewStaffHandler(uc.Staff, customValidator),
		AuditLog:    handler.NewAuditLogHandler(uc.AuditLogs),
	}
	switch {
	case cfg.Billing.GatewaySecret != "":
	case cfg.Billing.AllowUnsignedCallbacks:
		log.Warn("GATEWAY_CALLBACK_SECRET is empty, gateway callbacks are not authenticated")
	default:
		log.Warn("GATEWAY_CALLBACK_SECRET is empty, gateway callbacks will be rejected")
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, loggingMiddleware, reg)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Scheduler.Stop(ctx)

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
