package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalog/config"
	deliveryHttp "product-catalog/internal/delivery/http"
	"product-catalog/internal/delivery/http/handler"
	"product-catalog/internal/delivery/http/middleware"
	"product-catalog/internal/infrastructure/cache"
	"product-catalog/internal/infrastructure/database"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/usecase"
	"product-catalog/pkg/jwt"
	"product-catalog/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	ProductCache cache.ProductCache
	Server       *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.Log)
	app.Log = log
	log.Info("Configuration loaded successfully")

	db, err := database.NewConnection(cfg.DB, log, cfg.App.Env == "development")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Infof("Database connected successfully (%s)", cfg.DB.Driver)

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	productCache, err := cache.NewProductCache(cfg.Cache, redisClient)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create product cache: %w", err)
	}
	app.ProductCache = productCache
	log.Infof("Product cache initialized (%s)", cfg.Cache.Driver)

	app.Server = initializeServer(cfg, log, db, redisClient, productCache)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

func newAuthUsecase(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) (usecase.AuthUsecase, *jwt.JWTService) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	authUsecase := usecase.NewAuthUsecase(db, log, repository.NewUserRepository(), repository.NewRoleRepository(), jwtService, redisClient)
	return authUsecase, jwtService
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, productCache cache.ProductCache) *http.Server {
	customValidator := validator.NewValidator()

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase, jwtService := newAuthUsecase(cfg, log, db, redisClient)
	productUsecase := usecase.NewProductUsecase(db, log, productRepo, productCache, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, log)
	productHandler := handler.NewProductHandler(productUsecase, customValidator, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, log)
	healthHandler := handler.NewHealthHandler(db, redisClient, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	router := deliveryHttp.NewRouter(authHandler, productHandler, auditLogHandler, healthHandler, authMiddleware, corsMiddleware, loggingMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Migrate creates or updates the schema, seeds the roles and, when
// ADMIN_EMAIL and ADMIN_PASSWORD are set, the admin account.
func (app *App) Migrate(ctx context.Context) error {
	if err := database.Migrate(app.DB.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	app.Log.Info("Schema migrated successfully")

	if err := repository.NewRoleRepository().EnsureDefaults(app.DB.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	admin := app.Config.Admin
	if admin.Email == "" || admin.Password == "" {
		app.Log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	authUsecase, _ := newAuthUsecase(app.Config, app.Log, app.DB, app.RedisClient)
	if err := authUsecase.EnsureAdmin(ctx, admin.Email, admin.Password, admin.FullName); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	return nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or SIGINT/SIGTERM arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.Close()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	app.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()
	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (cache, database, redis)
func (app *App) Close() {
	if app.ProductCache != nil {
		if err := app.ProductCache.Close(); err != nil {
			app.Log.Warnf("Failed to close product cache: %v", err)
		}
	}

	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
