package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/uteq/division-service/internal/app/controllers"
	appMigrations "github.com/uteq/division-service/internal/app/migrations"
	appRepos "github.com/uteq/division-service/internal/app/repositories"
	"github.com/uteq/division-service/internal/app/repositories/memory"
	appRoutes "github.com/uteq/division-service/internal/app/routes"
	appServices "github.com/uteq/division-service/internal/app/services"
	"github.com/uteq/division-service/internal/config"
	"github.com/uteq/division-service/internal/db"
	appMiddleware "github.com/uteq/division-service/internal/middleware"
	"github.com/uteq/division-service/internal/pkg/cache"
	"github.com/uteq/division-service/internal/pkg/helpers"
	"github.com/uteq/division-service/internal/pkg/logger"
	"github.com/uteq/division-service/internal/pkg/validation"
	"github.com/uteq/division-service/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                 *appRepos.Repositories
	Services              *appServices.Services
	DivisionController    *appControllers.DivisionController
	CoordinatorController *appControllers.CoordinatorController
	Database              *db.PostgresDB // nil for the memory store
	Cache                 cache.Cache
	Logger                zerolog.Logger
}

// Close releases the database pool and the cache connection
func (d *Dependencies) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close cache")
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "division-service",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupStore selects the repository implementation named by store.driver
func SetupStore(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *db.PostgresDB, error) {
	if cfg.UsesMemoryStore() {
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		return memory.NewRepositories(), nil, nil
	}

	database, err := SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, nil, err
	}
	return appRepos.NewRepositories(database), database, nil
}

// SetupCache connects to Redis when enabled. A failed connection degrades to no caching.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) cache.Cache {
	if !cfg.Redis.Enabled {
		return cache.NoopCache{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.Connect(ctx, cfg)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, division cache disabled")
		return cache.NoopCache{}
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("Division view cache enabled")
	return redisCache
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	repos, database, err := SetupStore(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}
	deps.Repos = repos
	deps.Database = database
	deps.Cache = SetupCache(cfg, lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.Cache)

	if cfg.Store.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := seed.CreateDefaultData(ctx, deps.Services, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	pageLimits := helpers.PageLimits{
		DefaultSize: cfg.Pagination.DefaultSize,
		MaxSize:     cfg.Pagination.MaxSize,
	}
	deps.DivisionController = appControllers.NewDivisionController(deps.Services.DivisionService, pageLimits)
	deps.CoordinatorController = appControllers.NewCoordinatorController(deps.Services.CoordinatorService, pageLimits)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	// Request cancellation reaches the store through the *gin.Context passed to services
	router.ContextWithFallback = true
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.LoggerMiddleware())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.DivisionController, deps.CoordinatorController)

	return router, nil
}
