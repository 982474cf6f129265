// Package bootstrap wires configuration, storage and the HTTP layer together.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/campusdesk/campusdesk/internal/app/controllers"
	appMigrations "github.com/campusdesk/campusdesk/internal/app/migrations"
	appRepos "github.com/campusdesk/campusdesk/internal/app/repositories"
	appRoutes "github.com/campusdesk/campusdesk/internal/app/routes"
	appServices "github.com/campusdesk/campusdesk/internal/app/services"
	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/db"
	appMiddleware "github.com/campusdesk/campusdesk/internal/middleware"
	pkgAuth "github.com/campusdesk/campusdesk/internal/pkg/auth"
	"github.com/campusdesk/campusdesk/internal/pkg/email"
	"github.com/campusdesk/campusdesk/internal/pkg/filestorage"
	"github.com/campusdesk/campusdesk/internal/pkg/helpers"
	"github.com/campusdesk/campusdesk/internal/pkg/logger"
	"github.com/campusdesk/campusdesk/internal/pkg/realtime"
	"github.com/campusdesk/campusdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	IssueService           *appServices.IssueService
	CategoryService        *appServices.CategoryService
	NotificationService    *appServices.NotificationService
	UserService            *appServices.UserService
	AnalyticsService       *appServices.AnalyticsService
	AuthController         *appControllers.AuthController
	IssueController        *appControllers.IssueController
	CategoryController     *appControllers.CategoryController
	NotificationController *appControllers.NotificationController
	UserController         *appControllers.UserController
	AnalyticsController    *appControllers.AnalyticsController
	UploadController       *appControllers.UploadController
	RealtimeHub            *realtime.Hub
	RealtimeHandler        *realtime.Handler
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	EmailService           email.EmailService
	FileStorage            *filestorage.LocalStorage
	Logger                 zerolog.Logger
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

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		// Missing reference data degrades the reporting form, not startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// realtime hub. The hub's event loop is started here.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	baseURL := "http://localhost:" + cfg.Server.Port
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 168*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		ClientURL: cfg.Server.ClientOrigin,
	}, lgr)

	deps.RealtimeHub = realtime.NewHub(lgr)
	go deps.RealtimeHub.Run()
	deps.RealtimeHandler = realtime.NewHandler(deps.RealtimeHub, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.EmailService,
		cfg.Auth.AdminSecret,
		lgr,
	)
	deps.IssueService = appServices.NewIssueService(
		deps.Repos.IssueRepository,
		deps.Repos.CategoryRepository,
		deps.Repos.NotificationRepository,
		deps.RealtimeHub,
		deps.EmailService,
		nil, // any-to-any transitions
		lgr,
	)
	deps.CategoryService = appServices.NewCategoryService(deps.Repos.CategoryRepository, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.AnalyticsService = appServices.NewAnalyticsService(deps.Repos.IssueRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.IssueController = appControllers.NewIssueController(deps.IssueService, lgr)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.AnalyticsController = appControllers.NewAnalyticsController(deps.AnalyticsService, lgr)
	deps.UploadController = appControllers.NewUploadController(deps.FileStorage, lgr)

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

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.Server.ClientOrigin))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.IssueController,
		deps.CategoryController,
		deps.NotificationController,
		deps.UserController,
		deps.AnalyticsController,
		deps.UploadController,
		deps.RealtimeHandler,
		deps.AuthMiddleware,
	)

	return router, nil
}
