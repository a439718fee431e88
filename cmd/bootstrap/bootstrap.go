package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ayursetu-backend/config"
	deliveryHttp "ayursetu-backend/internal/delivery/http"
	"ayursetu-backend/internal/delivery/http/handler"
	"ayursetu-backend/internal/delivery/http/middleware"
	domainRepo "ayursetu-backend/internal/domain/repository"
	"ayursetu-backend/internal/infrastructure/cache"
	"ayursetu-backend/internal/infrastructure/database"
	"ayursetu-backend/internal/infrastructure/filestore"
	"ayursetu-backend/internal/repository/jsonstore"
	"ayursetu-backend/internal/repository/postgres"
	"ayursetu-backend/internal/service"
	"ayursetu-backend/internal/usecase"
	"ayursetu-backend/pkg/jwt"
	"ayursetu-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	SlotLocker  service.SlotLocker
	Server      *http.Server
}

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	transactor  domainRepo.Transactor
	users       domainRepo.UserRepository
	doctors     domainRepo.DoctorRepository
	patients    domainRepo.PatientRepository
	appointment domainRepo.AppointmentRepository
	auditLogs   domainRepo.AuditLogRepository
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

	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Fees are written as JSON numbers, matching the stored collections.
	decimal.MarshalJSONWithoutQuotes = true

	repos, err := app.initializeStorage(cfg, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	var tokenStore service.TokenStore
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.RedisClient = redisClient
		app.SlotLocker = service.NewRedisSlotLocker(redisClient, log, cfg.Storage.SlotLockTTL)
		tokenStore = service.NewRedisTokenStore(redisClient, log)
	} else {
		app.SlotLocker = service.NewLocalSlotLocker(log)
		tokenStore = service.NewMemoryTokenStore()
		log.Info("Redis disabled, using in-process slot locks and token store")
	}

	server, err := app.initializeServer(cfg, log, repos, tokenStore)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures a JSON logrus logger at the configured level
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

func (app *App) initializeStorage(cfg *config.Config, log *logrus.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := database.NewPostgresConnection(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		app.DB = db

		return &repositories{
			transactor:  postgres.NewTransactor(db),
			users:       postgres.NewUserRepository(db),
			doctors:     postgres.NewDoctorRepository(db),
			patients:    postgres.NewPatientRepository(db),
			appointment: postgres.NewAppointmentRepository(db),
			auditLogs:   postgres.NewAuditLogRepository(db),
		}, nil

	default:
		store, err := filestore.NewStore(afero.NewOsFs(), cfg.Storage.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open data dir: %w", err)
		}
		log.WithField("dir", cfg.Storage.DataDir).Info("Using JSON file storage")

		return &repositories{
			transactor:  store,
			users:       jsonstore.NewUserRepository(store),
			doctors:     jsonstore.NewDoctorRepository(store),
			patients:    jsonstore.NewPatientRepository(store),
			appointment: jsonstore.NewAppointmentRepository(store),
			auditLogs:   jsonstore.NewAuditLogRepository(store),
		}, nil
	}
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, log *logrus.Logger, repos *repositories, tokenStore service.TokenStore) (*http.Server, error) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	auditService := service.NewAuditService(log, repos.auditLogs)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, repos.transactor, repos.users, repos.doctors, repos.patients, jwtService, tokenStore, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(log, repos.transactor, repos.doctors, repos.appointment, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, repos.transactor, repos.appointment, repos.doctors, repos.patients, app.SlotLocker, auditService)
	patientUsecase := usecase.NewPatientUsecase(log, repos.transactor, repos.patients, auditService)
	analyticsUsecase := usecase.NewAnalyticsUsecase(log, repos.doctors, repos.patients, repos.appointment)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, repos.auditLogs)

	if err := authUsecase.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Initialize router
	router := deliveryHttp.NewRouter(
		cfg.App.APIPrefix,
		handler.NewAuthHandler(authUsecase, customValidator),
		handler.NewDoctorHandler(doctorUsecase, customValidator),
		handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		handler.NewPatientHandler(patientUsecase, customValidator),
		handler.NewAnalyticsHandler(analyticsUsecase),
		handler.NewAuditLogHandler(auditLogUsecase),
		middleware.NewAuthMiddleware(jwtService, tokenStore, log),
		middleware.NewCORSMiddleware(cfg.App.CORSOrigin),
		middleware.NewLoggingMiddleware(log),
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background work and closes connections
func (app *App) Close() {
	if app.SlotLocker != nil {
		app.SlotLocker.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
