package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"sales-service/api"
	"sales-service/api/health"
	apisale "sales-service/api/sale"
	saleapp "sales-service/application/sale"
	"sales-service/config"
	saledomain "sales-service/domain/sale"
	"sales-service/domain/shared"
	"sales-service/infrastructure/persistence/mocks"
	"sales-service/infrastructure/persistence/mysql"
	"sales-service/infrastructure/persistence/retry"
	"sales-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired service and its HTTP server.
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	db     *gorm.DB
}

// NewApp wires the application from configuration. The database type
// selects the persistence layer: "mysql" uses GORM against MySQL, anything
// else uses the in-memory repository with seed data.
func NewApp(cfg *config.Config) *App {
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env))

	var (
		db         *gorm.DB
		saleRepo   saledomain.Repository
		uowFactory shared.UnitOfWorkFactory
	)

	if cfg.Database.Type == "mysql" {
		db, saleRepo, uowFactory = initMySQL(cfg)
	} else {
		logger.Info("using in-memory persistence layer")
		saleRepo = mocks.NewMockSaleRepository()
		uowFactory = mocks.NewMockUnitOfWorkFactory()
	}

	saleService := saleapp.NewApplicationService(saleRepo, uowFactory)

	healthController := health.NewController(cfg, sqlDB(db))
	saleController := apisale.NewController(saleService)

	router := api.NewRouter(cfg, healthController, saleController)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config: cfg,
		router: router,
		server: server,
		db:     db,
	}
}

func initMySQL(cfg *config.Config) (*gorm.DB, saledomain.Repository, shared.UnitOfWorkFactory) {
	logger.Info("using MySQL/GORM persistence layer")

	db, err := NewMySQLConfig(cfg).Connect()
	if err != nil {
		logger.Fatal("failed to connect to MySQL", zap.Error(err))
	}

	underlying, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	if err := underlying.Ping(); err != nil {
		logger.Fatal("failed to ping MySQL", zap.Error(err))
	}

	// Schema migration runs automatically in development only.
	if cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto migrate", zap.Error(err))
		}
	}

	saleRepo := mysql.NewSaleRepository(db)
	uowFactory := mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg))

	return db, saleRepo, uowFactory
}

func sqlDB(db *gorm.DB) *sql.DB {
	if db == nil {
		return nil
	}
	underlying, err := db.DB()
	if err != nil {
		return nil
	}
	return underlying
}

// Run serves until the context is cancelled, then shuts down gracefully
// within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if db := sqlDB(a.db); db != nil {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}

	if err := logger.Sync(); err != nil {
		fmt.Printf("failed to sync logger: %v\n", err)
	}

	logger.Info("server stopped")
	return nil
}

// GetEngine exposes the gin engine for tests.
func (a *App) GetEngine() http.Handler {
	return a.router.GetEngine()
}
