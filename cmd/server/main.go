package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listkeeper/application"
	"listkeeper/database"
	"listkeeper/domain/contracts"
	"listkeeper/domain/lists"
	"listkeeper/infrastructure/config"
	"listkeeper/infrastructure/repositories"
	"listkeeper/interfaces/web/handlers"
	"listkeeper/interfaces/web/presenters"
	"listkeeper/logging"
	"listkeeper/platform/events"
)

func main() {
	// Initialize configuration
	loadEnvironment()
	cfg, err := config.LoadAppConfigFromEnv()
	if err != nil {
		println("Invalid configuration: " + err.Error())
		os.Exit(1)
	}

	// Initialize logging
	logger := initializeLogging(cfg)

	// Metrics registry shared by storage and list activity
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize database; schema is ready before the server accepts requests
	db := initializeDatabase(cfg, logger, registry)

	// Build dependencies
	deps := buildDependencies(db, logger, registry)

	// Setup routes and start server. The database is closed only after the
	// server has drained.
	router := setupRoutes(deps, cfg)
	startServer(router, cfg, logger)

	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database closed")
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	ListService *application.ListService
	EventBus    *events.ListEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	ListPresenter  *presenters.ListPresenter
	ListHandlers   *handlers.ListHandlers
	SystemHandlers *handlers.SystemHandlers
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB       *database.Database
	Logger   *logging.Logger
	Registry *prometheus.Registry

	// Repositories
	ListRepo contracts.ListRepository

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(&cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_driver", cfg.Database.Driver,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger, registry prometheus.Registerer) *database.Database {
	db, err := database.New(cfg.Database, logger, database.WithMetrics(database.NewMetrics(registry)))
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(listRepo contracts.ListRepository, logger *logging.Logger, registry prometheus.Registerer) *ApplicationServices {
	// Create event bus for list events
	eventBus := events.NewListEventBus()
	events.NewActivityEventHandlers(registry).RegisterHandlers(eventBus)

	sampler, err := lists.NewRandomSampler()
	if err != nil {
		logger.Error("Failed to seed sampler", "error", err)
		os.Exit(1)
	}

	return &ApplicationServices{
		ListService: application.NewListService(listRepo, sampler, eventBus),
		EventBus:    eventBus,
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(db *database.Database, services *ApplicationServices) *PresentationLayer {
	listPresenter := presenters.NewListPresenter()

	return &PresentationLayer{
		ListPresenter:  listPresenter,
		ListHandlers:   handlers.NewListHandlers(services.ListService, listPresenter),
		SystemHandlers: handlers.NewSystemHandlers(db),
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(db *database.Database, logger *logging.Logger, registry *prometheus.Registry) *Dependencies {
	listRepo := repositories.NewSQLListRepository(db)
	services := buildApplicationServices(listRepo, logger, registry)
	presentation := buildPresentationLayer(db, services)

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		Registry:     registry,
		ListRepo:     listRepo,
		Services:     services,
		Presentation: presentation,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps, cfg)

	// List commands
	r.Route("/lists", deps.Presentation.ListHandlers.Routes)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("listkeeper", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	r.Get("/health", deps.Presentation.SystemHandlers.Health)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}

func startServer(router *chi.Mux, cfg *config.AppConfig, logger *logging.Logger) {
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.ShutdownTimeout)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", cfg.HTTPAddr)
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
