package main

import (
	"context"
	"customer-service/internal/api"
	"customer-service/internal/api/validation"
	"customer-service/internal/batch"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/database/postgres"
	"customer-service/internal/infrastructure/logging"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
)

const (
	defaultStatsSchedule  = "*/5 * * * *"
	defaultStatsTimeout   = 30 * time.Second
	defaultShutdownWindow = 20 * time.Second
	cronStopTimeout       = 15 * time.Second
	serverExitTimeout     = 5 * time.Second
)

// @title Customer Service API
// @version 1.0
// @description CRUD API for customer records.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	rabbitConn := connectRabbitMQ(cfg.RabbitMQ, logger)
	defer closeRabbitMQ(rabbitConn, logger)

	customerService := initializeServices(dbPool, newEventPublisher(rabbitConn, cfg.RabbitMQ, logger), logger)

	validator, err := validation.New()
	if err != nil {
		logger.Error("Failed to initialize request validator", "error", err)
		os.Exit(1)
	}

	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	statsJob := batch.NewCustomerStatsJob(customerService, logger)
	cronScheduler := startBatchJobs(cfg, logger, statsJob)

	checkDB := func(ctx context.Context) error { return postgres.Ping(ctx, dbPool) }
	router := api.SetupRouter(appCtx, customerService, validator, checkDB, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, cfg.Server.ShutdownTimeout, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "port", cfg.Server.Port)

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// connectRabbitMQ returns nil when event publishing is disabled.
func connectRabbitMQ(cfg config.RabbitMQConfig, logger *slog.Logger) *amqp.Connection {
	if !cfg.Enabled {
		logger.Info("RabbitMQ disabled, customer events will only be logged")
		return nil
	}

	logger.Info("Connecting to RabbitMQ...", "host", cfg.Host, "port", cfg.Port, "vhost", cfg.VHost)
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	logger.Info("RabbitMQ connection established")
	return conn
}

func closeRabbitMQ(conn *amqp.Connection, logger *slog.Logger) {
	if conn == nil {
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		logger.Error("Error closing RabbitMQ connection", "error", err)
	}
}

func newEventPublisher(conn *amqp.Connection, cfg config.RabbitMQConfig, logger *slog.Logger) event.EventPublisher {
	if conn == nil {
		return event.NewLogEventPublisher(logger)
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to initialize RabbitMQ event publisher", "error", err)
		os.Exit(1)
	}
	return publisher
}

func initializeServices(dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) customer.CustomerService {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	transactor := postgres.NewTransactor(dbPool, logger)
	return customer.NewCustomerService(customerRepo, transactor, publisher, logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, timeout time.Duration, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.")
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(cronStopTimeout):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	if timeout <= 0 {
		timeout = defaultShutdownWindow
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(serverExitTimeout):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, statsJob *batch.CustomerStatsJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.CustomerStatsSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultStatsSchedule
		logger.Warn("Customer stats schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.CustomerStatsTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultStatsTimeout
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "CustomerStats")
		jobLogger.Info("Cron triggered: Running customer stats job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := statsJob.Run(ctx); runErr != nil {
			jobLogger.Error("Customer stats job finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule customer stats job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled customer stats job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
