package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/credentials"

	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/application/usecase"
	"github.com/openkonto/bank/internal/domain/port"
	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/internal/infrastructure/config"
	infraKafka "github.com/openkonto/bank/internal/infrastructure/kafka"
	"github.com/openkonto/bank/internal/infrastructure/memory"
	infraPostgres "github.com/openkonto/bank/internal/infrastructure/postgres"
	grpcPresentation "github.com/openkonto/bank/internal/presentation/grpc"
	"github.com/openkonto/bank/internal/presentation/rest"
	pkgkafka "github.com/openkonto/bank/pkg/kafka"
	"github.com/openkonto/bank/pkg/observability"
	pkgpostgres "github.com/openkonto/bank/pkg/postgres"
	"github.com/openkonto/bank/pkg/tlsutil"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger.
	logger := observability.InitLogger(cfg.ServiceName, observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	logger.Info("starting ledger service")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	country, err := valueobject.ParseCountry(cfg.Bank.CountryCode)
	if err != nil {
		logger.Error("invalid bank country", "error", err)
		os.Exit(1)
	}
	operating := valueobject.New(country, cfg.Bank.BankCode, cfg.Bank.OperatingAccountNumber)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize HTTP health/metrics endpoints.
	healthHandler := rest.NewHealthHandler(cfg.ServiceName, logger)

	// Select the store backend.
	var ledger port.Ledger
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := pkgpostgres.NewPool(ctx, pkgpostgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database", "database", cfg.Database.Database)

		store := infraPostgres.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}

		healthHandler.AddCheck("database", func() string {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			if err := pkgpostgres.HealthCheck(pingCtx, pool); err != nil {
				return err.Error()
			}
			return "ok"
		})

		ledger = store
	default:
		logger.Info("using in-memory store")
		ledger = memory.NewStore()
	}

	// Initialize the event publisher.
	var publisher port.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
		defer producer.Close()
		publisher = infraKafka.NewPublisher(producer, logger)
		logger.Info("event publishing enabled", "brokers", cfg.Kafka.Brokers)
	} else {
		publisher = infraKafka.NewNopPublisher(logger)
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	// Initialize use cases.
	sessions := session.NewManager()
	handler := grpcPresentation.NewBankHandler(
		usecase.NewOpenAccountUseCase(ledger, publisher, sessions, country, cfg.Bank.BankCode, operating, logger),
		usecase.NewLoginUseCase(ledger, sessions, logger),
		usecase.NewTransferFundsUseCase(ledger, publisher, sessions, logger),
		usecase.NewDepositCashUseCase(ledger, publisher, sessions, operating, logger),
		usecase.NewCloseAccountUseCase(ledger, publisher, sessions, logger),
		usecase.NewChangeCredentialUseCase(ledger, publisher, sessions, logger),
		usecase.NewGetStatementUseCase(ledger, sessions, logger),
	)

	var creds credentials.TransportCredentials
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err = tlsutil.ServerTLSConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load TLS credentials", "error", err)
			os.Exit(1)
		}
		logger.Info("gRPC TLS enabled")
	}

	grpcServer := grpcPresentation.NewServer(handler, cfg.ServiceName, cfg.GRPCPort, creds, logger)

	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers in goroutines.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down servers")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	grpcServer.Stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("ledger service stopped")
}
