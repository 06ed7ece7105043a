package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/core/services"
	"github.com/sidibemd/mobile_money_app/internal/handlers"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
	"github.com/sidibemd/mobile_money_app/internal/platform/config"
	"github.com/sidibemd/mobile_money_app/internal/platform/tenant"
	"github.com/sidibemd/mobile_money_app/internal/repositories/database/pgsql"
	"github.com/sidibemd/mobile_money_app/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Each partner bank gets its own connection pool over its own database.
	// The same migration set runs against every one of them.
	registry := tenant.NewRegistry()
	for _, bankCode := range cfg.BankCodes {
		databaseURL := cfg.BankDatabaseURLs[bankCode]

		if cfg.RunMigrations {
			if err := runMigrations(logger, bankCode, databaseURL); err != nil {
				logger.Error("Failed to apply migrations", slog.String("bank", bankCode), slog.String("error", err.Error()))
				os.Exit(1)
			}
		}

		pool, err := database.NewPgxPool(context.Background(), databaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("bank", bankCode), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(pool)

		if err := registry.Register(pgsql.NewTenantRepositories(bankCode, pool)); err != nil {
			logger.Error("Failed to register tenant", slog.String("bank", bankCode), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Tenant database connected", slog.String("bank", bankCode))
	}

	// Services are stateless; the tenant handle travels with each request.
	feeService := services.NewFeeService()
	accountService := services.NewAccountService()
	preTransactionService := services.NewPreTransactionService(feeService)
	transactionService := services.NewTransactionService(feeService, preTransactionService)
	userService := services.NewUserService(accountService)
	statementService := services.NewStatementService()

	serviceContainer := &portssvc.ServiceContainer{
		User:           userService,
		Account:        accountService,
		Transaction:    transactionService,
		PreTransaction: preTransactionService,
		Fee:            feeService,
		Statement:      statementService,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.Default(),
		middleware.RateLimit(ipLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, serviceContainer, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Housekeeping sweep for expired reservation codes, per tenant.
	go purgeExpiredReservations(ctx, logger, registry, preTransactionService, cfg.PurgeInterval)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped.")
}

// runMigrations applies all pending migrations to one bank's database. It
// opens a temporary database/sql connection via the pgx stdlib driver so the
// migration tooling stays compatible with the main pool.
func runMigrations(logger *slog.Logger, bankCode, databaseURL string) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("bank", bankCode), slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database: %w", dbErr)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply", slog.String("bank", bankCode))
	} else {
		logger.Info("Database migrations applied", slog.String("bank", bankCode))
	}
	return nil
}

// purgeExpiredReservations sweeps every tenant on a timer, deleting unused
// reservation codes that fell out of the activity window.
func purgeExpiredReservations(
	ctx context.Context,
	logger *slog.Logger,
	registry *tenant.Registry,
	preTransactionService portssvc.PreTransactionSvcFacade,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, bankCode := range registry.BankCodes() {
				tn, ok := registry.Resolve(bankCode)
				if !ok {
					continue
				}
				purged, err := preTransactionService.PurgeExpired(ctx, tn)
				if err != nil {
					logger.Error("Reservation purge failed", slog.String("bank", bankCode), slog.String("error", err.Error()))
					continue
				}
				if purged > 0 {
					logger.Info("Purged expired reservations", slog.String("bank", bankCode), slog.Int64("count", purged))
				}
			}
		}
	}
}
