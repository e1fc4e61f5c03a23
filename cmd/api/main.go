package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/application/service"
	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/internal/infrastructure/backend"
	"github.com/sangkips/pharmabill-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/pharmabill-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/middleware"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/routes"
	"github.com/sangkips/pharmabill-api/pkg/printer"
	"github.com/sangkips/pharmabill-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second signal during draining kills the process
		<-ctx.Done()
		stop()
	}()

	// Initialize repositories
	var (
		submissionRepo  repository.SubmissionRepository
		idempotencyRepo repository.IdempotencyRepository
	)
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		submissionRepo = infraRepo.NewSubmissionRepository(db)
		idempotencyRepo = infraRepo.NewIdempotencyRepository(db)
	} else {
		log.Println("Database disabled, keeping submissions in memory")
		submissionRepo = infraRepo.NewMemorySubmissionRepository()
		idempotencyRepo = infraRepo.NewMemoryIdempotencyRepository()
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiryHours)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	backendProvider := backend.NewProvider(&cfg.Backend)
	submissionService := service.NewSubmissionService(submissionRepo, &cfg.Backend)
	printerService := service.NewPrinterService(thermalPrinter, &cfg.Printer, &cfg.Store)
	billingService := service.NewBillingService(backendProvider, submissionService, printerService, &cfg.Billing)

	// Background housekeeping
	rateLimiter := middleware.NewOperatorRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	go rateLimiter.StartCleanup(ctx.Done())
	go billingService.StartCleanup(ctx, 10*time.Minute)
	go middleware.StartIdempotencyCleanup(ctx, idempotencyRepo, time.Hour)

	// Initialize handlers
	handlers := &routes.Handlers{
		Billing: handler.NewBillingHandler(billingService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, backend: %s", cfg.App.Env, cfg.Backend.BaseURL)

	if err := serve(ctx, srv, shutdownTimeout(&cfg.Backend)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for
// at most drain before returning.
func serve(ctx context.Context, srv *http.Server, drain time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return <-errCh
}

// shutdownTimeout is how long a draining server waits for in-flight requests
func shutdownTimeout(cfg *config.BackendConfig) time.Duration {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return timeout * time.Duration(cfg.MaxRetries+1)
}
