package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/billkazi/billkazi/internal/api"
	"github.com/billkazi/billkazi/internal/auth"
	"github.com/billkazi/billkazi/internal/cache"
	"github.com/billkazi/billkazi/internal/config"
	"github.com/billkazi/billkazi/internal/email"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/pdf"
	"github.com/billkazi/billkazi/internal/repository/firestore"
	"github.com/billkazi/billkazi/internal/service"
	"github.com/billkazi/billkazi/internal/storage"
)

func main() {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.L.Fatalw("failed to load configuration", "error", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		logger.L.Fatalw("failed to initialize logger", "error", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			log.Errorw("failed to initialize sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	fsClient, err := firestore.NewClient(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to connect to firestore", "error", err)
	}
	defer fsClient.Close()

	cache.InitializeInMemoryCache()

	var storageClient *storage.Client
	if cfg.Storage.Bucket != "" {
		if storageClient, err = storage.NewClient(ctx, cfg.Storage, log); err != nil {
			log.Fatalw("failed to initialize object storage", "error", err)
		}
	}

	authService := auth.NewService(cfg)
	emailService := email.NewService(email.NewEmailClient(cfg, log), log)

	params := service.ServiceParams{
		Logger:      log,
		Config:      cfg,
		UserRepo:    firestore.NewUserRepository(fsClient, log),
		ClientRepo:  firestore.NewClientRepository(fsClient, log),
		ProductRepo: firestore.NewProductRepository(fsClient, log),
		InvoiceRepo: firestore.NewInvoiceRepository(fsClient, log),
		Auth:        authService,
		Email:       emailService,
		PDF:         pdf.NewRenderer(log),
		Cache:       cache.GetInMemoryCache(),
		Storage:     storageClient,
	}

	router := api.NewRouter(api.NewHandlers(params), cfg, authService, log)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
	log.Infow("server stopped")
}
