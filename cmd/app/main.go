package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/chris/coin-wallet-ledger/pkg/api"
	"github.com/chris/coin-wallet-ledger/pkg/config"
	"github.com/chris/coin-wallet-ledger/pkg/handlers"
	"github.com/chris/coin-wallet-ledger/pkg/handlers/respond"
	"github.com/chris/coin-wallet-ledger/pkg/metrics"
	"github.com/chris/coin-wallet-ledger/pkg/middleware"
	"github.com/chris/coin-wallet-ledger/pkg/projector"
	"github.com/chris/coin-wallet-ledger/pkg/wallet"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)

	store, err := cfg.OpenStore(context.Background())
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StorageDriver, err)
	}

	m := metrics.New(cfg.MetricsNamespace)
	service := wallet.New(store,
		wallet.WithLogger(logger),
		wallet.WithMetrics(m),
		wallet.WithMaxAttempts(cfg.WalletMaxAttempts),
	)
	reconciler := projector.New(store,
		projector.WithLogger(logger),
		projector.WithMetrics(m),
		projector.WithMaxAttempts(cfg.WalletMaxAttempts),
	)

	// Create our handler
	handler := handlers.NewApiHandler(service, reconciler)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Method(http.MethodGet, "/metrics", m.Handler())

	// Use the generated function to mount our handler on the router
	api.HandlerWithOptions(handler, api.ChiServerOptions{
		BaseRouter:       router,
		ErrorHandlerFunc: respond.ParamError,
	})

	logger.Info("starting server", "port", cfg.HTTPPort, "storage", cfg.StorageDriver)

	// Start the server
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
