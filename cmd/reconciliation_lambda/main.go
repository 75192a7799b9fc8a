package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/coin-wallet-ledger/pkg/config"
	"github.com/chris/coin-wallet-ledger/pkg/metrics"
	"github.com/chris/coin-wallet-ledger/pkg/projector"
)

func main() {
	// Load environment variables for local testing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := cfg.NewLogger(os.Stdout)

	store, err := cfg.OpenStore(context.Background())
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StorageDriver, err)
	}

	r := &reconciler{
		projector: projector.New(store,
			projector.WithLogger(logger),
			projector.WithMetrics(metrics.New(cfg.MetricsNamespace)),
			projector.WithMaxAttempts(cfg.WalletMaxAttempts),
		),
		logger: logger,
	}
	lambda.Start(r.HandleRequest)
}
