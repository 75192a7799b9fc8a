package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/coin-wallet-ledger/pkg/config"
	"github.com/chris/coin-wallet-ledger/pkg/projector"
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
	sqsScheduler, err := cfg.OpenScheduler(context.Background())
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	s := &sweeper{
		store:     store,
		projector: projector.New(store, projector.WithLogger(logger)),
		scheduler: sqsScheduler,
		olderThan: cfg.StalePendingAfter,
		logger:    logger,
	}
	lambda.Start(s.HandleRequest)
}

