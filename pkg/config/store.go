package config

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/coin-wallet-ledger/pkg/scheduler"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	dydbstore "github.com/chris/coin-wallet-ledger/pkg/storage/dynamodb"
	"github.com/chris/coin-wallet-ledger/pkg/storage/memory"
	"github.com/chris/coin-wallet-ledger/pkg/storage/sqlstore"
)

// OpenStore connects the ledger store selected by StorageDriver.
func (c *Config) OpenStore(ctx context.Context) (storage.LedgerStore, error) {
	switch c.StorageDriver {
	case DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return dydbstore.New(dynamodb.NewFromConfig(awsCfg), c.AccountsTableName, c.TransactionsTableName, c.ClaimsTableName), nil
	case DriverPostgres, DriverSQLite:
		return sqlstore.Open(c.StorageDriver, c.DatabaseDSN)
	case DriverMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
}

// OpenScheduler connects the SQS reconciliation queue.
func (c *Config) OpenScheduler(ctx context.Context) (*scheduler.SQSScheduler, error) {
	if c.SQSQueueURL == "" {
		return nil, fmt.Errorf("SQS_QUEUE_URL environment variable not set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), c.SQSQueueURL), nil
}
