package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/config"
	"github.com/chris/coin-wallet-ledger/pkg/projector"
	"github.com/chris/coin-wallet-ledger/pkg/wallet"
	"github.com/urfave/cli/v2"
)

// deps are the services a command runs against.
type deps struct {
	wallet     *wallet.Service
	projector  *projector.Projector
	staleAfter time.Duration
}

type depsLoader func(c *cli.Context) (*deps, error)

func main() {
	if err := newApp(os.Stdout, loadDeps).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadDeps(c *cli.Context) (*deps, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(os.Stderr)

	store, err := cfg.OpenStore(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StorageDriver, err)
	}
	return &deps{
		wallet:     wallet.New(store, wallet.WithLogger(logger), wallet.WithMaxAttempts(cfg.WalletMaxAttempts)),
		projector:  projector.New(store, projector.WithLogger(logger), projector.WithMaxAttempts(cfg.WalletMaxAttempts)),
		staleAfter: cfg.StalePendingAfter,
	}, nil
}

func newApp(out io.Writer, load depsLoader) *cli.App {
	// run loads the dependencies and hands them to action.
	run := func(action func(ctx context.Context, c *cli.Context, d *deps) (any, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			d, err := load(c)
			if err != nil {
				return err
			}
			result, err := action(c.Context, c, d)
			if result != nil {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(result); encErr != nil {
					return encErr
				}
			}
			var exit cli.ExitCoder
			if errors.As(err, &exit) {
				return err
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("%s: %v", wallet.Code(err), err), 1)
			}
			return nil
		}
	}

	accountArg := func(c *cli.Context) (string, error) {
		if c.NArg() != 1 {
			return "", cli.Exit("expected exactly one ACCOUNT_ID", 2)
		}
		return c.Args().First(), nil
	}

	return &cli.App{
		Name:   "walletctl",
		Usage:  "operate on the coin wallet ledger",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "load settings from this .env file"},
		},
		Commands: []*cli.Command{
			{
				Name:      "balance",
				Usage:     "print the cached balance of an account",
				ArgsUsage: "ACCOUNT_ID",
				Action: run(func(ctx context.Context, c *cli.Context, d *deps) (any, error) {
					id, err := accountArg(c)
					if err != nil {
						return nil, err
					}
					return d.wallet.GetAccount(ctx, id)
				}),
			},
			{
				Name:      "history",
				Usage:     "print the transaction history of an account",
				ArgsUsage: "ACCOUNT_ID",
				Action: run(func(ctx context.Context, c *cli.Context, d *deps) (any, error) {
					id, err := accountArg(c)
					if err != nil {
						return nil, err
					}
					return d.wallet.ListTransactions(ctx, id)
				}),
			},
			{
				Name:      "recompute",
				Usage:     "sum the completed ledger entries of an account without changing anything",
				ArgsUsage: "ACCOUNT_ID",
				Action: run(func(ctx context.Context, c *cli.Context, d *deps) (any, error) {
					id, err := accountArg(c)
					if err != nil {
						return nil, err
					}
					balance, err := d.projector.Recompute(ctx, id)
					if err != nil {
						return nil, err
					}
					return map[string]any{"account_id": id, "recomputed": balance}, nil
				}),
			},
			{
				Name:      "reconcile",
				Usage:     "correct drift between cached balances and the ledger",
				ArgsUsage: "[ACCOUNT_ID]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "reconcile every account"},
				},
				Action: run(func(ctx context.Context, c *cli.Context, d *deps) (any, error) {
					if c.Bool("all") {
						return d.projector.ReconcileAll(ctx)
					}
					id, err := accountArg(c)
					if err != nil {
						return nil, err
					}
					return d.projector.Reconcile(ctx, id)
				}),
			},
			{
				Name:  "sweep",
				Usage: "fail pending transactions abandoned by crashed callers",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "older-than", Usage: "age after which a pending transaction is abandoned (default STALE_PENDING_AFTER)"},
				},
				Action: run(func(ctx context.Context, c *cli.Context, d *deps) (any, error) {
					olderThan := d.staleAfter
					if c.IsSet("older-than") {
						olderThan = c.Duration("older-than")
					}
					swept, err := d.projector.SweepStalePending(ctx, olderThan)
					return map[string]any{"swept": swept}, err
				}),
			},
			{
				Name:      "adjust",
				Usage:     "record an operator correction",
				ArgsUsage: "ACCOUNT_ID",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "amount", Usage: "signed number of coins", Required: true},
					&cli.StringFlag{Name: "reference", Usage: "idempotency reference", Required: true},
					&cli.StringFlag{Name: "description", Usage: "reason for the correction", Required: true},
				},
				Action: run(func(ctx context.Context, c *cli.Context, d *deps) (any, error) {
					id, err := accountArg(c)
					if err != nil {
						return nil, err
					}
					return d.wallet.Adjust(ctx, id, c.Int64("amount"), c.String("reference"), c.String("description"))
				}),
			},
		},
	}
}
