// Command ledgerctl is the Matchledger admin CLI.
//
// Usage:
//
//	ledgerctl record verify
//	ledgerctl record rebuild
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/modukick/matchledger/internal/config"
	"github.com/modukick/matchledger/internal/db"
	"github.com/modukick/matchledger/internal/record"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Matchledger admin CLI",
	}

	root.AddCommand(recordCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// record command
// --------------------------------------------------------------------------

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Inspect and repair the team record ledger",
	}
	cmd.AddCommand(recordVerifyCmd())
	cmd.AddCommand(recordRebuildCmd())
	return cmd
}

func recordVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute every team's tallies from quarters and report drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				drifts, err := record.Verify(ctx, pool.Pool)
				if err != nil {
					return err
				}
				logger.Info("Verify finished",
					"drifted_teams", len(drifts),
					"duration", time.Since(start).Round(time.Millisecond))
				for _, d := range drifts {
					logger.Warn("ledger drift",
						"team_id", d.TeamID,
						"stored", fmt.Sprintf("%dW %dD %dL %d:%d",
							d.Stored.Wins, d.Stored.Draws, d.Stored.Losses,
							d.Stored.GoalsFor, d.Stored.GoalsAgainst),
						"computed", fmt.Sprintf("%dW %dD %dL %d:%d",
							d.Computed.Wins, d.Computed.Draws, d.Computed.Losses,
							d.Computed.GoalsFor, d.Computed.GoalsAgainst))
				}
				if len(drifts) > 0 {
					return fmt.Errorf("%d team(s) drifted; run `ledgerctl record rebuild` to repair", len(drifts))
				}
				return nil
			})
		},
	}
	return cmd
}

func recordRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rewrite drifted ledger rows from the quarters table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				repaired, err := record.Rebuild(ctx, pool.Pool)
				if err != nil {
					return err
				}
				logger.Info("Rebuild finished",
					"repaired_teams", repaired,
					"duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	return fn(ctx, cfg, pool)
}
