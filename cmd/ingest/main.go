// Command ingest is the season collection CLI.
//
// Usage:
//
//	scoracle-ingest
//	scoracle-ingest collect --season 2024 --season 2023 --league 39
//	scoracle-ingest show --season 2024 --stats
//	scoracle-ingest load --season 2024 --league 39
//	scoracle-ingest schedule --cron "0 0 6 * * *"
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

	"github.com/albapepper/scoracle-collector/internal/collector"
	"github.com/albapepper/scoracle-collector/internal/config"
	"github.com/albapepper/scoracle-collector/internal/db"
	"github.com/albapepper/scoracle-collector/internal/scheduler"
	"github.com/albapepper/scoracle-collector/internal/table"
	"github.com/albapepper/scoracle-collector/internal/warehouse"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd().Execute(); err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scoracle-ingest",
		Short: "Collect football team statistics into season files",
		Long: "Without a subcommand, collects COLLECT_SEASONS (default 2024,2023) " +
			"for DEFAULT_LEAGUE (default 39).",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(func(ctx context.Context, cfg *config.Config, c *collector.Collector) error {
				return collectSeasons(ctx, c, cfg.CollectSeasons, cfg.DefaultLeague)
			})
		},
	}

	root.AddCommand(collectCmd())
	root.AddCommand(showCmd())
	root.AddCommand(loadCmd())
	root.AddCommand(scheduleCmd())
	return root
}

// --------------------------------------------------------------------------
// collect command
// --------------------------------------------------------------------------

func collectCmd() *cobra.Command {
	var (
		seasons []int
		league  int
	)
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect one or more seasons of a league",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(func(ctx context.Context, cfg *config.Config, c *collector.Collector) error {
				if len(seasons) == 0 {
					seasons = cfg.CollectSeasons
				}
				if !cmd.Flags().Changed("league") {
					league = cfg.DefaultLeague
				}
				return collectSeasons(ctx, c, seasons, league)
			})
		},
	}
	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Season year (repeatable; default COLLECT_SEASONS)")
	cmd.Flags().IntVar(&league, "league", config.DefaultLeague, "League ID (default DEFAULT_LEAGUE)")
	return cmd
}

func collectSeasons(ctx context.Context, c *collector.Collector, seasons []int, league int) error {
	logger.Info("Collecting seasons", "seasons", seasons, "league", league)
	start := time.Now()
	results, err := c.Run(ctx, seasons, league)
	for _, r := range results {
		logger.Info("Season saved", "summary", r.Summary())
	}
	if err != nil {
		return err
	}
	logger.Info("Collection finished", "seasons", len(results), "duration", time.Since(start).Round(time.Second))
	return nil
}

// --------------------------------------------------------------------------
// load command
// --------------------------------------------------------------------------

func loadCmd() *cobra.Command {
	var season, league int
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a collected season into the Postgres warehouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, cancel, err := setup()
			if err != nil {
				return err
			}
			defer cancel()
			if !cmd.Flags().Changed("league") {
				league = cfg.DefaultLeague
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			layout := table.Layout{Dir: cfg.DataDir}
			roster, err := table.Read(ctx, layout.RosterPath(season, league))
			if err != nil {
				return fmt.Errorf("read roster: %w", err)
			}
			stats, err := table.Read(ctx, layout.StatsPath(season, league))
			if err != nil {
				return fmt.Errorf("read team stats: %w", err)
			}

			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			server, err := pool.Server(ctx)
			if err != nil {
				return err
			}
			logger.Info("Database connected", "database", server.Database, "version", server.Version)

			if err := warehouse.EnsureSchema(ctx, pool.Pool); err != nil {
				return err
			}
			result, err := warehouse.LoadSeason(ctx, pool.Pool, season, league, roster, stats)
			if err != nil {
				return err
			}
			logger.Info("Warehouse load finished", "summary", result.Summary())
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", config.DefaultSeasons[0], "Season year")
	cmd.Flags().IntVar(&league, "league", config.DefaultLeague, "League ID (default DEFAULT_LEAGUE)")
	return cmd
}

// --------------------------------------------------------------------------
// schedule command
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Collect COLLECT_SEASONS on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(func(ctx context.Context, cfg *config.Config, c *collector.Collector) error {
				s, err := scheduler.New(spec, func(ctx context.Context) error {
					return collectSeasons(ctx, c, cfg.CollectSeasons, cfg.DefaultLeague)
				}, logger)
				if err != nil {
					return err
				}
				return s.Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "0 0 6 * * *", "Cron spec with a leading seconds field")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// setup loads configuration and returns a context cancelled on interrupt.
func setup() (context.Context, *config.Config, context.CancelFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	return ctx, cfg, cancel, nil
}

// runCollect validates the upstream settings and builds the collector.
func runCollect(fn func(ctx context.Context, cfg *config.Config, c *collector.Collector) error) error {
	ctx, cfg, cancel, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	if err := cfg.RequireUpstream(); err != nil {
		return err
	}
	return fn(ctx, cfg, collector.NewFromConfig(cfg, logger))
}
