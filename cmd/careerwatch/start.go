package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerwatch/internal/scheduler"
	"github.com/amishk599/careerwatch/internal/track"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the aggregation daemon",
	Long:  "Aggregates on the configured interval and notifies about postings that are new since the last pass.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
		"companies", len(cfg.Companies),
		"window", cfg.Aggregate.Window.String(),
	)

	seenStore, err := buildStore(cfg, false, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer seenStore.Close()

	if cfg.Store.Retention > 0 {
		if err := seenStore.Cleanup(cfg.Store.Retention); err != nil {
			logger.Warn("store cleanup failed", "error", err)
		}
	}

	agg := buildAggregator(cfg, buildRelay(cfg), logger)
	tracker := track.NewTracker(seenStore)
	notify := setupNotifier(cfg, logger)

	pass := func(ctx context.Context) error {
		postings, report, err := agg.Run(ctx, cfg.Companies)
		if err != nil {
			return err
		}
		annotated, err := tracker.Annotate(postings, cfg.Aggregate.Window)
		if err != nil {
			return err
		}
		newPostings := onlyNew(annotated)
		logger.Info("pass complete",
			"postings", len(annotated),
			"new", len(newPostings),
			"skipped", report.Skipped(),
			"failures", report.FetchFailures,
		)
		if len(newPostings) > 0 {
			if err := notify.Notify(newPostings); err != nil {
				logger.Error("notify failed", "error", err)
			}
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := scheduler.NewScheduler(pass, cfg.PollingInterval, logger).Run(ctx); err != nil {
		return err
	}
	logger.Info("goodbye")
	return nil
}
