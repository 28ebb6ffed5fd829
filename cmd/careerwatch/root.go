package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerwatch/internal/aggregate"
	"github.com/amishk599/careerwatch/internal/config"
	"github.com/amishk599/careerwatch/internal/connector"
	"github.com/amishk599/careerwatch/internal/model"
	"github.com/amishk599/careerwatch/internal/notifier"
	"github.com/amishk599/careerwatch/internal/ratelimit"
	"github.com/amishk599/careerwatch/internal/relay"
	"github.com/amishk599/careerwatch/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "careerwatch",
	Short: "Watch company career pages across ATS backends",
	Long:  "Careerwatch aggregates job postings from Greenhouse, Lever, Ashby, SmartRecruiters, Workable, Workday and plain careers pages, and tracks what is new since the last check.",
	// Default to `fetch` so that `careerwatch` with no args runs one pass.
	RunE: runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CAREERWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > CAREERWATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("CAREERWATCH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildRelay wires the rate-limited relay client all outbound calls share.
func buildRelay(cfg *config.Config) *relay.Client {
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSec, cfg.RateLimit.Burst)
	return relay.New(cfg.Relay.BaseURL, cfg.Relay.Timeout, limiter)
}

func buildAggregator(cfg *config.Config, rc *relay.Client, logger *slog.Logger) *aggregate.Aggregator {
	return aggregate.New(connector.NewRegistry(rc), cfg.Aggregate.Throttle, logger)
}

// buildStore opens the seen store; dry-run mode records nothing so every
// posting inside the window shows as new.
func buildStore(cfg *config.Config, dryRun bool, logger *slog.Logger) (model.SeenStore, error) {
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be marked as seen")
		return store.NewNopStore(), nil
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		httpClient := &http.Client{Timeout: 30 * time.Second}
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}
