package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerwatch/internal/filter"
	"github.com/amishk599/careerwatch/internal/model"
	"github.com/amishk599/careerwatch/internal/track"
)

var (
	fetchDryRun      bool
	fetchWindowHours int
	fetchNewOnly     bool
	fetchQuery       string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one aggregation pass and print the results",
	Long:  "Fetches postings for every configured company, annotates what is new since the last check, and prints a table.",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "do not mark postings as seen")
	fetchCmd.Flags().IntVar(&fetchWindowHours, "window", 0, "recency window in hours (overrides config)")
	fetchCmd.Flags().BoolVar(&fetchNewOnly, "new", false, "only show postings that are new since the last check")
	fetchCmd.Flags().StringVarP(&fetchQuery, "query", "q", "", "keyword filter applied to the output")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	seenStore, err := buildStore(cfg, fetchDryRun, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer seenStore.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agg := buildAggregator(cfg, buildRelay(cfg), logger)
	postings, report, err := agg.Run(ctx, cfg.Companies)
	if err != nil {
		return err
	}

	window := cfg.Aggregate.Window
	if fetchWindowHours > 0 {
		window = time.Duration(fetchWindowHours) * time.Hour
	}
	annotated, err := track.NewTracker(seenStore).Annotate(postings, window)
	if err != nil {
		return err
	}

	query := fetchQuery
	if query == "" {
		query = strings.Join(cfg.Display.Keywords, " ")
	}
	displayed := filter.New(query, cfg.Display.Sources, cfg.Display.Companies).Apply(annotated)
	if fetchNewOnly {
		displayed = onlyNew(displayed)
	}

	printPostings(displayed)

	newCount := len(onlyNew(annotated))
	fmt.Printf("\n%d postings (%d new, %d shown)\n", len(annotated), newCount, len(displayed))
	if msg := report.Message(); msg != "" {
		fmt.Println(msg)
	}
	return nil
}

func onlyNew(postings []model.JobPosting) []model.JobPosting {
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if p.IsNew {
			out = append(out, p)
		}
	}
	return out
}

func printPostings(postings []model.JobPosting) {
	// Newest first, by posted date falling back to first seen.
	sort.SliceStable(postings, func(i, j int) bool {
		return sortTime(postings[i]).After(sortTime(postings[j]))
	})

	fmt.Printf("%-4s %-20s %-45s %-25s %s\n", "New", "Company", "Title", "Location", "Source")
	fmt.Println(strings.Repeat("─", 110))
	for _, p := range postings {
		mark := ""
		if p.IsNew {
			mark = "*"
		}
		fmt.Printf("%-4s %-20s %-45s %-25s %s\n",
			mark, clip(p.Company, 20), clip(p.Title, 45), clip(p.Location, 25), p.Source)
	}
}

func sortTime(p model.JobPosting) time.Time {
	if p.PostedAt != nil {
		return *p.PostedAt
	}
	return p.FirstSeen
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
