package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerwatch/internal/detect"
	"github.com/amishk599/careerwatch/internal/model"
)

var (
	detectSave      bool
	detectNoWorkday bool
)

var detectCmd = &cobra.Command{
	Use:   "detect [company ...]",
	Short: "Detect which ATS unconfigured companies use",
	Long: "Runs the detection cascade (careers URL parsing, slug probes across vendor APIs, Workday host search) " +
		"for every unconfigured company row, or only the named ones. With --save the resolved identifiers are " +
		"written back into the config file.",
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectSave, "save", false, "write detected identifiers back to the config file")
	detectCmd.Flags().BoolVar(&detectNoWorkday, "no-workday", false, "skip the slow Workday host search")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	wanted := make(map[string]bool, len(args))
	for _, a := range args {
		wanted[strings.ToLower(a)] = true
	}

	detector := detect.NewDetector(buildRelay(cfg), cfg.Detect.Stopwords, cfg.Detect.WorkdayHosts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolved := 0
	examined := 0
	for i, row := range cfg.Companies {
		if len(wanted) > 0 && !wanted[strings.ToLower(row.Company)] {
			continue
		}
		if len(wanted) == 0 && row.Configured() {
			continue
		}
		examined++

		res := detector.Detect(ctx, row, !detectNoWorkday)
		if !res.OK {
			fmt.Printf("%-25s no ATS detected\n", row.Company)
			continue
		}
		resolved++
		fmt.Printf("%-25s %-15s %s\n", row.Company, res.Source, describeResult(res))

		if detectSave {
			cfg.Companies[i] = applyResult(row, res)
		}
	}

	if examined == 0 {
		fmt.Println("nothing to detect: all companies are configured")
		return nil
	}
	fmt.Printf("\ndetected %d of %d\n", resolved, examined)

	if detectSave && resolved > 0 {
		path := cfgPath
		if path == "" {
			path = "config.yaml"
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("config updated", "path", path)
	}
	return nil
}

func describeResult(res model.DetectionResult) string {
	if res.Source == model.SourceWorkday {
		tenant := res.Tenant
		if tenant == "" {
			tenant = "(tenant unknown)"
		}
		return fmt.Sprintf("host=%s tenant=%s (%d jobs sampled)", res.Host, tenant, res.JobCount)
	}
	return fmt.Sprintf("slug=%s (%d jobs sampled)", res.Slug, res.JobCount)
}

// applyResult fills the row's identifier fields from a detection hit without
// touching what is already set.
func applyResult(row model.CompanyRow, res model.DetectionResult) model.CompanyRow {
	row.Source = res.Source
	if res.Slug != "" {
		row.Slug = res.Slug
	}
	if res.Host != "" {
		row.Host = res.Host
	}
	if res.Tenant != "" {
		row.Tenant = res.Tenant
	}
	if res.Board != "" && row.Board == "" {
		row.Board = res.Board
	}
	return row
}
