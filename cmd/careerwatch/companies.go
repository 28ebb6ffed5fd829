package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerwatch/internal/model"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List all configured companies",
	Long:  "Reads the config and prints a table of all company rows with their configuration status.",
	RunE:  runCompanies,
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("%-25s %-15s %-30s %s\n", "Company", "Source", "Identifier", "Status")
	fmt.Println(strings.Repeat("─", 90))

	configured := 0
	for _, row := range cfg.Companies {
		status := rowStatus(row)
		if status == "configured" {
			configured++
		}
		fmt.Printf("%-25s %-15s %-30s %s\n", row.Company, sourceOrDash(row), identifier(row), status)
	}

	fmt.Printf("\nTotal: %d companies (%d configured, %d need detection)\n",
		len(cfg.Companies), configured, len(cfg.Companies)-configured)
	return nil
}

func sourceOrDash(row model.CompanyRow) string {
	if row.Source == "" {
		return "-"
	}
	return string(row.Source)
}

func identifier(row model.CompanyRow) string {
	switch {
	case model.SlugSources[row.Source] && row.Slug != "":
		return row.Slug
	case row.Source == model.SourceWorkday && row.Host != "":
		return row.Tenant + "@" + row.Host
	case row.Source == model.SourceGeneric && row.Careers != "":
		return row.Careers
	}
	return "-"
}

func rowStatus(row model.CompanyRow) string {
	if row.Configured() {
		return "configured"
	}
	switch {
	case row.Source == "":
		return "missing source"
	case model.SlugSources[row.Source]:
		return "missing slug"
	case row.Source == model.SourceWorkday:
		return "missing host+tenant"
	case row.Source == model.SourceGeneric:
		return "missing careers URL"
	}
	return "unknown source"
}
