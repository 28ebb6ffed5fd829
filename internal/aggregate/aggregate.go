// Package aggregate drives the per-company fetch loop: validate, dispatch,
// isolate failures, throttle, merge.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/careerwatch/internal/connector"
	"github.com/amishk599/careerwatch/internal/model"
)

// ErrNoCompanies is returned when a pass is invoked with zero rows. It is
// the only aggregation error that propagates; everything per-row is
// swallowed and counted.
var ErrNoCompanies = errors.New("no companies configured")

// Report counts rows that were skipped before fetching, by reason, plus
// fetches that failed. Skips never reach a connector.
type Report struct {
	MissingSource     int
	MissingSlug       int
	MissingHostTenant int
	MissingCareers    int
	UnknownSource     int
	FetchFailures     int
}

// Skipped returns the total number of rows skipped during validation.
func (r Report) Skipped() int {
	return r.MissingSource + r.MissingSlug + r.MissingHostTenant + r.MissingCareers + r.UnknownSource
}

// Message renders the skip counts as one diagnostic line, or "" if nothing
// was skipped.
func (r Report) Message() string {
	var parts []string
	if r.MissingSource > 0 {
		parts = append(parts, fmt.Sprintf("missing source: %d", r.MissingSource))
	}
	if r.MissingSlug > 0 {
		parts = append(parts, fmt.Sprintf("missing slug: %d", r.MissingSlug))
	}
	if r.MissingHostTenant > 0 {
		parts = append(parts, fmt.Sprintf("missing host+tenant: %d", r.MissingHostTenant))
	}
	if r.MissingCareers > 0 {
		parts = append(parts, fmt.Sprintf("missing careers: %d", r.MissingCareers))
	}
	if r.UnknownSource > 0 {
		parts = append(parts, fmt.Sprintf("unknown source: %d", r.UnknownSource))
	}
	if len(parts) == 0 {
		return ""
	}
	return "skipped: " + strings.Join(parts, "; ")
}

// Aggregator fetches postings for a list of company rows, one company at a
// time in input order, with a throttle delay between vendor calls.
type Aggregator struct {
	registry connector.Registry
	throttle time.Duration
	logger   *slog.Logger
}

func New(registry connector.Registry, throttle time.Duration, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		registry: registry,
		throttle: throttle,
		logger:   logger,
	}
}

// Run executes one aggregation pass. One company's failure never aborts the
// batch: fetch errors are logged, counted, and the loop continues.
func (a *Aggregator) Run(ctx context.Context, rows []model.CompanyRow) ([]model.JobPosting, Report, error) {
	if len(rows) == 0 {
		return nil, Report{}, ErrNoCompanies
	}

	var all []model.JobPosting
	var rep Report

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return all, rep, err
		}

		conn, ok := a.validate(row, &rep)
		if !ok {
			continue
		}

		postings, err := conn.Fetch(ctx, row)
		if err != nil {
			rep.FetchFailures++
			a.logger.Warn("fetch failed",
				"company", row.Company,
				"source", row.Source,
				"error", err,
			)
		} else {
			all = append(all, stampCompany(postings, row.Company)...)
			a.logger.Info("fetched company",
				"company", row.Company,
				"source", row.Source,
				"postings", len(postings),
			)
		}

		if a.throttle > 0 && i < len(rows)-1 {
			select {
			case <-ctx.Done():
				return all, rep, ctx.Err()
			case <-time.After(a.throttle):
			}
		}
	}

	if msg := rep.Message(); msg != "" {
		a.logger.Warn(msg)
	}

	return all, rep, nil
}

// validate checks the row's required fields for its source and resolves the
// connector. Failures bump the matching skip counter.
func (a *Aggregator) validate(row model.CompanyRow, rep *Report) (model.Connector, bool) {
	switch {
	case row.Source == "":
		rep.MissingSource++
		return nil, false
	case model.SlugSources[row.Source] && row.Slug == "":
		rep.MissingSlug++
		return nil, false
	case row.Source == model.SourceWorkday && (row.Host == "" || row.Tenant == ""):
		rep.MissingHostTenant++
		return nil, false
	case row.Source == model.SourceGeneric && row.Careers == "":
		rep.MissingCareers++
		return nil, false
	}

	conn, ok := a.registry[row.Source]
	if !ok {
		rep.UnknownSource++
		return nil, false
	}
	return conn, true
}

// stampCompany returns copies of the postings with the row's canonical
// company name substituted. Vendor payloads often carry an office or tenant
// name instead; the configured name wins.
func stampCompany(postings []model.JobPosting, company string) []model.JobPosting {
	out := make([]model.JobPosting, len(postings))
	for i, p := range postings {
		p.Company = company
		out[i] = p
	}
	return out
}
