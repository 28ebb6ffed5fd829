// Package detect resolves which ATS backend a company uses, and the
// identifier to query it with, from a pasted URL or just the company name.
package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/amishk599/careerwatch/internal/model"
)

// DefaultWorkdayHosts is the numbered regional host pool probed during the
// last-resort Workday search.
var DefaultWorkdayHosts = workdayHostPool(14)

func workdayHostPool(n int) []string {
	hosts := make([]string, n)
	for i := range hosts {
		hosts[i] = fmt.Sprintf("wd%d.myworkdayjobs.com", i+1)
	}
	return hosts
}

// Detector runs the resolution cascade: URL parsing, then slug-candidate
// probes across vendor APIs in fixed priority order, then the bounded
// Workday host matrix. The first success wins and stops the cascade.
type Detector struct {
	relay        model.Relay
	stopwords    []string
	workdayHosts []string
	logger       *slog.Logger
}

// NewDetector creates a detector. Nil stopwords or workdayHosts select the
// package defaults.
func NewDetector(relay model.Relay, stopwords, workdayHosts []string, logger *slog.Logger) *Detector {
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	if workdayHosts == nil {
		workdayHosts = DefaultWorkdayHosts
	}
	return &Detector{
		relay:        relay,
		stopwords:    stopwords,
		workdayHosts: workdayHosts,
		logger:       logger,
	}
}

type probeFunc func(ctx context.Context, slug string) model.DetectionResult

// Detect resolves the backend for one company row. Probe failures are
// swallowed; a fully exhausted cascade returns OK:false, which is an
// outcome, not an error. Set tryWorkday=false to skip the expensive
// candidates × hosts search.
func (d *Detector) Detect(ctx context.Context, row model.CompanyRow, tryWorkday bool) model.DetectionResult {
	if row.Careers != "" {
		if res := ParseVendorURL(row.Careers); res.OK {
			return res
		}
	}

	candidates := SlugCandidates(row.Company, d.stopwords)
	if len(candidates) == 0 {
		return model.DetectionResult{}
	}

	// Vendor-outer / candidate-inner: an earlier-priority vendor match on
	// any candidate beats a later vendor on an earlier candidate.
	probes := []probeFunc{
		d.probeGreenhouse,
		d.probeLever,
		d.probeAshby,
		d.probeSmartRecruiters,
		d.probeWorkable,
	}
	for _, probe := range probes {
		for _, slug := range candidates {
			if ctx.Err() != nil {
				return model.DetectionResult{}
			}
			if res := probe(ctx, slug); res.OK {
				return res
			}
		}
	}

	if tryWorkday {
		for _, tenant := range candidates {
			for _, host := range d.workdayHosts {
				if ctx.Err() != nil {
					return model.DetectionResult{}
				}
				if res := d.probeWorkday(ctx, host, tenant, "External"); res.OK {
					return res
				}
			}
		}
	}

	return model.DetectionResult{}
}

// Each probe is an authoritative-shape check on the live endpoint: the
// response must parse into the vendor's documented collection shape.

func (d *Detector) probeGreenhouse(ctx context.Context, slug string) model.DetectionResult {
	url := fmt.Sprintf("https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true", slug)
	var resp struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	if err := d.relay.GetJSON(ctx, url, &resp); err != nil {
		d.debug("greenhouse probe miss", slug, err)
		return model.DetectionResult{}
	}
	if resp.Jobs == nil {
		return model.DetectionResult{}
	}
	return model.DetectionResult{OK: true, Source: model.SourceGreenhouse, Slug: slug, JobCount: len(resp.Jobs)}
}

func (d *Detector) probeLever(ctx context.Context, slug string) model.DetectionResult {
	url := fmt.Sprintf("https://api.lever.co/v0/postings/%s?mode=json", slug)
	var postings []json.RawMessage
	if err := d.relay.GetJSON(ctx, url, &postings); err != nil {
		d.debug("lever probe miss", slug, err)
		return model.DetectionResult{}
	}
	return model.DetectionResult{OK: true, Source: model.SourceLever, Slug: slug, JobCount: len(postings)}
}

func (d *Detector) probeAshby(ctx context.Context, slug string) model.DetectionResult {
	url := fmt.Sprintf("https://api.ashbyhq.com/posting-api/job-board/%s", slug)
	var resp struct {
		Jobs     []json.RawMessage `json:"jobs"`
		JobBoard struct {
			Sections []struct {
				Jobs []json.RawMessage `json:"jobs"`
			} `json:"sections"`
		} `json:"jobBoard"`
	}
	if err := d.relay.GetJSON(ctx, url, &resp); err != nil {
		d.debug("ashby probe miss", slug, err)
		return model.DetectionResult{}
	}
	count := len(resp.Jobs)
	for _, s := range resp.JobBoard.Sections {
		count += len(s.Jobs)
	}
	if resp.Jobs == nil && resp.JobBoard.Sections == nil {
		return model.DetectionResult{}
	}
	return model.DetectionResult{OK: true, Source: model.SourceAshby, Slug: slug, JobCount: count}
}

func (d *Detector) probeSmartRecruiters(ctx context.Context, slug string) model.DetectionResult {
	url := fmt.Sprintf("https://api.smartrecruiters.com/v1/companies/%s/postings?limit=1", slug)
	var resp struct {
		Content []json.RawMessage `json:"content"`
	}
	if err := d.relay.GetJSON(ctx, url, &resp); err != nil {
		d.debug("smartrecruiters probe miss", slug, err)
		return model.DetectionResult{}
	}
	if resp.Content == nil {
		return model.DetectionResult{}
	}
	return model.DetectionResult{OK: true, Source: model.SourceSmartRecruiters, Slug: slug, JobCount: len(resp.Content)}
}

func (d *Detector) probeWorkable(ctx context.Context, slug string) model.DetectionResult {
	url := fmt.Sprintf("https://apply.workable.com/api/v3/accounts/%s/jobs?limit=1", slug)
	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := d.relay.GetJSON(ctx, url, &resp); err != nil {
		d.debug("workable probe miss", slug, err)
		return model.DetectionResult{}
	}
	if resp.Results == nil {
		return model.DetectionResult{}
	}
	return model.DetectionResult{OK: true, Source: model.SourceWorkable, Slug: slug, JobCount: len(resp.Results)}
}

func (d *Detector) probeWorkday(ctx context.Context, host, tenant, board string) model.DetectionResult {
	url := fmt.Sprintf("https://%s/wday/cxs/%s/%s/jobs", host, tenant, board)
	body := map[string]any{
		"limit":         1,
		"offset":        0,
		"searchText":    "",
		"appliedFacets": map[string]any{},
		"locale":        "en_US",
	}
	var resp struct {
		JobPostings []json.RawMessage `json:"jobPostings"`
		Jobs        []json.RawMessage `json:"jobs"`
	}
	if err := d.relay.PostJSON(ctx, url, body, &resp); err != nil {
		d.debug("workday probe miss", tenant+"@"+host, err)
		return model.DetectionResult{}
	}
	if resp.JobPostings == nil && resp.Jobs == nil {
		return model.DetectionResult{}
	}
	return model.DetectionResult{
		OK:       true,
		Source:   model.SourceWorkday,
		Host:     host,
		Tenant:   tenant,
		Board:    board,
		JobCount: len(resp.JobPostings) + len(resp.Jobs),
	}
}

func (d *Detector) debug(msg, key string, err error) {
	if d.logger != nil {
		d.logger.Debug(msg, "candidate", key, "error", err)
	}
}
