package model

import (
	"context"
	"time"
)

// Source identifies the ATS backend a company publishes postings on.
type Source string

const (
	SourceGreenhouse      Source = "greenhouse"
	SourceLever           Source = "lever"
	SourceWorkday         Source = "workday"
	SourceAshby           Source = "ashby"
	SourceSmartRecruiters Source = "smartrecruiters"
	SourceWorkable        Source = "workable"
	SourceGeneric         Source = "generic"
)

// SlugSources are the vendors keyed by a single board slug.
var SlugSources = map[Source]bool{
	SourceGreenhouse:      true,
	SourceLever:           true,
	SourceAshby:           true,
	SourceSmartRecruiters: true,
	SourceWorkable:        true,
}

// CompanyRow describes a single company to aggregate postings for.
// Exactly one identifier scheme applies depending on Source: slug vendors
// need Slug, workday needs Host+Tenant (Board defaults to "External"),
// generic needs a Careers URL.
type CompanyRow struct {
	Company string `yaml:"company"`
	Source  Source `yaml:"source,omitempty"`
	Slug    string `yaml:"slug,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Tenant  string `yaml:"tenant,omitempty"`
	Board   string `yaml:"board,omitempty"`
	Careers string `yaml:"careers,omitempty"`
}

// Configured reports whether the row carries everything its source needs.
// Unconfigured rows go to the detector, never to a connector.
func (r CompanyRow) Configured() bool {
	switch {
	case SlugSources[r.Source]:
		return r.Slug != ""
	case r.Source == SourceWorkday:
		return r.Host != "" && r.Tenant != ""
	case r.Source == SourceGeneric:
		return r.Careers != ""
	}
	return false
}

// JobPosting is the unified representation of a posting from any ATS.
// ID is stable across runs for the same natural posting
// ("<vendor>:<slug-or-host:tenant>:<native-id>").
type JobPosting struct {
	ID         string
	Company    string
	Source     Source
	Title      string
	Location   string // flattened city/region/country, comma-joined
	Department string
	URL        string
	PostedAt   *time.Time // nullable (not all vendors provide this)
	FirstSeen  time.Time  // our clock, immutable once recorded
	IsNew      bool       // derived during annotation, never persisted
}

// DetectionResult is the ephemeral outcome of ATS detection for one company.
// A workday match with an empty Tenant means "vendor known, identifier
// unknown" and the caller has to fill the tenant in by hand.
type DetectionResult struct {
	OK       bool
	Source   Source
	Slug     string
	Host     string
	Tenant   string
	Board    string
	JobCount int // sample size from the probe, user feedback only
}

// Connector fetches postings for one configured company row.
type Connector interface {
	Fetch(ctx context.Context, row CompanyRow) ([]JobPosting, error)
}

// Relay forwards outbound HTTP calls through the external proxy collaborator.
type Relay interface {
	GetJSON(ctx context.Context, url string, out any) error
	PostJSON(ctx context.Context, url string, body, out any) error
	GetText(ctx context.Context, url string) (string, error)
}

// SeenStore persists the id -> first-seen map across aggregation passes.
// Entries are append-only: Record never overwrites an existing first-seen.
type SeenStore interface {
	FirstSeen(id string) (time.Time, bool, error)
	Record(id string, firstSeen time.Time) error
	Cleanup(olderThan time.Duration) error
	Len() (int, error)
	Close() error
}

// Notifier announces newly seen postings.
type Notifier interface {
	Notify(postings []JobPosting) error
}

// PostingFilter decides whether a posting is shown to the user.
// Filters only affect display, never fetching.
type PostingFilter interface {
	Match(p JobPosting) bool
}
