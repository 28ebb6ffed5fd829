package filter

import (
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

// Ensure DisplayFilter implements model.PostingFilter.
var _ model.PostingFilter = (*DisplayFilter)(nil)

// DisplayFilter narrows which postings are shown: every whitespace-split
// keyword must appear somewhere in company+title+location+department
// (case-insensitive), and source/company must be in the selected sets when
// those are non-empty. It is applied after aggregation and never affects
// fetching.
type DisplayFilter struct {
	keywords  []string
	sources   map[model.Source]bool
	companies map[string]bool
}

// New builds a filter from a free-text query and optional source/company
// selections. Empty arguments match everything.
func New(query string, sources []string, companies []string) *DisplayFilter {
	f := &DisplayFilter{
		keywords: strings.Fields(strings.ToLower(query)),
	}
	if len(sources) > 0 {
		f.sources = make(map[model.Source]bool, len(sources))
		for _, s := range sources {
			f.sources[model.Source(strings.ToLower(s))] = true
		}
	}
	if len(companies) > 0 {
		f.companies = make(map[string]bool, len(companies))
		for _, c := range companies {
			f.companies[strings.ToLower(c)] = true
		}
	}
	return f
}

func (f *DisplayFilter) Match(p model.JobPosting) bool {
	if f.sources != nil && !f.sources[p.Source] {
		return false
	}
	if f.companies != nil && !f.companies[strings.ToLower(p.Company)] {
		return false
	}
	if len(f.keywords) > 0 {
		haystack := strings.ToLower(p.Company + " " + p.Title + " " + p.Location + " " + p.Department)
		for _, kw := range f.keywords {
			if !strings.Contains(haystack, kw) {
				return false
			}
		}
	}
	return true
}

// Apply returns the postings that pass the filter.
func (f *DisplayFilter) Apply(postings []model.JobPosting) []model.JobPosting {
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
