package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/careerwatch/internal/detect"
	"github.com/amishk599/careerwatch/internal/model"
)

// vendorLinkRegex finds absolute URLs pointing at a known ATS domain
// embedded anywhere in a careers page.
var vendorLinkRegex = regexp.MustCompile(
	`https?://[^\s"'<>]*(?:greenhouse\.io|lever\.co|myworkdayjobs\.com|ashbyhq\.com|smartrecruiters\.com|workable\.com)[^\s"'<>]*`)

// Generic reads a company's own careers page. Phase 1 extracts JSON-LD
// JobPosting blocks; phase 2 looks for embedded links to known ATS boards
// and delegates to the matching vendor connector. A page with neither is a
// valid empty result, not an error.
type Generic struct {
	relay    model.Relay
	registry Registry
}

func NewGeneric(relay model.Relay, registry Registry) *Generic {
	return &Generic{relay: relay, registry: registry}
}

func (c *Generic) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	if row.Careers == "" {
		return nil, fmt.Errorf("generic fetch for %s: careers URL is required", row.Company)
	}

	html, err := c.relay.GetText(ctx, row.Careers)
	if err != nil {
		return nil, fmt.Errorf("generic fetch for %s: %w", row.Company, err)
	}

	if postings := extractJSONLDPostings(html, row.Company); len(postings) > 0 {
		return postings, nil
	}

	for _, link := range findVendorLinks(html) {
		parsed := detect.ParseVendorURL(link)
		if !parsed.OK {
			continue
		}
		delegate := model.CompanyRow{
			Company: row.Company,
			Source:  parsed.Source,
			Slug:    parsed.Slug,
			Host:    parsed.Host,
			Tenant:  parsed.Tenant,
			Board:   parsed.Board,
		}
		if !delegate.Configured() {
			continue
		}
		conn, ok := c.registry[parsed.Source]
		if !ok {
			continue
		}
		postings, err := conn.Fetch(ctx, delegate)
		if err != nil {
			continue
		}
		return postings, nil
	}

	return nil, nil
}

// extractJSONLDPostings parses every ld+json script block and maps nodes of
// type JobPosting. Malformed blocks are skipped; remaining blocks still
// count.
func extractJSONLDPostings(html, companyFallback string) []model.JobPosting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var postings []model.JobPosting
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return
		}
		for _, node := range flattenJSONLD(parsed) {
			if p, ok := postingFromJSONLD(node, companyFallback); ok {
				postings = append(postings, p)
			}
		}
	})
	return postings
}

// flattenJSONLD unwraps top-level arrays and @graph containers into a flat
// node list.
func flattenJSONLD(parsed any) []map[string]any {
	var nodes []map[string]any
	switch t := parsed.(type) {
	case []any:
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				nodes = append(nodes, m)
			}
		}
	case map[string]any:
		if graph, ok := t["@graph"].([]any); ok {
			for _, e := range graph {
				if m, ok := e.(map[string]any); ok {
					nodes = append(nodes, m)
				}
			}
			return nodes
		}
		nodes = append(nodes, t)
	}
	return nodes
}

func isJobPostingType(node map[string]any) bool {
	t, ok := node["@type"]
	if !ok {
		t = node["type"]
	}
	var types []string
	switch v := t.(type) {
	case string:
		types = []string{v}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				types = append(types, s)
			}
		}
	}
	for _, s := range types {
		if strings.Contains(strings.ToLower(s), "jobposting") {
			return true
		}
	}
	return false
}

// postingFromJSONLD maps one JSON-LD node to a JobPosting using the
// vendor-agnostic schema.org field names.
func postingFromJSONLD(node map[string]any, companyFallback string) (model.JobPosting, bool) {
	if !isJobPostingType(node) {
		return model.JobPosting{}, false
	}

	title := firstString(node, "title", "name")
	if title == "" {
		return model.JobPosting{}, false
	}

	url := firstString(node, "url", "applyUrl")
	org := companyFallback
	if ho, ok := node["hiringOrganization"].(map[string]any); ok {
		if name, _ := ho["name"].(string); name != "" {
			org = name
		}
	}

	location := joinLocation(node["jobLocation"])
	posted := firstString(node, "datePosted", "datePublished", "validFrom")
	department := firstString(node, "department")

	var postedAt *time.Time
	if posted != "" {
		postedAt = parseRFC3339(posted)
		if postedAt == nil {
			if t, err := time.Parse("2006-01-02", posted); err == nil {
				postedAt = &t
			}
		}
	}

	// No vendor-native id exists here; hash the natural key so the id is
	// stable across runs.
	key := fmt.Sprintf("%s:%s:%s:%s", org, title, url, posted)

	return model.JobPosting{
		ID:         fmt.Sprintf("generic:%s", hashKey(key)),
		Company:    org,
		Source:     model.SourceGeneric,
		Title:      title,
		Location:   location,
		Department: department,
		URL:        url,
		PostedAt:   postedAt,
	}, true
}

func hashKey(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	return fmt.Sprintf("%x", h.Sum64())
}

// findVendorLinks scans raw HTML for ATS URLs, deduplicated in document
// order, with trailing quote/bracket junk trimmed.
func findVendorLinks(html string) []string {
	seen := make(map[string]bool)
	var links []string
	for _, m := range vendorLinkRegex.FindAllString(html, -1) {
		u := strings.TrimRight(m, `"')]`)
		if seen[u] {
			continue
		}
		seen[u] = true
		links = append(links, u)
	}
	return links
}
