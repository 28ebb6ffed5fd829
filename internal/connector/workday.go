package connector

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/careerwatch/internal/model"
)

const (
	workdayPageSize = 200

	// workdaySoftCap stops pagination once the offset passes it.
	// Installations with more than ~1000 open roles are deliberately not
	// fully paginated.
	workdaySoftCap = 1000

	// workdayPageDelay paces page requests within one board.
	workdayPageDelay = 120 * time.Millisecond
)

// workdayListingRequest is the POST body for the jobs listing endpoint.
type workdayListingRequest struct {
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
	AppliedFacets map[string]any `json:"appliedFacets"`
	Locale        string         `json:"locale"`
}

// workdayListing is one posting in the listing response.
type workdayListing struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ExternalPath  string   `json:"externalPath"`
	LocationsText string   `json:"locationsText"`
	PostedOn      string   `json:"postedOn"`
	PostedOnDate  string   `json:"postedOnDate"`
	BulletFields  []string `json:"bulletFields"`
}

type workdayListingResponse struct {
	Total       int              `json:"total"`
	JobPostings []workdayListing `json:"jobPostings"`
}

// Workday fetches jobs from a Workday career site, paginating through the
// tenant's board.
type Workday struct {
	relay     model.Relay
	pageDelay time.Duration
}

func NewWorkday(relay model.Relay) *Workday {
	return &Workday{relay: relay, pageDelay: workdayPageDelay}
}

// Fetch paginates the row's host+tenant+board and normalizes the listings.
// Board defaults to "External".
func (c *Workday) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	if row.Host == "" || row.Tenant == "" {
		return nil, fmt.Errorf("workday fetch for %s: host and tenant are required", row.Company)
	}
	board := row.Board
	if board == "" {
		board = "External"
	}

	listings, err := c.fetchAllListings(ctx, row.Host, row.Tenant, board)
	if err != nil {
		return nil, err
	}

	postings := make([]model.JobPosting, 0, len(listings))
	for i, l := range listings {
		nativeID := ""
		if len(l.BulletFields) > 0 {
			nativeID = l.BulletFields[0]
		}
		if nativeID == "" {
			nativeID = l.ID
		}
		if nativeID == "" {
			nativeID = fmt.Sprintf("%d", i)
		}

		jobURL := ""
		if l.ExternalPath != "" {
			path := l.ExternalPath
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			jobURL = fmt.Sprintf("https://%s%s", row.Host, path)
		}

		p := model.JobPosting{
			ID:       fmt.Sprintf("workday:%s:%s:%s", row.Host, row.Tenant, nativeID),
			Company:  row.Company,
			Source:   model.SourceWorkday,
			Title:    l.Title,
			Location: l.LocationsText,
			URL:      jobURL,
		}
		p.PostedAt = parseRFC3339(l.PostedOnDate)
		if p.PostedAt == nil {
			p.PostedAt = parsePostedOn(l.PostedOn)
		}

		postings = append(postings, p)
	}

	return postings, nil
}

func (c *Workday) fetchAllListings(ctx context.Context, host, tenant, board string) ([]workdayListing, error) {
	url := fmt.Sprintf("https://%s/wday/cxs/%s/%s/jobs", host, tenant, board)

	var all []workdayListing
	offset := 0
	for {
		body := workdayListingRequest{
			Limit:         workdayPageSize,
			Offset:        offset,
			SearchText:    "",
			AppliedFacets: map[string]any{},
			Locale:        "en_US",
		}

		var resp workdayListingResponse
		if err := c.relay.PostJSON(ctx, url, body, &resp); err != nil {
			return nil, fmt.Errorf("workday fetch for %s/%s: %w", tenant, board, err)
		}

		all = append(all, resp.JobPostings...)

		if len(resp.JobPostings) < workdayPageSize {
			break
		}
		offset += workdayPageSize
		if offset > workdaySoftCap {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("workday fetch for %s/%s: %w", tenant, board, ctx.Err())
		case <-time.After(c.pageDelay):
		}
	}

	return all, nil
}

var daysAgoRegex = regexp.MustCompile(`^Posted (\d+) Days? Ago$`)

// parsePostedOn converts Workday's relative posted-on strings ("Posted
// Today", "Posted 3 Days Ago") to an approximate timestamp. "30+ Days" and
// unknown formats yield nil.
func parsePostedOn(postedOn string) *time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch postedOn {
	case "Posted Today":
		return &today
	case "Posted Yesterday":
		t := today.AddDate(0, 0, -1)
		return &t
	}

	matches := daysAgoRegex.FindStringSubmatch(postedOn)
	if matches == nil {
		return nil
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil
	}
	t := today.AddDate(0, 0, -n)
	return &t
}
