package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amishk599/careerwatch/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse boards API response.
type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	CreatedAt   string `json:"created_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Offices []struct {
		Name string `json:"name"`
	} `json:"offices"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse fetches jobs from the Greenhouse public boards API.
type Greenhouse struct {
	relay model.Relay
}

func NewGreenhouse(relay model.Relay) *Greenhouse {
	return &Greenhouse{relay: relay}
}

// Fetch retrieves all jobs for the row's board slug and normalizes them.
func (c *Greenhouse) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	slug := strings.ToLower(row.Slug)
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, slug)

	var resp greenhouseResponse
	if err := c.relay.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", slug, err)
	}

	postings := make([]model.JobPosting, 0, len(resp.Jobs))
	for i, gj := range resp.Jobs {
		// Offices are more specific than the flat location string when present.
		officeNames := make([]string, 0, len(gj.Offices))
		for _, o := range gj.Offices {
			officeNames = append(officeNames, o.Name)
		}
		location := joinParts(officeNames...)
		if location == "" {
			location = gj.Location.Name
		}

		deptNames := make([]string, 0, len(gj.Departments))
		for _, d := range gj.Departments {
			if d.Name != "" {
				deptNames = append(deptNames, d.Name)
			}
		}

		nativeID := fmt.Sprintf("%d", gj.ID)
		if gj.ID == 0 {
			nativeID = fmt.Sprintf("%d", i)
		}

		p := model.JobPosting{
			ID:         fmt.Sprintf("greenhouse:%s:%s", slug, nativeID),
			Company:    row.Company,
			Source:     model.SourceGreenhouse,
			Title:      gj.Title,
			Location:   location,
			Department: strings.Join(deptNames, " / "),
			URL:        gj.AbsoluteURL,
		}
		p.PostedAt = parseRFC3339(gj.UpdatedAt, gj.CreatedAt)

		postings = append(postings, p)
	}

	return postings, nil
}

// parseRFC3339 returns the first value that parses, or nil.
func parseRFC3339(values ...string) *time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
	}
	return nil
}
