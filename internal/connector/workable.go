package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

const workablePageLimit = 200

// workableJob represents one job in the Workable v3 accounts API response.
type workableJob struct {
	ID             json.Number `json:"id"`
	Shortcode      string      `json:"shortcode"`
	Title          string      `json:"title"`
	Department     string      `json:"department"`
	Published      string      `json:"published"`
	Updated        string      `json:"updated"`
	ApplicationURL string      `json:"application_url"`
	Shortlink      string      `json:"shortlink"`
	URL            string      `json:"url"`
	Location       struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
}

type workableResponse struct {
	Results []workableJob `json:"results"`
}

// Workable fetches jobs from the Workable public accounts API.
type Workable struct {
	relay model.Relay
}

func NewWorkable(relay model.Relay) *Workable {
	return &Workable{relay: relay}
}

// Fetch retrieves jobs for the row's account slug and normalizes them.
func (c *Workable) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	slug := strings.ToLower(row.Slug)
	url := fmt.Sprintf("https://apply.workable.com/api/v3/accounts/%s/jobs?limit=%d", slug, workablePageLimit)

	var resp workableResponse
	if err := c.relay.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("workable fetch for %s: %w", slug, err)
	}

	postings := make([]model.JobPosting, 0, len(resp.Results))
	for i, wj := range resp.Results {
		nativeID := wj.ID.String()
		if nativeID == "" {
			nativeID = wj.Shortcode
		}
		if nativeID == "" {
			nativeID = fmt.Sprintf("%d", i)
		}

		jobURL := wj.ApplicationURL
		if jobURL == "" {
			jobURL = wj.Shortlink
		}
		if jobURL == "" {
			jobURL = wj.URL
		}

		p := model.JobPosting{
			ID:         fmt.Sprintf("workable:%s:%s", slug, nativeID),
			Company:    row.Company,
			Source:     model.SourceWorkable,
			Title:      wj.Title,
			Location:   joinParts(wj.Location.City, wj.Location.Region, wj.Location.Country),
			Department: wj.Department,
			URL:        jobURL,
		}
		p.PostedAt = parseRFC3339(wj.Published, wj.Updated)

		postings = append(postings, p)
	}

	return postings, nil
}
