package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

const smartRecruitersPageLimit = 200

// smartRecruitersPosting represents one posting in the public postings API.
type smartRecruitersPosting struct {
	ID           string `json:"id"`
	UUID         string `json:"uuid"`
	Ref          string `json:"ref"`
	Name         string `json:"name"`
	ReleasedDate string `json:"releasedDate"`
	CreatedOn    string `json:"createdOn"`
	ApplyURL     string `json:"applyUrl"`
	Location     struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Department struct {
		Label string `json:"label"`
	} `json:"department"`
}

type smartRecruitersResponse struct {
	Content []smartRecruitersPosting `json:"content"`
}

// SmartRecruiters fetches jobs from the SmartRecruiters public postings API.
type SmartRecruiters struct {
	relay model.Relay
}

func NewSmartRecruiters(relay model.Relay) *SmartRecruiters {
	return &SmartRecruiters{relay: relay}
}

// Fetch retrieves postings for the row's company slug and normalizes them.
func (c *SmartRecruiters) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	slug := strings.ToLower(row.Slug)
	url := fmt.Sprintf("https://api.smartrecruiters.com/v1/companies/%s/postings?limit=%d", slug, smartRecruitersPageLimit)

	var resp smartRecruitersResponse
	if err := c.relay.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("smartrecruiters fetch for %s: %w", slug, err)
	}

	postings := make([]model.JobPosting, 0, len(resp.Content))
	for i, sp := range resp.Content {
		nativeID := sp.ID
		if nativeID == "" {
			nativeID = sp.UUID
		}
		if nativeID == "" {
			nativeID = sp.Ref
		}
		if nativeID == "" {
			nativeID = fmt.Sprintf("%d", i)
		}

		jobURL := sp.ApplyURL
		if jobURL == "" {
			// SmartRecruiters does not always return an apply link; the
			// public board URL is derivable from slug, id and title.
			jobURL = fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s-%s", slug, nativeID, slugify(sp.Name))
		}

		p := model.JobPosting{
			ID:         fmt.Sprintf("smartrecruiters:%s:%s", slug, nativeID),
			Company:    row.Company,
			Source:     model.SourceSmartRecruiters,
			Title:      sp.Name,
			Location:   joinParts(sp.Location.City, sp.Location.Region, sp.Location.Country),
			Department: sp.Department.Label,
			URL:        jobURL,
		}
		p.PostedAt = parseRFC3339(sp.ReleasedDate, sp.CreatedOn)

		postings = append(postings, p)
	}

	return postings, nil
}
