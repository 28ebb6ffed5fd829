package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amishk599/careerwatch/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverJob represents a single posting in the Lever API response.
type leverJob struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CreatedAt     int64  `json:"createdAt"` // unix milliseconds
	WorkplaceType string `json:"workplaceType"`
	HostedURL     string `json:"hostedUrl"`
	ApplyURL      string `json:"applyUrl"`
	Categories    struct {
		Team         string   `json:"team"`
		Department   string   `json:"department"`
		Location     string   `json:"location"`
		AllLocations []string `json:"allLocations"`
	} `json:"categories"`
}

// Lever fetches jobs from the Lever public postings API.
type Lever struct {
	relay model.Relay
}

func NewLever(relay model.Relay) *Lever {
	return &Lever{relay: relay}
}

// Fetch retrieves all postings for the row's slug and normalizes them.
func (c *Lever) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	slug := strings.ToLower(row.Slug)
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, slug)

	var leverJobs []leverJob
	if err := c.relay.GetJSON(ctx, url, &leverJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", slug, err)
	}

	postings := make([]model.JobPosting, 0, len(leverJobs))
	for i, lj := range leverJobs {
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = joinParts(lj.Categories.AllLocations...)
		}
		if location == "" {
			location = lj.WorkplaceType
		}

		department := lj.Categories.Team
		if department == "" {
			department = lj.Categories.Department
		}

		jobURL := lj.HostedURL
		if jobURL == "" {
			jobURL = lj.ApplyURL
		}

		nativeID := lj.ID
		if nativeID == "" {
			nativeID = fmt.Sprintf("%d", i)
		}

		var postedAt *time.Time
		if lj.CreatedAt > 0 {
			t := time.UnixMilli(lj.CreatedAt).UTC()
			postedAt = &t
		}

		postings = append(postings, model.JobPosting{
			ID:         fmt.Sprintf("lever:%s:%s", slug, nativeID),
			Company:    row.Company,
			Source:     model.SourceLever,
			Title:      lj.Text,
			Location:   location,
			Department: department,
			URL:        jobURL,
			PostedAt:   postedAt,
		})
	}

	return postings, nil
}
