package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby job board API response.
type ashbyJob struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Team        string `json:"team"`
	JobURL      string `json:"jobUrl"`
	ApplyURL    string `json:"applyUrl"`
	PublishedAt string `json:"publishedAt"`
	UpdatedAt   string `json:"updatedAt"`
	Department  struct {
		Name string `json:"name"`
	} `json:"department"`
}

// ashbyResponse covers both response shapes Ashby serves: a flat jobs array
// and a sectioned job board.
type ashbyResponse struct {
	Jobs     []ashbyJob `json:"jobs"`
	JobBoard struct {
		Sections []struct {
			Jobs []ashbyJob `json:"jobs"`
		} `json:"sections"`
	} `json:"jobBoard"`
}

// Ashby fetches jobs from the Ashby public job board API.
type Ashby struct {
	relay model.Relay
}

func NewAshby(relay model.Relay) *Ashby {
	return &Ashby{relay: relay}
}

// Fetch retrieves all jobs for the row's board slug and normalizes them.
func (c *Ashby) Fetch(ctx context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	slug := strings.ToLower(row.Slug)
	url := fmt.Sprintf("%s/%s", ashbyBaseURL, slug)

	var resp ashbyResponse
	if err := c.relay.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", slug, err)
	}

	jobs := resp.Jobs
	for _, s := range resp.JobBoard.Sections {
		jobs = append(jobs, s.Jobs...)
	}

	postings := make([]model.JobPosting, 0, len(jobs))
	for i, aj := range jobs {
		nativeID := aj.ID
		if nativeID == "" {
			nativeID = aj.JobID
		}
		if nativeID == "" {
			nativeID = fmt.Sprintf("%d", i)
		}

		department := aj.Department.Name
		if department == "" {
			department = aj.Team
		}

		jobURL := aj.JobURL
		if jobURL == "" {
			jobURL = aj.ApplyURL
		}

		p := model.JobPosting{
			ID:         fmt.Sprintf("ashby:%s:%s", slug, nativeID),
			Company:    row.Company,
			Source:     model.SourceAshby,
			Title:      aj.Title,
			Location:   aj.Location,
			Department: department,
			URL:        jobURL,
		}
		p.PostedAt = parseRFC3339(aj.PublishedAt, aj.UpdatedAt)

		postings = append(postings, p)
	}

	return postings, nil
}
