package connector

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/careerwatch/internal/model"
)

const greenhousePayload = `{
  "jobs": [
    {
      "id": 12345,
      "title": "Senior Engineer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
      "updated_at": "2026-08-20T10:00:00Z",
      "location": {"name": "Anywhere"},
      "offices": [{"name": "New York"}, {"name": "Remote"}],
      "departments": [{"name": "Engineering"}, {"name": "Platform"}]
    },
    {
      "id": 67890,
      "title": "Designer",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/67890",
      "location": {"name": "Berlin"}
    }
  ]
}`

func TestGreenhouseFetch(t *testing.T) {
	var gotURL string
	relay := &stubRelay{getJSON: func(url string, out any) error {
		gotURL = url
		return jsonInto(greenhousePayload, out)
	}}

	postings, err := NewGreenhouse(relay).Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceGreenhouse, Slug: "Acme",
	})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "https://boards-api.greenhouse.io/v1/boards/acme/jobs?content=true", gotURL,
		"slug must be lowercased in the request")

	p := postings[0]
	assert.Equal(t, "greenhouse:acme:12345", p.ID)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, model.SourceGreenhouse, p.Source)
	assert.Equal(t, "Senior Engineer", p.Title)
	assert.Equal(t, "New York, Remote", p.Location, "offices beat the flat location string")
	assert.Equal(t, "Engineering / Platform", p.Department)
	require.NotNil(t, p.PostedAt)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), p.PostedAt.UTC())

	p = postings[1]
	assert.Equal(t, "greenhouse:acme:67890", p.ID)
	assert.Equal(t, "Berlin", p.Location, "no offices falls back to location.name")
	assert.Empty(t, p.Department)
	assert.Nil(t, p.PostedAt)
}

func TestGreenhouseFetch_IDStableAcrossFetches(t *testing.T) {
	relay := &stubRelay{getJSON: func(_ string, out any) error {
		return jsonInto(greenhousePayload, out)
	}}
	c := NewGreenhouse(relay)
	row := model.CompanyRow{Company: "Acme", Slug: "acme"}

	first, err := c.Fetch(context.Background(), row)
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), row)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGreenhouseFetch_Error(t *testing.T) {
	relay := &stubRelay{getJSON: func(_ string, _ any) error {
		return &model.FetchError{Status: 404, URL: "https://boards-api.greenhouse.io"}
	}}

	_, err := NewGreenhouse(relay).Fetch(context.Background(), model.CompanyRow{Company: "Acme", Slug: "acme"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "greenhouse fetch for acme"))
}

func TestGreenhouseFetch_EmptyBoard(t *testing.T) {
	relay := &stubRelay{getJSON: func(_ string, out any) error {
		return jsonInto(`{"jobs":[]}`, out)
	}}

	postings, err := NewGreenhouse(relay).Fetch(context.Background(), model.CompanyRow{Company: "Acme", Slug: "acme"})
	require.NoError(t, err)
	assert.Empty(t, postings)
}
