package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/careerwatch/internal/model"
)

const workablePayload = `{
  "results": [
    {
      "id": 987654,
      "title": "Support Specialist",
      "department": "Customer Success",
      "published": "2026-08-10T12:00:00Z",
      "application_url": "https://apply.workable.com/acme/j/AB12CD34/apply",
      "location": {"city": "Lisbon", "country": "PT"}
    },
    {
      "shortcode": "EF56GH78",
      "title": "Ops Manager",
      "shortlink": "https://apply.workable.com/j/EF56GH78",
      "location": {}
    }
  ]
}`

func TestWorkableFetch(t *testing.T) {
	relay := &stubRelay{getJSON: func(url string, out any) error {
		assert.Equal(t, "https://apply.workable.com/api/v3/accounts/acme/jobs?limit=200", url)
		return jsonInto(workablePayload, out)
	}}

	postings, err := NewWorkable(relay).Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceWorkable, Slug: "acme",
	})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	p := postings[0]
	assert.Equal(t, "workable:acme:987654", p.ID, "numeric ids keep their literal form")
	assert.Equal(t, "Lisbon, PT", p.Location)
	assert.Equal(t, "Customer Success", p.Department)
	assert.Equal(t, "https://apply.workable.com/acme/j/AB12CD34/apply", p.URL)
	require.NotNil(t, p.PostedAt)

	p = postings[1]
	assert.Equal(t, "workable:acme:EF56GH78", p.ID, "shortcode is the id fallback")
	assert.Empty(t, p.Location)
	assert.Equal(t, "https://apply.workable.com/j/EF56GH78", p.URL, "shortlink is the url fallback")
	assert.Nil(t, p.PostedAt)
}

func TestWorkableFetch_Error(t *testing.T) {
	relay := &stubRelay{getJSON: func(_ string, _ any) error {
		return &model.FetchError{Status: 429}
	}}

	_, err := NewWorkable(relay).Fetch(context.Background(), model.CompanyRow{Company: "Acme", Slug: "acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workable fetch for acme")
}
