package connector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/careerwatch/internal/model"
)

func makeListings(n, start int) []workdayListing {
	listings := make([]workdayListing, n)
	for i := range listings {
		listings[i] = workdayListing{
			ID:           fmt.Sprintf("job-%d", start+i),
			Title:        fmt.Sprintf("Role %d", start+i),
			ExternalPath: fmt.Sprintf("/job/loc/role_%d", start+i),
		}
	}
	return listings
}

func newPagedWorkday(pages map[int]int, offsets *[]int) *Workday {
	relay := &stubRelay{postJSON: func(url string, body, out any) error {
		req := body.(workdayListingRequest)
		*offsets = append(*offsets, req.Offset)
		resp := out.(*workdayListingResponse)
		resp.JobPostings = makeListings(pages[req.Offset], req.Offset)
		return nil
	}}
	c := NewWorkday(relay)
	c.pageDelay = time.Millisecond
	return c
}

func TestWorkdayFetch_StopsOnShortPage(t *testing.T) {
	var offsets []int
	c := newPagedWorkday(map[int]int{0: 200, 200: 150}, &offsets)

	postings, err := c.Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceWorkday,
		Host: "acme.wd5.myworkdayjobs.com", Tenant: "acme",
	})
	require.NoError(t, err)
	assert.Len(t, postings, 350)
	assert.Equal(t, []int{0, 200}, offsets)
}

func TestWorkdayFetch_SoftCapBoundsPagination(t *testing.T) {
	// Every page is full; pagination must still stop once the next offset
	// passes 1000, so offsets 0 through 1000 are requested and no more.
	pages := map[int]int{}
	for off := 0; off <= 1200; off += 200 {
		pages[off] = 200
	}
	var offsets []int
	c := newPagedWorkday(pages, &offsets)

	postings, err := c.Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceWorkday,
		Host: "acme.wd5.myworkdayjobs.com", Tenant: "acme",
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 200, 400, 600, 800, 1000}, offsets)
	assert.Len(t, postings, 1200)
}

func TestWorkdayFetch_RequestShape(t *testing.T) {
	var got workdayListingRequest
	var gotURL string
	relay := &stubRelay{postJSON: func(url string, body, out any) error {
		gotURL = url
		got = body.(workdayListingRequest)
		return nil
	}}
	c := NewWorkday(relay)
	c.pageDelay = time.Millisecond

	_, err := c.Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceWorkday,
		Host: "acme.wd5.myworkdayjobs.com", Tenant: "acme",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://acme.wd5.myworkdayjobs.com/wday/cxs/acme/External/jobs", gotURL,
		"board defaults to External")
	assert.Equal(t, workdayPageSize, got.Limit)
	assert.Equal(t, 0, got.Offset)
	assert.Equal(t, "", got.SearchText)
	assert.NotNil(t, got.AppliedFacets)
	assert.Equal(t, "en_US", got.Locale)
}

func TestWorkdayFetch_CustomBoard(t *testing.T) {
	var gotURL string
	relay := &stubRelay{postJSON: func(url string, _, _ any) error {
		gotURL = url
		return nil
	}}
	c := NewWorkday(relay)

	_, err := c.Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceWorkday,
		Host: "acme.wd5.myworkdayjobs.com", Tenant: "acme", Board: "Careers",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://acme.wd5.myworkdayjobs.com/wday/cxs/acme/Careers/jobs", gotURL)
}

func TestWorkdayFetch_FieldMapping(t *testing.T) {
	payload := `{
	  "total": 3,
	  "jobPostings": [
	    {
	      "title": "SRE",
	      "externalPath": "job/NYC/sre_REQ-1",
	      "locationsText": "New York, NY",
	      "postedOnDate": "2026-08-25T00:00:00Z",
	      "bulletFields": ["REQ-1"]
	    },
	    {
	      "id": "native-2",
	      "title": "PM",
	      "externalPath": "/job/SF/pm_2",
	      "postedOn": "Posted Today"
	    },
	    {"title": "Intern"}
	  ]
	}`
	relay := &stubRelay{postJSON: func(_ string, _, out any) error {
		return jsonInto(payload, out)
	}}
	c := NewWorkday(relay)

	postings, err := c.Fetch(context.Background(), model.CompanyRow{
		Company: "Acme", Source: model.SourceWorkday,
		Host: "acme.wd5.myworkdayjobs.com", Tenant: "acme",
	})
	require.NoError(t, err)
	require.Len(t, postings, 3)

	p := postings[0]
	assert.Equal(t, "workday:acme.wd5.myworkdayjobs.com:acme:REQ-1", p.ID,
		"bulletFields carries the requisition id")
	assert.Equal(t, "https://acme.wd5.myworkdayjobs.com/job/NYC/sre_REQ-1", p.URL,
		"externalPath without a leading slash still builds a valid URL")
	assert.Equal(t, "New York, NY", p.Location)
	require.NotNil(t, p.PostedAt)
	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), p.PostedAt.UTC())

	p = postings[1]
	assert.Equal(t, "workday:acme.wd5.myworkdayjobs.com:acme:native-2", p.ID)
	require.NotNil(t, p.PostedAt, "relative postedOn still yields a timestamp")

	p = postings[2]
	assert.Equal(t, "workday:acme.wd5.myworkdayjobs.com:acme:2", p.ID, "index is the last id fallback")
	assert.Empty(t, p.URL)
	assert.Nil(t, p.PostedAt)
}

func TestWorkdayFetch_RequiresHostAndTenant(t *testing.T) {
	c := NewWorkday(&stubRelay{})

	_, err := c.Fetch(context.Background(), model.CompanyRow{Company: "Acme", Source: model.SourceWorkday})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host and tenant are required")
}

func TestParsePostedOn(t *testing.T) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want *time.Time
	}{
		{"Posted Today", &today},
		{"Posted Yesterday", timePtr(today.AddDate(0, 0, -1))},
		{"Posted 1 Day Ago", timePtr(today.AddDate(0, 0, -1))},
		{"Posted 7 Days Ago", timePtr(today.AddDate(0, 0, -7))},
		{"Posted 30+ Days Ago", nil},
		{"Just Posted", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parsePostedOn(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
