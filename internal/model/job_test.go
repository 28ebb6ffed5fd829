package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyRowConfigured(t *testing.T) {
	tests := []struct {
		name string
		row  CompanyRow
		want bool
	}{
		{"no source", CompanyRow{Company: "Acme"}, false},
		{"greenhouse with slug", CompanyRow{Source: SourceGreenhouse, Slug: "acme"}, true},
		{"lever without slug", CompanyRow{Source: SourceLever}, false},
		{"workday complete", CompanyRow{Source: SourceWorkday, Host: "a.wd1.myworkdayjobs.com", Tenant: "a"}, true},
		{"workday missing tenant", CompanyRow{Source: SourceWorkday, Host: "a.wd1.myworkdayjobs.com"}, false},
		{"workday missing host", CompanyRow{Source: SourceWorkday, Tenant: "a"}, false},
		{"generic with careers", CompanyRow{Source: SourceGeneric, Careers: "https://a.example.com/jobs"}, true},
		{"generic without careers", CompanyRow{Source: SourceGeneric}, false},
		{"unknown source", CompanyRow{Source: "taleo", Slug: "acme"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.Configured())
		})
	}
}

func TestFetchError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &FetchError{Status: 502, URL: "https://api.lever.co/v0/postings/acme", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "api.lever.co")
}
