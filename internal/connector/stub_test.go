package connector

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/amishk599/careerwatch/internal/model"
)

// stubRelay implements model.Relay with pluggable behavior per call kind.
// Nil handlers fail the call so tests notice unexpected traffic.
type stubRelay struct {
	getJSON  func(url string, out any) error
	postJSON func(url string, body, out any) error
	getText  func(url string) (string, error)
}

var errUnexpectedCall = errors.New("unexpected relay call")

func (s *stubRelay) GetJSON(_ context.Context, url string, out any) error {
	if s.getJSON == nil {
		return errUnexpectedCall
	}
	return s.getJSON(url, out)
}

func (s *stubRelay) PostJSON(_ context.Context, url string, body, out any) error {
	if s.postJSON == nil {
		return errUnexpectedCall
	}
	return s.postJSON(url, body, out)
}

func (s *stubRelay) GetText(_ context.Context, url string) (string, error) {
	if s.getText == nil {
		return "", errUnexpectedCall
	}
	return s.getText(url)
}

func jsonInto(payload string, out any) error {
	return json.Unmarshal([]byte(payload), out)
}

// fakeConnector is a canned vendor connector for delegation tests.
type fakeConnector struct {
	postings []model.JobPosting
	err      error
	calls    int
	lastRow  model.CompanyRow
}

func (f *fakeConnector) Fetch(_ context.Context, row model.CompanyRow) ([]model.JobPosting, error) {
	f.calls++
	f.lastRow = row
	return f.postings, f.err
}
