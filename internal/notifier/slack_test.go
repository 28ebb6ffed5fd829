package notifier

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/careerwatch/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePosting() model.JobPosting {
	posted := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	return model.JobPosting{
		ID:       "greenhouse:acme:1",
		Company:  "Acme",
		Source:   model.SourceGreenhouse,
		Title:    "Senior Engineer",
		Location: "Remote",
		URL:      "https://boards.greenhouse.io/acme/jobs/1",
		PostedAt: &posted,
	}
}

func TestSlackNotify_SendsBlockKitPayload(t *testing.T) {
	var got slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.JobPosting{samplePosting()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got.Blocks))
	}
	header := got.Blocks[0].Text.Text
	if !strings.Contains(header, "<https://boards.greenhouse.io/acme/jobs/1|Senior Engineer>") {
		t.Errorf("title should be a link: %q", header)
	}
	if len(got.Blocks[1].Fields) != 4 {
		t.Errorf("expected company/source/location/posted fields, got %d", len(got.Blocks[1].Fields))
	}
}

func TestSlackNotify_EmptyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSlackNotify_AllFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.JobPosting{samplePosting()}); err == nil {
		t.Fatal("expected error when every notification fails")
	}
}

func TestSlackNotify_RetriesOnRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.JobPosting{samplePosting()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected one retry after 429, got %d calls", calls)
	}
}

func TestLogNotify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Notify([]model.JobPosting{samplePosting()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"new posting", "Acme", "Senior Engineer"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
