package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/careerwatch/internal/model"
)

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/proxy" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != "https://api.example.com/jobs" {
			t.Errorf("unexpected target url: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs":[{"id":1},{"id":2}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)

	var out struct {
		Jobs []struct {
			ID int `json:"id"`
		} `json:"jobs"`
	}
	if err := c.GetJSON(context.Background(), "https://api.example.com/jobs", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(out.Jobs))
	}
}

func TestGetJSON_ErrorCarriesStatusAndTruncatedBody(t *testing.T) {
	longBody := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(longBody))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)

	err := c.GetJSON(context.Background(), "https://api.example.com/jobs", &struct{}{})
	if err == nil {
		t.Fatal("expected error for HTTP 404, got nil")
	}

	var fe *model.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *model.FetchError, got %T", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", fe.Status)
	}
	if len(fe.Body) > 200 {
		t.Errorf("expected body truncated to 200 chars, got %d", len(fe.Body))
	}
}

func TestGetJSON_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)

	err := c.GetJSON(context.Background(), "https://api.example.com/jobs", &struct{}{})
	if err == nil {
		t.Fatal("expected error for non-JSON body, got nil")
	}
}

func TestPostJSON_ForwardsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var env struct {
			URL    string         `json:"url"`
			Method string         `json:"method"`
			JSON   map[string]any `json:"json"`
		}
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			t.Fatalf("decoding envelope: %v", err)
		}
		if env.URL != "https://host/wday/cxs/acme/External/jobs" {
			t.Errorf("unexpected target url: %s", env.URL)
		}
		if env.Method != "POST" {
			t.Errorf("unexpected method: %s", env.Method)
		}
		if env.JSON["limit"] != float64(1) {
			t.Errorf("unexpected forwarded body: %v", env.JSON)
		}
		w.Write([]byte(`{"jobPostings":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)

	var out struct {
		JobPostings []json.RawMessage `json:"jobPostings"`
	}
	body := map[string]any{"limit": 1, "offset": 0}
	err := c.PostJSON(context.Background(), "https://host/wday/cxs/acme/External/jobs", body, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.JobPostings == nil {
		t.Fatal("expected jobPostings array to decode")
	}
}

func TestGetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>careers</body></html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)

	text, err := c.GetText(context.Background(), "https://example.com/careers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "careers") {
		t.Errorf("unexpected body: %q", text)
	}
}
