// Package relay is the client side of the external HTTP forwarding service.
// All outbound vendor traffic goes through it; its timeout is the effective
// cancellation boundary for a fetch.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amishk599/careerwatch/internal/model"
	"github.com/amishk599/careerwatch/internal/ratelimit"
)

const (
	// DefaultTimeout matches the relay's own upstream timeout.
	DefaultTimeout = 15 * time.Second

	// errBodyLimit caps how much of an upstream body is carried in errors.
	errBodyLimit = 200
)

// Ensure Client implements model.Relay.
var _ model.Relay = (*Client)(nil)

// Client talks to the relay's /proxy endpoint. Requests are paced per target
// host through the shared limiter before they leave the process.
type Client struct {
	http    *resty.Client
	limiter *ratelimit.HostLimiter
}

// New creates a relay client for the given base URL. A nil limiter disables
// pacing (tests). A non-positive timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration, limiter *ratelimit.HostLimiter) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)
	return &Client{http: hc, limiter: limiter}
}

// GetJSON forwards a GET to target and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, target string, out any) error {
	if err := c.wait(ctx, target); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetQueryParam("url", target).
		Get("/proxy")
	if err != nil {
		return &model.FetchError{URL: target, Err: err}
	}
	if resp.IsError() {
		return errFor(target, resp)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &model.FetchError{
			Status: resp.StatusCode(),
			URL:    target,
			Body:   truncate(resp.Body()),
			Err:    fmt.Errorf("expected JSON: %w", err),
		}
	}
	return nil
}

// postEnvelope is the relay's POST forwarding contract.
type postEnvelope struct {
	URL    string `json:"url"`
	Method string `json:"method"`
	JSON   any    `json:"json"`
}

// PostJSON forwards a POST with the given JSON body to target and decodes
// the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, target string, body, out any) error {
	if err := c.wait(ctx, target); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json, */*").
		SetBody(postEnvelope{URL: target, Method: "POST", JSON: body}).
		Post("/proxy")
	if err != nil {
		return &model.FetchError{URL: target, Err: err}
	}
	if resp.IsError() {
		return errFor(target, resp)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &model.FetchError{
			Status: resp.StatusCode(),
			URL:    target,
			Body:   truncate(resp.Body()),
			Err:    fmt.Errorf("expected JSON: %w", err),
		}
	}
	return nil
}

// GetText forwards a GET to target and returns the raw response body.
func (c *Client) GetText(ctx context.Context, target string) (string, error) {
	if err := c.wait(ctx, target); err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html, text/plain, */*").
		SetQueryParam("url", target).
		Get("/proxy")
	if err != nil {
		return "", &model.FetchError{URL: target, Err: err}
	}
	if resp.IsError() {
		return "", errFor(target, resp)
	}
	return string(resp.Body()), nil
}

func (c *Client) wait(ctx context.Context, target string) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.WaitURL(ctx, target)
}

func errFor(target string, resp *resty.Response) error {
	return &model.FetchError{
		Status: resp.StatusCode(),
		URL:    target,
		Body:   truncate(resp.Body()),
		Err:    fmt.Errorf("relay returned %s", resp.Status()),
	}
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > errBodyLimit {
		return s[:errBodyLimit]
	}
	return s
}
