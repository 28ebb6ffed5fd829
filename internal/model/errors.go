package model

import "fmt"

// FetchError wraps a failed vendor or relay call so callers can inspect the
// HTTP status and a truncated copy of the response body. A Status of zero
// means the failure happened before a status was received (timeout, bad
// payload shape, transport error).
type FetchError struct {
	Status int
	URL    string
	Body   string // first ~200 characters of the upstream body
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s", e.URL)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: HTTP %d", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
