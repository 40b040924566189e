package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Data returns the decoded payload: a JSON value when the response declares
// JSON, the raw text otherwise, nil for an empty body.
func (r *Response) Data() any {
	if len(r.Body) == 0 {
		return nil
	}
	if r.IsJSON() && gjson.ValidBytes(r.Body) {
		return gjson.ParseBytes(r.Body).Value()
	}
	return r.BodyString()
}

// Get extracts a value from a JSON body using a gjson path.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := strings.ToLower(r.ContentType())
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsNotModified reports a 304, which callers treat like a success.
func (r *Response) IsNotModified() bool {
	return r.StatusCode == http.StatusNotModified
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
