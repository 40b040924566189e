package http

import (
	"errors"
	"fmt"
	"net"

	"github.com/tidwall/gjson"
)

// TransportError means no response was received: network failure, DNS
// failure, timeout or a target that cannot be requested.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request gave up waiting.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// StatusError means the server answered with a non-success status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %s", e.Status)
	}
	return fmt.Sprintf("request failed with status %s: %s", e.Status, e.Body)
}

// ParseError means the response declared JSON but carried something else.
type ParseError struct {
	StatusCode int
	Body       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in %d response: %q", e.StatusCode, e.Body)
}

// Classify turns a received response into an error when it does not count
// as a success. 2xx and 304 succeed; a JSON response must parse.
func Classify(resp *Response) error {
	if !resp.IsSuccess() && !resp.IsNotModified() {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.BodyString(),
		}
	}
	if len(resp.Body) > 0 && resp.IsJSON() && !gjson.ValidBytes(resp.Body) {
		return &ParseError{StatusCode: resp.StatusCode, Body: resp.BodyString()}
	}
	return nil
}
