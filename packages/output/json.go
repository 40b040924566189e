package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/factform/packages/facts"
	fhttp "github.com/abdul-hamid-achik/factform/packages/http"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Calls    []JSONCall  `json:"calls"`
	Errors   []string    `json:"errors,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary counts outcomes
type JSONSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// JSONCall represents a single call outcome
type JSONCall struct {
	Operation string            `json:"operation"`
	Form      string            `json:"form"`
	Fields    map[string]string `json:"fields"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	ErrorKind string            `json:"errorKind,omitempty"`
	Response  *JSONResponse     `json:"response,omitempty"`
}

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Data       any               `json:"data,omitempty"`
	Duration   float64           `json:"duration"`
}

// JSONFormatter collects outcomes and writes them as one document on Flush
type JSONFormatter struct {
	mu      sync.Mutex
	writer  io.Writer
	results []JSONCall
	errs    []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONCall, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) Success(r facts.Result) {
	f.add(r)
}

func (f *JSONFormatter) Failure(r facts.Result) {
	f.add(r)
}

// FormatError records an error that happened outside any call.
func (f *JSONFormatter) FormatError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err.Error())
}

func (f *JSONFormatter) add(r facts.Result) {
	call := JSONCall{
		Operation: string(r.Operation),
		Form:      r.Form,
		Fields:    r.Fields,
		Method:    r.Method,
		URL:       r.URL,
		OK:        r.OK(),
	}

	if r.Err != nil {
		call.Error = r.Err.Error()
		call.ErrorKind = errorKind(r.Err)
	}

	if r.Response != nil {
		call.Response = &JSONResponse{
			StatusCode: r.Response.StatusCode,
			Status:     r.Response.Status,
			Headers:    r.Response.Headers,
			Data:       r.Response.Data(),
			Duration:   float64(r.Response.Duration.Milliseconds()),
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, call)
}

func errorKind(err error) string {
	var (
		statusErr    *fhttp.StatusError
		parseErr     *fhttp.ParseError
		transportErr *fhttp.TransportError
		missingErr   *facts.MissingFieldError
	)
	switch {
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &missingErr):
		return "missingField"
	}
	return "other"
}

// Flush writes the accumulated JSON output and starts a fresh batch
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var succeeded, failed int
	for _, c := range f.results {
		if c.OK {
			succeeded++
		} else {
			failed++
		}
	}

	output := JSONOutput{
		Summary: JSONSummary{
			Total:     len(f.results),
			Succeeded: succeeded,
			Failed:    failed,
		},
		Calls:    f.results,
		Errors:   f.errs,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}
	f.results = make([]JSONCall, 0)
	f.errs = nil

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
