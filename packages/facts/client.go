package facts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/abdul-hamid-achik/factform/packages/form"
	fhttp "github.com/abdul-hamid-achik/factform/packages/http"
	"github.com/abdul-hamid-achik/factform/packages/log"
)

const (
	// JSONContentType is declared on submitted facts, written exactly so.
	JSONContentType = "application/json, charset=utf-8"

	// QuestionField names the form control holding the question.
	QuestionField = "question"
	// FactIDField names the form control holding the fact id.
	FactIDField = "fact_id"
)

// Page is the document forms are read from.
type Page interface {
	Fields(formID string) form.Fields
}

// Doer sends a request and returns whatever response came back.
type Doer interface {
	Do(ctx context.Context, req *fhttp.Request) (*fhttp.Response, error)
}

// Reporter receives the outcome of every call. It is called from the
// goroutine that ran the request and must be safe for concurrent use.
type Reporter interface {
	Success(Result)
	Failure(Result)
}

type Client struct {
	page      Page
	doer      Doer
	endpoints Endpoints
	reporter  Reporter
	logger    log.Logger
	inflight  sync.WaitGroup
}

type Option func(*Client)

func WithReporter(r Reporter) Option {
	return func(c *Client) {
		c.reporter = r
	}
}

func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client reading forms from page and sending requests
// through doer.
func NewClient(page Page, doer Doer, endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		page:      page,
		doer:      doer,
		endpoints: endpoints,
		reporter:  discard{},
		logger:    log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the URLs the client was built with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Fields reads the current name/value pairs of a form. A missing form
// yields an empty mapping.
func (c *Client) Fields(formID string) form.Fields {
	fields := c.page.Fields(formID)
	if fields == nil {
		return form.Fields{}
	}
	return fields
}

// SubmitFact posts the form's fields as a JSON object to the facts
// collection.
func (c *Client) SubmitFact(ctx context.Context, formID string) *Call {
	fields := c.Fields(formID)
	req := fhttp.NewRequest(http.MethodPost, c.endpoints.Facts).
		SetHeader("Content-Type", JSONContentType)

	body, err := encodeFields(fields)
	if err == nil {
		req.SetBody(body)
	}
	return c.dispatch(ctx, OpSubmit, formID, fields, req, err)
}

// QueryFacts asks the form's question.
func (c *Client) QueryFacts(ctx context.Context, formID string) *Call {
	fields := c.Fields(formID)
	question, err := lookup(fields, formID, QuestionField)
	req := fhttp.NewRequest(http.MethodGet, c.endpoints.QueryURL(question))
	return c.dispatch(ctx, OpQuery, formID, fields, req, err)
}

// FetchFact reads the fact named by the form's fact_id.
func (c *Client) FetchFact(ctx context.Context, formID string) *Call {
	fields := c.Fields(formID)
	factID, err := lookup(fields, formID, FactIDField)
	req := fhttp.NewRequest(http.MethodGet, c.endpoints.FactURL(factID))
	return c.dispatch(ctx, OpFetch, formID, fields, req, err)
}

// RemoveFact deletes the fact named by the form's fact_id.
func (c *Client) RemoveFact(ctx context.Context, formID string) *Call {
	fields := c.Fields(formID)
	factID, err := lookup(fields, formID, FactIDField)
	req := fhttp.NewRequest(http.MethodDelete, c.endpoints.FactURL(factID))
	return c.dispatch(ctx, OpRemove, formID, fields, req, err)
}

// Run starts the given operation.
func (c *Client) Run(ctx context.Context, operation Operation, formID string) (*Call, error) {
	switch operation {
	case OpSubmit:
		return c.SubmitFact(ctx, formID), nil
	case OpQuery:
		return c.QueryFacts(ctx, formID), nil
	case OpFetch:
		return c.FetchFact(ctx, formID), nil
	case OpRemove:
		return c.RemoveFact(ctx, formID), nil
	}
	return nil, fmt.Errorf("unknown operation %q", operation)
}

// Wait blocks until every started call has been reported.
func (c *Client) Wait() {
	c.inflight.Wait()
}

func (c *Client) dispatch(ctx context.Context, operation Operation, formID string, fields form.Fields, req *fhttp.Request, prepErr error) *Call {
	call := newCall()
	result := Result{
		Operation: operation,
		Form:      formID,
		Method:    req.Method,
		URL:       req.URL,
		Fields:    fields,
		Err:       prepErr,
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		if result.Err == nil {
			result.Response, result.Err = c.roundTrip(ctx, req)
		}
		c.report(result)
		call.finish(result)
	}()

	return call
}

func (c *Client) roundTrip(ctx context.Context, req *fhttp.Request) (*fhttp.Response, error) {
	c.logger.Debug("request dispatched", log.String("method", req.Method), log.String("url", req.URL))

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("response received",
		log.String("method", req.Method),
		log.String("url", req.URL),
		log.Int("status", resp.StatusCode),
		log.Duration("duration", resp.Duration),
	)

	return resp, fhttp.Classify(resp)
}

func (c *Client) report(result Result) {
	if result.Err != nil {
		c.logger.Warn("call failed",
			log.String("operation", string(result.Operation)),
			log.String("url", result.URL),
			log.Err(result.Err),
		)
		c.reporter.Failure(result)
		return
	}
	c.reporter.Success(result)
}

func lookup(fields form.Fields, formID, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", &MissingFieldError{Form: formID, Field: name}
	}
	return v, nil
}

// encodeFields renders the mapping as a JSON object without HTML escaping.
func encodeFields(fields form.Fields) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string(fields)); err != nil {
		return nil, fmt.Errorf("encode form fields: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

type discard struct{}

func (discard) Success(Result) {}
func (discard) Failure(Result) {}
