package facts

import (
	"fmt"

	"github.com/abdul-hamid-achik/factform/packages/form"
	fhttp "github.com/abdul-hamid-achik/factform/packages/http"
)

// Operation names one of the four calls.
type Operation string

const (
	OpSubmit Operation = "submit"
	OpQuery  Operation = "query"
	OpFetch  Operation = "fetch"
	OpRemove Operation = "remove"
)

// Operations lists every operation in CRUD order.
var Operations = []Operation{OpSubmit, OpQuery, OpFetch, OpRemove}

// Result is the outcome of one call. Err is nil on success. Response is set
// whenever the server answered, including on a status or parse failure.
type Result struct {
	Operation Operation
	Form      string
	Method    string
	URL       string
	Fields    form.Fields
	Response  *fhttp.Response
	Err       error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Data returns the decoded response payload, or nil without a response.
func (r Result) Data() any {
	if r.Response == nil {
		return nil
	}
	return r.Response.Data()
}

// MissingFieldError means the form lacks a control the operation needs, so
// no request was sent.
type MissingFieldError struct {
	Form  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("form %q has no %q field", e.Form, e.Field)
}

// Call is the handle of a started operation.
type Call struct {
	done   chan struct{}
	result Result
}

func newCall() *Call {
	return &Call{done: make(chan struct{})}
}

func (c *Call) finish(r Result) {
	c.result = r
	close(c.done)
}

// Done is closed once the outcome has been reported.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes and returns its outcome.
func (c *Call) Wait() Result {
	<-c.done
	return c.result
}
