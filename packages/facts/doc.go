// Package facts issues the create, query, read and delete calls against a
// facts service, taking every parameter from an HTML form.
//
// Each operation reads the form when it is called, starts the request in the
// background and returns at once. Outcomes go to a Reporter: Success for a
// 2xx or 304 response, Failure for everything else. Failures are never
// retried and never returned to the caller. The returned *Call may be
// ignored, or used to wait for that one outcome.
package facts
