// Package log provides the diagnostic logger used across factform.
//
// Request dispatch, completion and mock server traffic are logged through
// the Logger interface. The zerolog adapter writes human-readable lines to
// stderr; the no-op logger is the default when diagnostics are off.
package log
