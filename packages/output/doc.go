// Package output reports call outcomes.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output, written on Flush
//
// Both formatters satisfy facts.Reporter and may be fed from several
// goroutines at once.
package output
