// Package http provides the HTTP client used to reach the facts service.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts, redirects, proxy and TLS validation
//   - Browser-style request targets built from raw concatenated URLs
//   - Response reading with JSON detection
//   - Typed transport, status and parse errors
package http
