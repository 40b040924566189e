// Package config handles configuration loading and management for factform.
//
// It provides functionality for:
//   - Loading configuration from factform.yaml or factform.json files
//   - Default configuration values
//   - Merging a loaded file with explicit overrides
package config
