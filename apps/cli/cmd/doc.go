// Package cmd implements the factform CLI commands using Cobra.
//
// Available commands:
//   - add: Submit a form as a new fact
//   - ask: Ask the question held by a form
//   - get: Fetch the fact whose id a form holds
//   - delete: Delete the fact whose id a form holds
//   - fields: Print the fields a form would send
//   - mock: Start an in-memory facts service
//   - init: Create a sample config file and page
//   - version: Show factform version information
//
// The operation commands share flags for configuration, output
// formatting and a watch mode that re-sends the form whenever the page
// file changes.
package cmd
