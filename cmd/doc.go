// Package cmd implements the command-line interface for gspace.
//
// This package provides the following commands:
//   - auth: Obtain and store OAuth tokens for an account
//   - drive, sheets, docs, calendar, tasks, gmail, contacts: Per-service verbs
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//
// Mutating verbs share the --dry-run and --once flags: --dry-run reports the
// change without performing it, and --once <key> skips the action when the
// same key was already completed on an earlier run.
package cmd
