// Package tools registers the MCP tool surface. Every tool resolves its
// account through the workspace factory, and every mutating tool accepts
// dryRun and reason arguments that turn the call into a report instead
// of an API mutation.
package tools
