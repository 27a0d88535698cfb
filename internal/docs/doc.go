// Package docs wraps the Google Docs API with document retrieval, plain
// text extraction and text mutation operations.
package docs
