// Package sheets provides a client for interacting with the Google Sheets
// API: spreadsheet creation, value reads and writes in A1 notation, appends,
// clears and batch updates.
//
// Spreadsheet references may be a raw ID, a Sheets URL, or a title; title
// lookups are delegated to a Drive-backed resolver constrained to the
// spreadsheet MIME type.
package sheets
