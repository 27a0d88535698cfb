// Package contacts wraps the Google People API with contact listing,
// search across personal and "other" contacts, retrieval and creation.
package contacts
