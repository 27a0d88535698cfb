// Package workspace is the factory for per-account service clients. It
// builds Drive, Sheets, Docs, Calendar, Tasks, Gmail and Contacts
// clients lazily, caches them per account, and shares one rate limiter
// and metrics recorder per service across accounts.
package workspace
