// Package google manages OAuth2 credentials for all Google service
// wrappers: the shared OAuth configuration and scope set, per-account token
// files on disk, and construction of authenticated HTTP clients.
//
// Tokens are stored one file per account under the data directory with 0600
// permissions. The TokenProvider interface abstracts where tokens come from
// so callers can substitute an in-memory source in tests.
package google
