// Package idempotency provides a local SQLite-backed ledger of completed
// script actions. Scripts record a key after performing an action; on
// subsequent runs a key that is already present means the action is skipped.
//
// Keys are namespaced as <tool>/<action>/<key> by the caller. Marking a key
// twice is not an error.
package idempotency
