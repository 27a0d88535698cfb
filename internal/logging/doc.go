// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute keys used consistently across the codebase and
// small constructors for common attributes (operation, service, account,
// resource). Helpers are also provided for anonymizing email addresses and
// masking tokens so that credentials and PII never reach log output.
package logging
