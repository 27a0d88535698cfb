// Package gmail wraps the Gmail API with message and thread search,
// body extraction, label operations, drafts and RFC 2822 sending.
//
// Outgoing messages are built as RFC 2822 text, base64url-encoded and
// submitted raw. Subjects with non-ASCII characters are RFC 2047
// encoded. Replies carry In-Reply-To and References headers so mail
// clients keep the conversation threaded.
package gmail
