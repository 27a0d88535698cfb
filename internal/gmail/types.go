package gmail

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
)

// Well-known Gmail system labels.
const (
	LabelInbox  = "INBOX"
	LabelUnread = "UNREAD"
	LabelSpam   = "SPAM"
	LabelTrash  = "TRASH"
	LabelSent   = "SENT"
	LabelDraft  = "DRAFT"
)

// MessageInfo is a flattened Gmail message for listing and display.
type MessageInfo struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"threadId"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
	Subject  string    `json:"subject,omitempty"`
	Date     time.Time `json:"date,omitempty"`
	Snippet  string    `json:"snippet,omitempty"`
	Labels   []string  `json:"labels,omitempty"`
	Unread   bool      `json:"unread,omitempty"`
}

// ThreadInfo summarizes a Gmail thread.
type ThreadInfo struct {
	ID       string `json:"id"`
	Snippet  string `json:"snippet,omitempty"`
	Messages int    `json:"messages,omitempty"`
}

// LabelInfo describes a Gmail label.
type LabelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"` // system or user
	Unread   int64  `json:"unread,omitempty"`
	Messages int64  `json:"messages,omitempty"`
}

// EmailMessage holds the fields for composing an outgoing email.
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	IsHTML  bool
}

func (m *EmailMessage) validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if m.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// HeaderValue returns the value of a payload header, or "" when absent.
func HeaderValue(m *gmailapi.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if h.Name == header {
			return h.Value
		}
	}
	return ""
}

func toMessageInfo(m *gmailapi.Message) MessageInfo {
	info := MessageInfo{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		From:     HeaderValue(m, "From"),
		To:       HeaderValue(m, "To"),
		Subject:  HeaderValue(m, "Subject"),
		Snippet:  m.Snippet,
		Labels:   m.LabelIds,
	}

	if date := HeaderValue(m, "Date"); date != "" {
		if t, err := mail.ParseDate(date); err == nil {
			info.Date = t
		}
	}

	for _, label := range m.LabelIds {
		if label == LabelUnread {
			info.Unread = true
			break
		}
	}

	return info
}

func toThreadInfo(t *gmailapi.Thread) ThreadInfo {
	return ThreadInfo{
		ID:       t.Id,
		Snippet:  t.Snippet,
		Messages: len(t.Messages),
	}
}

// walkParts visits a message part and all its nested subparts.
func walkParts(part *gmailapi.MessagePart, fn func(*gmailapi.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// decodeBody decodes a base64url message body, falling back to standard
// base64 for payloads produced by other mailers.
func decodeBody(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}
	decoded, stdErr := base64.StdEncoding.DecodeString(data)
	if stdErr != nil {
		return nil, fmt.Errorf("failed to decode message body: %w", err)
	}
	return decoded, nil
}
