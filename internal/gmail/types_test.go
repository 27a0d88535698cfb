package gmail

import (
	"encoding/base64"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
)

func metadataMessage() *gmailapi.Message {
	return &gmailapi.Message{
		Id:       "msg1",
		ThreadId: "thread1",
		Snippet:  "Hi there",
		LabelIds: []string{LabelInbox, LabelUnread},
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "To", Value: "bob@example.com"},
				{Name: "Subject", Value: "Hello"},
				{Name: "Date", Value: "Fri, 15 Mar 2024 10:00:00 +0000"},
			},
		},
	}
}

func TestToMessageInfo(t *testing.T) {
	info := toMessageInfo(metadataMessage())

	if info.ID != "msg1" || info.ThreadID != "thread1" {
		t.Errorf("Unexpected IDs: %+v", info)
	}
	if info.From != "Alice <alice@example.com>" || info.Subject != "Hello" {
		t.Errorf("Unexpected headers: %+v", info)
	}
	if !info.Unread {
		t.Error("Message with UNREAD label must be unread")
	}
	if info.Date.IsZero() {
		t.Error("Date header must be parsed")
	}
	if info.Date.Day() != 15 || info.Date.Month() != 3 {
		t.Errorf("Date = %v", info.Date)
	}
}

func TestToMessageInfoNoPayload(t *testing.T) {
	info := toMessageInfo(&gmailapi.Message{Id: "msg2"})
	if info.From != "" || info.Unread {
		t.Errorf("Unexpected info for bare message: %+v", info)
	}
}

func TestHeaderValueMissing(t *testing.T) {
	if got := HeaderValue(metadataMessage(), "Reply-To"); got != "" {
		t.Errorf("Missing header must be empty, got %q", got)
	}
	if got := HeaderValue(nil, "From"); got != "" {
		t.Errorf("Nil message must yield empty header, got %q", got)
	}
}

func TestWalkPartsNested(t *testing.T) {
	root := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			{MimeType: "text/plain"},
			{
				MimeType: "multipart/related",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "text/html"},
				},
			},
		},
	}

	var seen []string
	walkParts(root, func(p *gmailapi.MessagePart) {
		seen = append(seen, p.MimeType)
	})

	if len(seen) != 4 {
		t.Fatalf("Expected 4 parts, saw %v", seen)
	}
	if seen[3] != "text/html" {
		t.Errorf("Nested part must be visited last, saw %v", seen)
	}
}

func TestDecodeBodyFallback(t *testing.T) {
	plain := []byte("body with ÿ high bytes")

	urlEncoded := base64.URLEncoding.EncodeToString(plain)
	if got, err := decodeBody(urlEncoded); err != nil || string(got) != string(plain) {
		t.Errorf("decodeBody(url) = %q, %v", got, err)
	}

	stdEncoded := base64.StdEncoding.EncodeToString(plain)
	if got, err := decodeBody(stdEncoded); err != nil || string(got) != string(plain) {
		t.Errorf("decodeBody(std) = %q, %v", got, err)
	}

	if _, err := decodeBody("!!not-base64!!"); err == nil {
		t.Error("Expected error for invalid encoding")
	}
}
