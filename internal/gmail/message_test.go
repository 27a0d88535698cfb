package gmail

import (
	"encoding/base64"
	"strings"
	"testing"
)

func decodeRaw(t *testing.T, raw string) string {
	t.Helper()
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("Raw message is not base64url: %v", err)
	}
	return string(decoded)
}

func TestBuildRawMessage(t *testing.T) {
	msg := &EmailMessage{
		To:      []string{"alice@example.com", "bob@example.com"},
		Cc:      []string{"carol@example.com"},
		Subject: "Weekly update",
		Body:    "Hello team",
	}

	decoded := decodeRaw(t, buildRawMessage(composeHeaders(msg), msg.Body))

	for _, want := range []string{
		"To: alice@example.com, bob@example.com\r\n",
		"Cc: carol@example.com\r\n",
		"Subject: Weekly update\r\n",
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n",
		"MIME-Version: 1.0\r\n",
	} {
		if !strings.Contains(decoded, want) {
			t.Errorf("Message missing %q:\n%s", want, decoded)
		}
	}

	if strings.Contains(decoded, "Bcc:") {
		t.Error("Empty Bcc header must be omitted")
	}
	if !strings.HasSuffix(decoded, "\r\n\r\nHello team") {
		t.Errorf("Body must follow a blank line:\n%s", decoded)
	}
}

func TestBuildRawMessageHTML(t *testing.T) {
	msg := &EmailMessage{
		To:      []string{"alice@example.com"},
		Subject: "Report",
		Body:    "<p>done</p>",
		IsHTML:  true,
	}

	decoded := decodeRaw(t, buildRawMessage(composeHeaders(msg), msg.Body))
	if !strings.Contains(decoded, "Content-Type: text/html; charset=\"UTF-8\"\r\n") {
		t.Errorf("Expected HTML content type:\n%s", decoded)
	}
}

func TestEncodeRFC2047(t *testing.T) {
	if got := encodeRFC2047("Plain subject"); got != "Plain subject" {
		t.Errorf("ASCII subject must pass through, got %q", got)
	}

	encoded := encodeRFC2047("Grüße aus München")
	if !strings.HasPrefix(encoded, "=?UTF-8?") {
		t.Errorf("Non-ASCII subject must be RFC 2047 encoded, got %q", encoded)
	}
}

func TestReplySubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Status", "Re: Status"},
		{"Re: Status", "Re: Status"},
		{"RE: Status", "RE: Status"},
		{"", "Re: "},
	}

	for _, tt := range tests {
		if got := replySubject(tt.in); got != tt.want {
			t.Errorf("replySubject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildReferences(t *testing.T) {
	tests := []struct {
		existing string
		parent   string
		want     string
	}{
		{"", "<a@x>", "<a@x>"},
		{"<a@x>", "<b@x>", "<a@x> <b@x>"},
		{"<a@x>", "", "<a@x>"},
	}

	for _, tt := range tests {
		if got := buildReferences(tt.existing, tt.parent); got != tt.want {
			t.Errorf("buildReferences(%q, %q) = %q, want %q", tt.existing, tt.parent, got, tt.want)
		}
	}
}

func TestEmailMessageValidate(t *testing.T) {
	tests := []struct {
		name string
		msg  EmailMessage
		ok   bool
	}{
		{"valid", EmailMessage{To: []string{"a@x"}, Subject: "s", Body: "b"}, true},
		{"no recipient", EmailMessage{Subject: "s", Body: "b"}, false},
		{"no subject", EmailMessage{To: []string{"a@x"}, Body: "b"}, false},
		{"no body", EmailMessage{To: []string{"a@x"}, Subject: "s"}, false},
	}

	for _, tt := range tests {
		err := tt.msg.validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
