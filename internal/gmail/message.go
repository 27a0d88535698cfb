package gmail

import (
	"encoding/base64"
	"mime"
	"strings"
)

// header is one RFC 2822 header line.
type header struct {
	name  string
	value string
}

// buildRawMessage assembles an RFC 2822 message and encodes it the way
// the Gmail API expects raw payloads: base64url without padding concerns.
func buildRawMessage(headers []header, body string) string {
	var b strings.Builder
	for _, h := range headers {
		if h.value == "" {
			continue
		}
		b.WriteString(h.name)
		b.WriteString(": ")
		b.WriteString(h.value)
		b.WriteString("\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

func composeHeaders(msg *EmailMessage) []header {
	return []header{
		{"To", strings.Join(msg.To, ", ")},
		{"Cc", strings.Join(msg.Cc, ", ")},
		{"Bcc", strings.Join(msg.Bcc, ", ")},
		{"Subject", encodeRFC2047(msg.Subject)},
		{"Content-Type", contentType(msg.IsHTML)},
	}
}

func contentType(isHTML bool) string {
	if isHTML {
		return `text/html; charset="UTF-8"`
	}
	return `text/plain; charset="UTF-8"`
}

// encodeRFC2047 encodes a header value when it contains non-ASCII
// characters. ASCII-only values pass through unchanged.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// replySubject prefixes "Re: " unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

// buildReferences appends the parent Message-ID to the existing
// References chain for client-side threading.
func buildReferences(existing, parentMessageID string) string {
	if existing == "" {
		return parentMessageID
	}
	if parentMessageID == "" {
		return existing
	}
	return existing + " " + parentMessageID
}
