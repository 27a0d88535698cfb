package drive

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/bpopineau/gspace/internal/gapi"
)

// idPattern matches raw Drive resource IDs. Titles containing only these
// characters at this length are indistinguishable from IDs; IDs win.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{25,}$`)

// urlPathPattern extracts the ID segment from the Drive/Docs/Sheets URL
// forms: .../d/<id>/..., .../file/d/<id>/..., .../folders/<id>.
var urlPathPattern = regexp.MustCompile(`/(?:d|folders)/([A-Za-z0-9_-]+)`)

// ExtractID pulls a file ID out of a Google Drive, Docs, Sheets or Slides
// URL. Returns false if ref is not a recognizable URL.
func ExtractID(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return "", false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	if m := urlPathPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1], true
	}

	// Legacy form: https://drive.google.com/open?id=<id>
	if id := u.Query().Get("id"); id != "" {
		return id, true
	}

	return "", false
}

// LooksLikeID reports whether ref has the shape of a raw Drive resource ID.
func LooksLikeID(ref string) bool {
	return idPattern.MatchString(ref)
}

// ResolveID translates a human-supplied reference into a canonical file ID.
// Resolution order: raw ID form, then URL extraction, then title lookup.
// Title lookups return the most recently modified match; zero matches is an
// error wrapping gapi.ErrNotFound.
func (c *Client) ResolveID(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("reference is required")
	}

	if LooksLikeID(ref) {
		return ref, nil
	}

	if id, ok := ExtractID(ref); ok {
		return id, nil
	}

	return c.resolveByTitle(ctx, ref, "")
}

// ResolveIDWithType resolves like ResolveID but constrains title lookups to
// a MIME type, e.g. sheets resolution passes the spreadsheet MIME type so a
// document with the same title does not win.
func (c *Client) ResolveIDWithType(ctx context.Context, ref, mimeType string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("reference is required")
	}

	if LooksLikeID(ref) {
		return ref, nil
	}

	if id, ok := ExtractID(ref); ok {
		return id, nil
	}

	return c.resolveByTitle(ctx, ref, mimeType)
}

func (c *Client) resolveByTitle(ctx context.Context, title, mimeType string) (string, error) {
	// Drive's query language escapes single quotes with a backslash
	escaped := strings.ReplaceAll(title, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)

	query := fmt.Sprintf("name = '%s'", escaped)
	if mimeType != "" {
		query += fmt.Sprintf(" and mimeType = '%s'", mimeType)
	}

	files, err := c.ListFiles(ctx, ListOptions{
		Query:      query,
		OrderBy:    "modifiedTime desc",
		MaxResults: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve title %q: %w", title, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no file with title %q: %w", title, gapi.ErrNotFound)
	}

	return files[0].ID, nil
}
