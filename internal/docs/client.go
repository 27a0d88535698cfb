package docs

import (
	"context"
	"fmt"

	docsapi "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Resolver translates a human-supplied reference (title, URL or ID) into a
// canonical file ID, constrained to a MIME type. Implemented by the Drive
// client.
type Resolver interface {
	ResolveIDWithType(ctx context.Context, ref, mimeType string) (string, error)
}

// Client wraps the Google Docs API service.
type Client struct {
	svc      *docsapi.Service
	inv      *gapi.Invoker
	resolver Resolver
	account  string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed Docs service. The
// resolver may be nil, in which case only raw IDs and URLs resolve.
func New(svc *docsapi.Service, inv *gapi.Invoker, resolver Resolver, account string) *Client {
	return &Client{svc: svc, inv: inv, resolver: resolver, account: account}
}

// NewClientForAccount creates a Docs client with OAuth2 authentication for
// a specific account. Title resolution is unavailable on clients built this
// way; use the workspace factory to get a Drive-backed resolver.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := docsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceDocs, gapi.NewRateLimiter(gapi.ServiceDocs), nil, nil)
	return New(svc, inv, nil, account), nil
}

// NewClient creates a Docs client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Resolve translates a document reference (title, URL or ID) into a
// canonical document ID.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	if c.resolver == nil {
		return "", fmt.Errorf("no resolver configured: pass a document ID or URL")
	}
	return c.resolver.ResolveIDWithType(ctx, ref, DocumentMimeType)
}

// GetDocument retrieves a document's metadata and extracted plain text.
// Tab content is requested so tabbed documents come back complete.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	raw, err := c.getRaw(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &Document{
		DocumentInfo: DocumentInfo{
			ID:       raw.DocumentId,
			Title:    raw.Title,
			Revision: raw.RevisionId,
		},
		Text: PlainText(raw),
	}, nil
}

func (c *Client) getRaw(ctx context.Context, documentID string) (*docsapi.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}

	var result *docsapi.Document
	err := c.inv.Read(ctx, "documents.get", func() error {
		var callErr error
		result, callErr = c.svc.Documents.Get(documentID).
			IncludeTabsContent(true).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return result, nil
}

// CreateDocument creates a new empty document with the given title.
func (c *Client) CreateDocument(ctx context.Context, title string, opts ...gapi.CallOption) (*DocumentInfo, *dryrun.Report, error) {
	if title == "" {
		return nil, nil, fmt.Errorf("title is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("docs", "documents.create", title).
			WithChange("title", title).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var created *docsapi.Document
	err := c.inv.Mutate(ctx, "documents.create", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.Documents.Create(&docsapi.Document{Title: title}).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create document: %w", err)
	}

	return &DocumentInfo{
		ID:       created.DocumentId,
		Title:    created.Title,
		Revision: created.RevisionId,
	}, nil, nil
}

// InsertText inserts text at a character index in the document body.
// Index 1 is the start of the body.
func (c *Client) InsertText(ctx context.Context, documentID string, index int64, text string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if index < 1 {
		return nil, fmt.Errorf("index must be >= 1, got %d", index)
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("docs", "documents.batchUpdate", documentID).
			WithChange("insertText", len(text)).
			WithChange("index", index).
			WithReason(callOpts.Reason)), nil
	}

	err := c.inv.Mutate(ctx, "documents.batchUpdate", callOpts, func() error {
		_, callErr := c.svc.Documents.BatchUpdate(documentID, &docsapi.BatchUpdateDocumentRequest{
			Requests: []*docsapi.Request{
				{InsertText: &docsapi.InsertTextRequest{
					Text:     text,
					Location: &docsapi.Location{Index: index},
				}},
			},
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert text into %s: %w", documentID, err)
	}
	return nil, nil
}

// AppendText inserts text just before the document's trailing newline.
// The current end index is read first, so the operation is two API calls.
func (c *Client) AppendText(ctx context.Context, documentID, text string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("docs", "documents.batchUpdate", documentID).
			WithChange("appendText", len(text)).
			WithReason(callOpts.Reason)), nil
	}

	raw, err := c.getRaw(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return c.InsertText(ctx, documentID, endIndex(raw), text, opts...)
}

// ReplaceText replaces every occurrence of a string in the document and
// reports how many occurrences changed. The match is case-sensitive.
func (c *Client) ReplaceText(ctx context.Context, documentID, find, replace string, opts ...gapi.CallOption) (*ReplaceResult, *dryrun.Report, error) {
	if documentID == "" {
		return nil, nil, fmt.Errorf("documentID is required")
	}
	if find == "" {
		return nil, nil, fmt.Errorf("find text is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("docs", "documents.batchUpdate", documentID).
			WithChange("replaceText", find).
			WithChange("replacement", replace).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	// Replacing all occurrences converges on retry
	callOpts.RetryWrite = true

	var result *docsapi.BatchUpdateDocumentResponse
	err := c.inv.Mutate(ctx, "documents.batchUpdate", callOpts, func() error {
		var callErr error
		result, callErr = c.svc.Documents.BatchUpdate(documentID, &docsapi.BatchUpdateDocumentRequest{
			Requests: []*docsapi.Request{
				{ReplaceAllText: &docsapi.ReplaceAllTextRequest{
					ReplaceText: replace,
					ContainsText: &docsapi.SubstringMatchCriteria{
						Text:      find,
						MatchCase: true,
					},
				}},
			},
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to replace text in %s: %w", documentID, err)
	}

	out := &ReplaceResult{}
	for _, reply := range result.Replies {
		if reply.ReplaceAllText != nil {
			out.Occurrences += reply.ReplaceAllText.OccurrencesChanged
		}
	}
	return out, nil, nil
}
