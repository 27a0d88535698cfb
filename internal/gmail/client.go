package gmail

import (
	"context"
	"fmt"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc     *gmailapi.UsersService
	inv     *gapi.Invoker
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed Gmail service.
func New(svc *gmailapi.Service, inv *gapi.Invoker, account string) *Client {
	return &Client{svc: svc.Users, inv: inv, account: account}
}

// NewClientForAccount creates a Gmail client with OAuth2 authentication
// for a specific account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceGmail, gapi.NewRateLimiter(gapi.ServiceGmail), nil, nil)
	return New(svc, inv, account), nil
}

// NewClient creates a Gmail client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// SearchMessages lists messages matching a Gmail search query, newest
// first, with per-message metadata headers resolved.
func (c *Client) SearchMessages(ctx context.Context, query string, maxResults int) ([]MessageInfo, error) {
	ids, err := gapi.CollectPages(ctx, maxResults, func(ctx context.Context, pageToken string) ([]*gmailapi.Message, string, error) {
		var result *gmailapi.ListMessagesResponse
		err := c.inv.Read(ctx, "messages.list", func() error {
			var callErr error
			result, callErr = c.svc.Messages.List("me").
				Q(query).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.Messages, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	infos := make([]MessageInfo, 0, len(ids))
	for _, id := range ids {
		var msg *gmailapi.Message
		err := c.inv.Read(ctx, "messages.get", func() error {
			var callErr error
			msg, callErr = c.svc.Messages.Get("me", id.Id).
				Format("metadata").
				MetadataHeaders("From", "To", "Subject", "Date").
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", id.Id, err)
		}
		infos = append(infos, toMessageInfo(msg))
	}
	return infos, nil
}

// ListThreads lists threads matching a Gmail search query.
func (c *Client) ListThreads(ctx context.Context, query string, maxResults int) ([]ThreadInfo, error) {
	threads, err := gapi.CollectPages(ctx, maxResults, func(ctx context.Context, pageToken string) ([]*gmailapi.Thread, string, error) {
		var result *gmailapi.ListThreadsResponse
		err := c.inv.Read(ctx, "threads.list", func() error {
			var callErr error
			result, callErr = c.svc.Threads.List("me").
				Q(query).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.Threads, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	infos := make([]ThreadInfo, 0, len(threads))
	for _, t := range threads {
		infos = append(infos, toThreadInfo(t))
	}
	return infos, nil
}

// GetThread retrieves a full thread with all its messages.
func (c *Client) GetThread(ctx context.Context, threadID string) ([]MessageInfo, error) {
	if threadID == "" {
		return nil, fmt.Errorf("threadID is required")
	}

	var thread *gmailapi.Thread
	err := c.inv.Read(ctx, "threads.get", func() error {
		var callErr error
		thread, callErr = c.svc.Threads.Get("me", threadID).
			Format("full").
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", threadID, err)
	}

	messages := make([]MessageInfo, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		messages = append(messages, toMessageInfo(m))
	}
	return messages, nil
}

// GetMessage retrieves one message's metadata.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*MessageInfo, error) {
	msg, err := c.getRaw(ctx, messageID)
	if err != nil {
		return nil, err
	}
	info := toMessageInfo(msg)
	return &info, nil
}

func (c *Client) getRaw(ctx context.Context, messageID string) (*gmailapi.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	var msg *gmailapi.Message
	err := c.inv.Read(ctx, "messages.get", func() error {
		var callErr error
		msg, callErr = c.svc.Messages.Get("me", messageID).
			Format("full").
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetMessageBody extracts the text or HTML body of a message. Format is
// "text" or "html".
func (c *Client) GetMessageBody(ctx context.Context, messageID, format string) (string, error) {
	if format == "" {
		format = "text"
	}

	var targetMimeType string
	switch format {
	case "text":
		targetMimeType = "text/plain"
	case "html":
		targetMimeType = "text/html"
	default:
		return "", fmt.Errorf("invalid format %s, must be 'text' or 'html'", format)
	}

	msg, err := c.getRaw(ctx, messageID)
	if err != nil {
		return "", err
	}

	var body string
	if msg.Payload != nil {
		if msg.Payload.MimeType == targetMimeType && msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
			body = msg.Payload.Body.Data
		} else {
			walkParts(msg.Payload, func(part *gmailapi.MessagePart) {
				if body == "" && part.MimeType == targetMimeType && part.Body != nil && part.Body.Data != "" {
					body = part.Body.Data
				}
			})
		}
	}

	if body == "" {
		return "", fmt.Errorf("no %s body found in message %s", format, messageID)
	}

	decoded, err := decodeBody(body)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// ListLabels lists all labels of the mailbox.
func (c *Client) ListLabels(ctx context.Context) ([]LabelInfo, error) {
	var result *gmailapi.ListLabelsResponse
	err := c.inv.Read(ctx, "labels.list", func() error {
		var callErr error
		result, callErr = c.svc.Labels.List("me").Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make([]LabelInfo, 0, len(result.Labels))
	for _, l := range result.Labels {
		labels = append(labels, LabelInfo{
			ID:       l.Id,
			Name:     l.Name,
			Type:     l.Type,
			Unread:   l.MessagesUnread,
			Messages: l.MessagesTotal,
		})
	}
	return labels, nil
}

// ModifyMessageLabels adds and removes labels on a message.
func (c *Client) ModifyMessageLabels(ctx context.Context, messageID string, add, remove []string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil, fmt.Errorf("no label changes requested")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("gmail", "messages.modify", messageID).
			WithChange("addLabels", add).
			WithChange("removeLabels", remove).
			WithReason(callOpts.Reason)), nil
	}

	// Label sets converge on retry
	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "messages.modify", callOpts, func() error {
		_, callErr := c.svc.Messages.Modify("me", messageID, &gmailapi.ModifyMessageRequest{
			AddLabelIds:    add,
			RemoveLabelIds: remove,
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to modify labels on %s: %w", messageID, err)
	}
	return nil, nil
}

// ArchiveThread removes the INBOX label from a whole thread.
func (c *Client) ArchiveThread(ctx context.Context, threadID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	return c.modifyThread(ctx, threadID, nil, []string{LabelInbox}, opts...)
}

// UnarchiveThread moves a thread back to the inbox.
func (c *Client) UnarchiveThread(ctx context.Context, threadID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	return c.modifyThread(ctx, threadID, []string{LabelInbox}, nil, opts...)
}

func (c *Client) modifyThread(ctx context.Context, threadID string, add, remove []string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if threadID == "" {
		return nil, fmt.Errorf("threadID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("gmail", "threads.modify", threadID).
			WithChange("addLabels", add).
			WithChange("removeLabels", remove).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "threads.modify", callOpts, func() error {
		_, callErr := c.svc.Threads.Modify("me", threadID, &gmailapi.ModifyThreadRequest{
			AddLabelIds:    add,
			RemoveLabelIds: remove,
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to modify thread %s: %w", threadID, err)
	}
	return nil, nil
}

// MarkRead removes the UNREAD label from a message.
func (c *Client) MarkRead(ctx context.Context, messageID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	return c.ModifyMessageLabels(ctx, messageID, nil, []string{LabelUnread}, opts...)
}

// MarkUnread adds the UNREAD label to a message.
func (c *Client) MarkUnread(ctx context.Context, messageID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	return c.ModifyMessageLabels(ctx, messageID, []string{LabelUnread}, nil, opts...)
}

// TrashMessage moves a message to the trash.
func (c *Client) TrashMessage(ctx context.Context, messageID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("gmail", "messages.trash", messageID).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "messages.trash", callOpts, func() error {
		_, callErr := c.svc.Messages.Trash("me", messageID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to trash message %s: %w", messageID, err)
	}
	return nil, nil
}

// SendEmail sends a composed email. Sends are never retried; a repeated
// send delivers a duplicate.
func (c *Client) SendEmail(ctx context.Context, msg *EmailMessage, opts ...gapi.CallOption) (string, *dryrun.Report, error) {
	if err := msg.validate(); err != nil {
		return "", nil, err
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("gmail", "messages.send", msg.Subject).
			WithChange("to", msg.To).
			WithChange("cc", msg.Cc).
			WithChange("bodyBytes", len(msg.Body)).
			WithReason(callOpts.Reason)
		return "", c.inv.Simulated(ctx, report), nil
	}

	callOpts.RetryWrite = false

	raw := buildRawMessage(composeHeaders(msg), msg.Body)

	var sent *gmailapi.Message
	err := c.inv.Mutate(ctx, "messages.send", callOpts, func() error {
		var callErr error
		sent, callErr = c.svc.Messages.Send("me", &gmailapi.Message{Raw: raw}).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil, nil
}

// ReplyToEmail sends a reply on an existing thread. The original sender
// becomes the recipient, the subject gains a "Re: " prefix and threading
// headers are carried over.
func (c *Client) ReplyToEmail(ctx context.Context, messageID, body string, cc, bcc []string, isHTML bool, opts ...gapi.CallOption) (string, *dryrun.Report, error) {
	if messageID == "" {
		return "", nil, fmt.Errorf("messageID is required")
	}
	if body == "" {
		return "", nil, fmt.Errorf("body is required")
	}

	callOpts := gapi.ApplyOptions(opts...)

	original, err := c.getRaw(ctx, messageID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get original message: %w", err)
	}

	originalFrom := HeaderValue(original, "From")
	if originalFrom == "" {
		return "", nil, fmt.Errorf("original message has no From header")
	}
	originalMessageID := HeaderValue(original, "Message-ID")

	if callOpts.DryRun {
		report := dryrun.New("gmail", "messages.send", messageID).
			WithChange("to", originalFrom).
			WithChange("threadId", original.ThreadId).
			WithReason(callOpts.Reason)
		return "", c.inv.Simulated(ctx, report), nil
	}

	callOpts.RetryWrite = false

	headers := []header{
		{"To", originalFrom},
		{"Cc", strings.Join(cc, ", ")},
		{"Bcc", strings.Join(bcc, ", ")},
		{"Subject", encodeRFC2047(replySubject(HeaderValue(original, "Subject")))},
		{"In-Reply-To", originalMessageID},
		{"References", buildReferences(HeaderValue(original, "References"), originalMessageID)},
		{"Content-Type", contentType(isHTML)},
	}
	raw := buildRawMessage(headers, body)

	var sent *gmailapi.Message
	err = c.inv.Mutate(ctx, "messages.send", callOpts, func() error {
		var callErr error
		sent, callErr = c.svc.Messages.Send("me", &gmailapi.Message{
			Raw:      raw,
			ThreadId: original.ThreadId,
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to send reply: %w", err)
	}
	return sent.Id, nil, nil
}

// CreateDraft saves a composed email as a draft.
func (c *Client) CreateDraft(ctx context.Context, msg *EmailMessage, opts ...gapi.CallOption) (string, *dryrun.Report, error) {
	if err := msg.validate(); err != nil {
		return "", nil, err
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("gmail", "drafts.create", msg.Subject).
			WithChange("to", msg.To).
			WithReason(callOpts.Reason)
		return "", c.inv.Simulated(ctx, report), nil
	}

	raw := buildRawMessage(composeHeaders(msg), msg.Body)

	var draft *gmailapi.Draft
	err := c.inv.Mutate(ctx, "drafts.create", callOpts, func() error {
		var callErr error
		draft, callErr = c.svc.Drafts.Create("me", &gmailapi.Draft{
			Message: &gmailapi.Message{Raw: raw},
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft.Id, nil, nil
}

// DeleteDraft removes a draft without sending it.
func (c *Client) DeleteDraft(ctx context.Context, draftID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if draftID == "" {
		return nil, fmt.Errorf("draftID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("gmail", "drafts.delete", draftID).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "drafts.delete", callOpts, func() error {
		return c.svc.Drafts.Delete("me", draftID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return nil, nil
}
