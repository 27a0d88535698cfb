package contacts

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Client wraps the Google People API service.
type Client struct {
	svc     *people.Service
	inv     *gapi.Invoker
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed People service.
func New(svc *people.Service, inv *gapi.Invoker, account string) *Client {
	return &Client{svc: svc, inv: inv, account: account}
}

// NewClientForAccount creates a People client with OAuth2 authentication
// for a specific account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := people.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceContacts, gapi.NewRateLimiter(gapi.ServiceContacts), nil, nil)
	return New(svc, inv, account), nil
}

// NewClient creates a People client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListContacts lists the user's saved contacts, ordered by first name.
func (c *Client) ListContacts(ctx context.Context, maxResults int) ([]*Contact, error) {
	persons, err := gapi.CollectPages(ctx, maxResults, func(ctx context.Context, pageToken string) ([]*people.Person, string, error) {
		var result *people.ListConnectionsResponse
		err := c.inv.Read(ctx, "connections.list", func() error {
			var callErr error
			result, callErr = c.svc.People.Connections.List("people/me").
				PersonFields(readMask).
				SortOrder("FIRST_NAME_ASCENDING").
				PageSize(100).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.Connections, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]*Contact, 0, len(persons))
	for _, person := range persons {
		if contact := toContact(person); contact != nil {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

// SearchContacts searches saved contacts and "other" contacts (people
// the user has corresponded with). Results are deduplicated by primary
// email; a failing source is skipped rather than failing the search.
func (c *Client) SearchContacts(ctx context.Context, query string, maxResults int) ([]*Contact, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	var contacts []*Contact
	seen := make(map[string]bool)
	queryLower := strings.ToLower(query)

	add := func(person *people.Person) {
		contact := toContact(person)
		if contact == nil {
			return
		}
		key := contact.PrimaryEmail()
		if key == "" {
			key = contact.ResourceName
		}
		if seen[key] {
			return
		}
		seen[key] = true
		contacts = append(contacts, contact)
	}

	var saved *people.SearchResponse
	err := c.inv.Read(ctx, "people.searchContacts", func() error {
		var callErr error
		saved, callErr = c.svc.People.SearchContacts().
			Query(query).
			ReadMask(readMask).
			PageSize(int64(maxResults)).
			Context(ctx).
			Do()
		return callErr
	})
	if err == nil {
		for _, result := range saved.Results {
			add(result.Person)
		}
	}

	// The other-contacts endpoint has no server-side query; page through
	// and filter locally.
	others, err := gapi.CollectPages(ctx, 0, func(ctx context.Context, pageToken string) ([]*people.Person, string, error) {
		var result *people.ListOtherContactsResponse
		err := c.inv.Read(ctx, "otherContacts.list", func() error {
			var callErr error
			result, callErr = c.svc.OtherContacts.List().
				ReadMask("names,emailAddresses,phoneNumbers").
				PageSize(100).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.OtherContacts, result.NextPageToken, nil
	})
	if err == nil {
		for _, person := range others {
			if contact := toContact(person); contact != nil && matchesQuery(contact, queryLower) {
				add(person)
			}
		}
	}

	if len(contacts) == 0 {
		return nil, fmt.Errorf("no contacts matching %q: %w", query, gapi.ErrNotFound)
	}
	if len(contacts) > maxResults {
		contacts = contacts[:maxResults]
	}
	return contacts, nil
}

// GetContact retrieves one contact by resource name (people/<id>).
func (c *Client) GetContact(ctx context.Context, resourceName string) (*Contact, error) {
	if resourceName == "" {
		return nil, fmt.Errorf("resourceName is required")
	}
	if !strings.HasPrefix(resourceName, "people/") {
		resourceName = "people/" + resourceName
	}

	var person *people.Person
	err := c.inv.Read(ctx, "people.get", func() error {
		var callErr error
		person, callErr = c.svc.People.Get(resourceName).
			PersonFields(readMask).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", resourceName, err)
	}

	contact := toContact(person)
	if contact == nil {
		return nil, fmt.Errorf("contact %s has no usable fields: %w", resourceName, gapi.ErrNotFound)
	}
	return contact, nil
}

// CreateContact creates a new saved contact.
func (c *Client) CreateContact(ctx context.Context, input ContactInput, opts ...gapi.CallOption) (*Contact, *dryrun.Report, error) {
	if input.GivenName == "" && input.Email == "" {
		return nil, nil, fmt.Errorf("a name or email is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("contacts", "people.createContact", input.Email).
			WithChange("givenName", input.GivenName).
			WithChange("familyName", input.FamilyName).
			WithChange("email", input.Email).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	person := &people.Person{}
	if input.GivenName != "" || input.FamilyName != "" {
		person.Names = []*people.Name{{
			GivenName:  input.GivenName,
			FamilyName: input.FamilyName,
		}}
	}
	if input.Email != "" {
		person.EmailAddresses = []*people.EmailAddress{{Value: input.Email}}
	}
	if input.Phone != "" {
		person.PhoneNumbers = []*people.PhoneNumber{{Value: input.Phone}}
	}

	var created *people.Person
	err := c.inv.Mutate(ctx, "people.createContact", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.People.CreateContact(person).
			PersonFields(readMask).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return toContact(created), nil, nil
}
