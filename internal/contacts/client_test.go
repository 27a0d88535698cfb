package contacts

import (
	"context"
	"testing"

	"google.golang.org/api/people/v1"
)

func TestToContact(t *testing.T) {
	contact := toContact(&people.Person{
		ResourceName: "people/c123",
		Names:        []*people.Name{{DisplayName: "Alice Smith"}},
		EmailAddresses: []*people.EmailAddress{
			{Value: "alice@example.com"},
			{Value: "alice@work.example.com"},
		},
		PhoneNumbers:  []*people.PhoneNumber{{Value: "+49 170 1234567"}},
		Organizations: []*people.Organization{{Name: "Example GmbH"}},
	})

	if contact == nil {
		t.Fatal("Expected contact")
	}
	if contact.DisplayName != "Alice Smith" {
		t.Errorf("DisplayName = %s", contact.DisplayName)
	}
	if contact.PrimaryEmail() != "alice@example.com" {
		t.Errorf("PrimaryEmail = %s", contact.PrimaryEmail())
	}
	if len(contact.Emails) != 2 {
		t.Errorf("Emails = %v", contact.Emails)
	}
	if contact.Organization != "Example GmbH" {
		t.Errorf("Organization = %s", contact.Organization)
	}
}

func TestToContactEmpty(t *testing.T) {
	if toContact(nil) != nil {
		t.Error("Nil person must yield nil contact")
	}
	if toContact(&people.Person{ResourceName: "people/c1"}) != nil {
		t.Error("Person without name, email or phone must yield nil contact")
	}
}

func TestMatchesQuery(t *testing.T) {
	contact := &Contact{
		DisplayName: "Alice Smith",
		Emails:      []string{"alice@example.com"},
		Phones:      []string{"+491701234567"},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"alice", true},
		{"smith", true},
		{"example.com", true},
		{"+4917", true},
		{"bob", false},
	}

	for _, tt := range tests {
		if got := matchesQuery(contact, tt.query); got != tt.want {
			t.Errorf("matchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestSearchContactsRequiresQuery(t *testing.T) {
	c := &Client{}
	if _, err := c.SearchContacts(context.Background(), "", 10); err == nil {
		t.Error("Expected error for empty query")
	}
}

func TestCreateContactValidation(t *testing.T) {
	c := &Client{}
	if _, _, err := c.CreateContact(context.Background(), ContactInput{}); err == nil {
		t.Error("Expected error when both name and email are missing")
	}
}
