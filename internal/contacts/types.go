package contacts

import (
	"strings"

	"google.golang.org/api/people/v1"
)

// readMask lists the person fields every read asks for.
const readMask = "names,emailAddresses,phoneNumbers,organizations"

// Contact is a flattened People API person.
type Contact struct {
	ResourceName string   `json:"resourceName"`
	DisplayName  string   `json:"displayName,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

// PrimaryEmail returns the first email address, or "".
func (c *Contact) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0]
}

// ContactInput holds the fields for creating a contact.
type ContactInput struct {
	GivenName  string
	FamilyName string
	Email      string
	Phone      string
}

// toContact flattens a person. Returns nil when the person carries no
// usable information.
func toContact(person *people.Person) *Contact {
	if person == nil {
		return nil
	}

	contact := &Contact{ResourceName: person.ResourceName}

	if len(person.Names) > 0 {
		contact.DisplayName = person.Names[0].DisplayName
	}
	for _, email := range person.EmailAddresses {
		if email.Value != "" {
			contact.Emails = append(contact.Emails, email.Value)
		}
	}
	for _, phone := range person.PhoneNumbers {
		if phone.Value != "" {
			contact.Phones = append(contact.Phones, phone.Value)
		}
	}
	if len(person.Organizations) > 0 {
		contact.Organization = person.Organizations[0].Name
	}

	if contact.DisplayName == "" && len(contact.Emails) == 0 && len(contact.Phones) == 0 {
		return nil
	}
	return contact
}

// matchesQuery reports whether a contact matches a lowercased query by
// name, email or phone substring.
func matchesQuery(contact *Contact, queryLower string) bool {
	if queryLower == "" {
		return true
	}
	if strings.Contains(strings.ToLower(contact.DisplayName), queryLower) {
		return true
	}
	for _, email := range contact.Emails {
		if strings.Contains(strings.ToLower(email), queryLower) {
			return true
		}
	}
	for _, phone := range contact.Phones {
		if strings.Contains(phone, queryLower) {
			return true
		}
	}
	return false
}
