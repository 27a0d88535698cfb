package google

// DefaultOAuthScopes are the Google OAuth scopes required for all wrappers.
//
// The scopes provide access to:
//   - Drive: full access (also used for Sheets/Docs title resolution)
//   - Sheets, Docs: full access
//   - Calendar, Tasks: full access
//   - Gmail: read, modify, send
//   - Contacts: read and write, plus other-contacts read
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/tasks",

	"https://mail.google.com/",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",

	"https://www.googleapis.com/auth/contacts",
	"https://www.googleapis.com/auth/contacts.other.readonly",
}
