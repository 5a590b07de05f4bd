package google

// DefaultOAuthScopes are the Google OAuth scopes the assistant requires.
// These scopes are used consistently across the application for OAuth configurations.
//
// The scopes provide access to:
//   - Google Calendar: full access (create, update, delete events, free/busy)
//   - Gmail: read, compose (drafts), send
//   - Contacts: read-only (recipient lookup)
var DefaultOAuthScopes = []string{
	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",

	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.compose",

	// Contacts scope
	"https://www.googleapis.com/auth/contacts.readonly",
}
