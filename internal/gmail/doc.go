// Package gmail provides a client for interacting with the Gmail API.
//
// This package offers the email functionality of the assistant:
//   - Sending emails and managing drafts
//   - Searching messages with Gmail query syntax
//   - Reading message content (headers and plain-text body)
//   - Contact search across personal, directory, and other contacts
//
// It integrates with both the Gmail API (for email operations) and the
// People API (for contact lookup), sharing one OAuth token from the google
// package.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx, tokenProvider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send an email
//	msg := &gmail.EmailMessage{
//	    To:      []string{"recipient@example.com"},
//	    Subject: "Hello",
//	    Body:    "This is a test email",
//	    IsHTML:  false,
//	}
//	msgID, err := client.SendEmail(msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Search contacts
//	contacts, err := client.SearchContacts("search query", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
