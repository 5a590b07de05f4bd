// Package calendar provides a client for interacting with the Google Calendar API.
//
// This package offers functionality for managing calendar events, including
// creating, reading, updating, and deleting events, as well as checking
// availability and finding open time slots for scheduling meetings during
// working hours.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx, tokenProvider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List upcoming events
//	events, err := client.ListEvents("primary", time.Now(), time.Now().AddDate(0, 0, 7), 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
