package tools

// Name identifies a tool the assistant can invoke. The set is closed:
// every switch over Name in this package covers all supported tools, and
// adding a tool means extending those switches.
type Name string

const (
	ListEvents          Name = "list_events"
	GetAvailableSlots   Name = "get_available_slots"
	CreateCalendarEvent Name = "create_calendar_event"
	UpdateCalendarEvent Name = "update_calendar_event"
	DeleteCalendarEvent Name = "delete_calendar_event"
	SearchEmails        Name = "search_emails"
	GetEmailContent     Name = "get_email_content"
	SearchContacts      Name = "search_contacts"
	SendEmail           Name = "send_email"
	DraftEmail          Name = "draft_email"
)

// Names returns every supported tool in a stable order.
func Names() []Name {
	return []Name{
		ListEvents,
		GetAvailableSlots,
		CreateCalendarEvent,
		UpdateCalendarEvent,
		DeleteCalendarEvent,
		SearchEmails,
		GetEmailContent,
		SearchContacts,
		SendEmail,
		DraftEmail,
	}
}

// Valid reports whether n names a supported tool.
func (n Name) Valid() bool {
	switch n {
	case ListEvents, GetAvailableSlots, CreateCalendarEvent,
		UpdateCalendarEvent, DeleteCalendarEvent,
		SearchEmails, GetEmailContent, SearchContacts,
		SendEmail, DraftEmail:
		return true
	}
	return false
}

// Category groups a tool by the domain it operates on, either
// "calendar" or "email".
func (n Name) Category() string {
	switch n {
	case ListEvents, GetAvailableSlots, CreateCalendarEvent,
		UpdateCalendarEvent, DeleteCalendarEvent:
		return "calendar"
	case SearchEmails, GetEmailContent, SearchContacts,
		SendEmail, DraftEmail:
		return "email"
	}
	return "unknown"
}

func (n Name) String() string {
	return string(n)
}
