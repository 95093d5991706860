package google

// Event is the calendar event representation returned to API clients, with
// start and end already rewritten into the application's fixed timezone.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime mirrors the Calendar API shape: timed events carry DateTime,
// all-day events carry Date. Exactly one of the two is set.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}
