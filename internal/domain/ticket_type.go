package domain

import "time"

// TicketType categorizes tickets (e.g. "Issue", "Task", "Request").
type TicketType struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
