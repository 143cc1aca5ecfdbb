package domain

import "time"

// Status enumerates ticket lifecycle states. The numeric values are part of
// the storage and URL contract and must not be reordered.
type Status int

const (
	StatusNew Status = iota
	StatusOpen
	StatusPending
	StatusClosed
)

// Name returns the lowercase token used in filter URLs.
func (s Status) Name() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusPending:
		return "pending"
	case StatusClosed:
		return "closed"
	default:
		return "new"
	}
}

// Priority enumerates ticket urgency.
type Priority int

const (
	PriorityNormal   Priority = 1
	PriorityUrgent   Priority = 2
	PriorityCritical Priority = 3
)

// Name returns the readable priority label, empty for unknown values.
func (p Priority) Name() string {
	switch p {
	case PriorityNormal:
		return "Normal"
	case PriorityUrgent:
		return "Urgent"
	case PriorityCritical:
		return "Critical"
	}
	return ""
}

// History actions recorded on tickets.
const (
	ActionTicketCreated      = "ticket:created"
	ActionTicketCommentAdded = "ticket:comment:added"
)

// HistoryItem is an immutable audit entry. Entries are append-only; nothing
// in this service removes or reorders them.
type HistoryItem struct {
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	Date        time.Time `json:"date"`
}

// Comment is a rendered reply on a ticket. Immutable once appended.
type Comment struct {
	OwnerID string    `json:"owner_id"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
}

// Ticket is the aggregate for support requests. Comments and History are
// embedded in the ticket document so appends persist atomically together
// with the Updated timestamp.
type Ticket struct {
	ID         string
	UID        int64
	OwnerID    string
	GroupID    string
	Group      *Group
	AssigneeID *string
	TypeID     string
	Status     Status
	Priority   Priority
	Tags       []string
	Subject    string
	Issue      string
	Comments   []Comment
	History    []HistoryItem
	Revision   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CommentCount is derived for views, never stored.
func (t *Ticket) CommentCount() int {
	return len(t.Comments)
}

// PriorityName is derived for views, never stored.
func (t *Ticket) PriorityName() string {
	return t.Priority.Name()
}
