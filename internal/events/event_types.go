package events

import (
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket:created"
	EventTicketCommentAdded EventType = "ticket:comment:added"
)

// Event represents a domain event emitted after a confirmed mutation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	TicketUID int64       `json:"ticket_uid"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries the created ticket.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// TicketCommentAddedPayload carries the saved ticket and the new comment.
type TicketCommentAddedPayload struct {
	Ticket  domain.Ticket  `json:"ticket"`
	Comment domain.Comment `json:"comment"`
}
