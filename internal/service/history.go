package service

import (
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// HistoryRecorder appends immutable audit entries to a ticket. The entries
// ride inside the ticket document, so they persist in the same write as the
// mutation they describe.
type HistoryRecorder struct{}

// RecordCreation appends the single seed entry for a new ticket and returns
// it. It is attached before the ticket is persisted, never after the fact.
func (HistoryRecorder) RecordCreation(ticket *domain.Ticket, now time.Time) domain.HistoryItem {
	item := domain.HistoryItem{
		Action:      domain.ActionTicketCreated,
		Description: "Ticket was created.",
		Date:        now,
	}
	ticket.History = append(ticket.History, item)
	return item
}

// RecordComment appends the audit entry matching a new comment.
func (HistoryRecorder) RecordComment(ticket *domain.Ticket, actingUserID string, now time.Time) domain.HistoryItem {
	owner := actingUserID
	item := domain.HistoryItem{
		Action:      domain.ActionTicketCommentAdded,
		Description: "Comment was added",
		OwnerID:     &owner,
		Date:        now,
	}
	ticket.History = append(ticket.History, item)
	return item
}
