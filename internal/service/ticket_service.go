package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// RichTextRenderer converts user-entered markdown to stored HTML. Pure, no
// side effects.
type RichTextRenderer interface {
	Render(text string) string
}

// TicketService aggregates group-visible tickets and coordinates the two
// mutating workflows (submission, commenting).
type TicketService struct {
	tickets    repository.TicketRepository
	groups     repository.GroupRepository
	types      repository.TicketTypeRepository
	renderer   RichTextRenderer
	dispatcher events.Dispatcher
	guard      *AccessGuard
	history    HistoryRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	GroupRepo  repository.GroupRepository
	TypeRepo   repository.TicketTypeRepository
	Renderer   RichTextRenderer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SubmitInput describes a ticket submission payload. Tags arrive as the raw
// comma-delimited form field.
type SubmitInput struct {
	GroupID  string
	TypeID   string
	Priority domain.Priority
	Subject  string
	Issue    string
	Tags     string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		groups:     deps.GroupRepo,
		types:      deps.TypeRepo,
		renderer:   deps.Renderer,
		dispatcher: deps.Dispatcher,
		guard:      NewAccessGuard(deps.Logger),
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Guard exposes the access guard for callers that resolve tickets themselves.
func (s *TicketService) Guard() *AccessGuard {
	return s.guard
}

// ListAll returns every ticket visible to the user's groups, any status.
func (s *TicketService) ListAll(ctx context.Context, userID string) ([]domain.Ticket, error) {
	groupIDs, err := s.groupIDsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByGroups(ctx, groupIDs)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return tickets, nil
}

// ListByStatus returns group-visible tickets filtered to one status.
func (s *TicketService) ListByStatus(ctx context.Context, userID string, status domain.Status) ([]domain.Ticket, error) {
	groupIDs, err := s.groupIDsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByGroupsAndStatus(ctx, groupIDs, status)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return tickets, nil
}

// ListActive returns the deduplicated union of New, Open and Pending tickets
// for the user's groups. The three status queries run in order and the first
// failure aborts the whole aggregate; partial unions are never returned.
func (s *TicketService) ListActive(ctx context.Context, userID string) ([]domain.Ticket, error) {
	groupIDs, err := s.groupIDsOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	var combined []domain.Ticket
	seen := make(map[int64]struct{})
	for _, status := range []domain.Status{domain.StatusNew, domain.StatusOpen, domain.StatusPending} {
		tickets, err := s.tickets.ListByGroupsAndStatus(ctx, groupIDs, status)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		for _, t := range tickets {
			// Dedup by uid guards against a store that reports the same
			// ticket under more than one status.
			if _, ok := seen[t.UID]; ok {
				continue
			}
			seen[t.UID] = struct{}{}
			combined = append(combined, t)
		}
	}
	return combined, nil
}

// ListAssigned returns tickets assigned to the user. Assignment is a stronger
// signal than group membership, so no group filter applies here.
func (s *TicketService) ListAssigned(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListAssignedTo(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return tickets, nil
}

// GetByUID loads a single ticket with its group hydrated and enforces the
// membership gate before disclosing anything.
func (s *TicketService) GetByUID(ctx context.Context, user *domain.User, uid int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	group, err := s.groups.GetByID(ctx, ticket.GroupID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	ticket.Group = group
	if err := s.guard.Authorize(user, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GroupsOf resolves the groups the user belongs to, sorted by name.
func (s *TicketService) GroupsOf(ctx context.Context, userID string) ([]domain.Group, error) {
	groups, err := s.groups.GroupsOfUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return groups, nil
}

// AllGroups lists every group, for the edit view.
func (s *TicketService) AllGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return groups, nil
}

// Types lists the configured ticket types.
func (s *TicketService) Types(ctx context.Context) ([]domain.TicketType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return types, nil
}

// Submit validates and creates a ticket. Status is fixed at New, the history
// is seeded with the creation entry inside the same create, and the
// ticket:created event fires only after the store confirms the write. A
// validation failure rejects the submission outright: no store call, no
// event.
func (s *TicketService) Submit(ctx context.Context, ownerID string, input SubmitInput) (*domain.Ticket, error) {
	missing := []string{}
	if strings.TrimSpace(input.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(input.Issue) == "" {
		missing = append(missing, "issue")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("please fill out all fields", map[string]any{"missing": missing})
	}

	now := s.now()
	ticket := &domain.Ticket{
		OwnerID:  ownerID,
		GroupID:  input.GroupID,
		TypeID:   input.TypeID,
		Status:   domain.StatusNew,
		Priority: input.Priority,
		Tags:     domain.ParseTags(input.Tags),
		Subject:  strings.TrimSpace(input.Subject),
		Issue:    s.renderer.Render(input.Issue),
		Comments: []domain.Comment{},
	}
	if ticket.Priority == 0 {
		ticket.Priority = domain.PriorityNormal
	}
	s.history.RecordCreation(ticket, now)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Once dispatched the create runs to completion; a caller hanging up
	// mid-write must not produce a ticket without its seed history entry.
	if err := s.tickets.Create(context.WithoutCancel(ctx), ticket); err != nil {
		s.logger.Warn("ticket create failed",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return nil, apperrors.NewStoreUnavailable(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		TicketUID: ticket.UID,
		ActorID:   ownerID,
		Payload:   events.TicketCreatedPayload{Ticket: *ticket},
	})
	return ticket, nil
}

// PostComment appends a comment and its matching history entry to a ticket.
// Both arrays and the updated timestamp persist in one save; the
// ticket:comment:added event fires only after that save is confirmed.
func (s *TicketService) PostComment(ctx context.Context, actingUser *domain.User, ticketID, rawComment string) (*domain.Ticket, error) {
	// TODO: reject blank comment bodies before rendering.
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	now := s.now()
	comment := domain.Comment{
		OwnerID: actingUser.ID,
		Date:    now,
		Comment: s.renderer.Render(normalizeLineBreaks(rawComment)),
	}
	ticket.Comments = append(ticket.Comments, comment)
	s.history.RecordComment(ticket, actingUser.ID, now)
	ticket.UpdatedAt = now

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.tickets.Save(context.WithoutCancel(ctx), ticket); err != nil {
		s.logger.Warn("comment save failed",
			zap.String("user_id", actingUser.ID),
			zap.String("ticket_id", ticket.ID),
			zap.Int64("ticket_uid", ticket.UID),
			zap.Error(err))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("ticket was modified concurrently", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCommentAdded,
		TicketID:  ticket.ID,
		TicketUID: ticket.UID,
		ActorID:   actingUser.ID,
		Payload:   events.TicketCommentAddedPayload{Ticket: *ticket, Comment: comment},
	})
	return ticket, nil
}

var lineBreakPattern = regexp.MustCompile(`\r\n|\n\r|\r|\n`)

// normalizeLineBreaks collapses every line break variant in a raw comment to
// a single presentational <br> marker before markdown rendering.
func normalizeLineBreaks(text string) string {
	return lineBreakPattern.ReplaceAllString(text, "<br>")
}

func (s *TicketService) groupIDsOf(ctx context.Context, userID string) ([]string, error) {
	groups, err := s.groups.GroupsOfUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	ids := make([]string, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.ID)
	}
	return ids, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
