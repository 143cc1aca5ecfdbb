package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/service"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// TicketsHandler assembles view data for every ticket view.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListAll(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(listPage("Tickets", "", user, tickets))
}

// ListByStatus GET /tickets/filter/:status?. A missing or unknown token is
// treated exactly like an explicit request for new tickets.
func (h *TicketsHandler) ListByStatus(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	token := c.Params("status")
	if token == "" {
		token = "new"
	}
	status := domain.StatusFromToken(token)
	tickets, err := h.service.ListByStatus(c.UserContext(), user.ID, status)
	if err != nil {
		return err
	}
	return c.JSON(listPage("Tickets", "tickets-"+token, user, tickets))
}

// ListActive GET /tickets/active.
func (h *TicketsHandler) ListActive(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListActive(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(listPage("Tickets", "tickets-active", user, tickets))
}

// ListAssigned GET /tickets/assigned.
func (h *TicketsHandler) ListAssigned(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListAssigned(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(listPage("Tickets", "tickets-assigned", user, tickets))
}

// CreatePage GET /tickets/create.
func (h *TicketsHandler) CreatePage(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	groups, err := h.service.GroupsOf(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	types, err := h.service.Types(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.CreatePage{
		Title:       "Tickets - Create",
		Nav:         "tickets",
		User:        userView(user),
		Groups:      groupViews(groups),
		TicketTypes: typeViews(types),
	})
}

// EditPage GET /tickets/edit/:uid.
func (h *TicketsHandler) EditPage(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	uid, err := parseUID(c.Params("uid"))
	if err != nil {
		return err
	}
	ticket, err := h.service.GetByUID(c.UserContext(), user, uid)
	if err != nil {
		return err
	}
	groups, err := h.service.AllGroups(c.UserContext())
	if err != nil {
		return err
	}
	types, err := h.service.Types(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.EditPage{
		Title:       fmt.Sprintf("Edit Ticket #%d", ticket.UID),
		Nav:         "tickets",
		User:        userView(user),
		Groups:      groupViews(groups),
		TicketTypes: typeViews(types),
		Ticket:      ticketView(ticket),
	})
}

// Single GET /tickets/:uid.
func (h *TicketsHandler) Single(c *fiber.Ctx) error {
	return h.singleTicket(c, "")
}

// Print GET /tickets/print/:uid.
func (h *TicketsHandler) Print(c *fiber.Ctx) error {
	return h.singleTicket(c, "layout/print")
}

func (h *TicketsHandler) singleTicket(c *fiber.Ctx, layout string) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	uid, err := parseUID(c.Params("uid"))
	if err != nil {
		return err
	}
	ticket, err := h.service.GetByUID(c.UserContext(), user, uid)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketPage{
		Title:  fmt.Sprintf("Tickets - %d", ticket.UID),
		Nav:    "tickets",
		Layout: layout,
		User:   userView(user),
		Ticket: ticketView(ticket),
	})
}

// Submit POST /tickets/submit.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Submit(c.UserContext(), user.ID, service.SubmitInput{
		GroupID:  req.GroupID,
		TypeID:   req.TypeID,
		Priority: domain.Priority(req.Priority),
		Subject:  req.Subject,
		Issue:    req.Issue,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubmitTicketResponse{
		Success: true,
		Ticket:  ticketView(ticket),
	})
}

// Comment POST /tickets/comment.
func (h *TicketsHandler) Comment(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.PostCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TicketID) == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	ticket, err := h.service.PostComment(c.UserContext(), user, req.TicketID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketView(ticket)})
}

func parseUID(raw string) (int64, error) {
	uid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || uid <= 0 {
		return 0, apperrors.NewNotFound("ticket", nil)
	}
	return uid, nil
}

func userView(user *domain.User) dto.UserView {
	return dto.UserView{ID: user.ID, Name: user.Name, Email: user.Email}
}

func listPage(title, subnav string, user *domain.User, tickets []domain.Ticket) dto.ListPage {
	rows := make([]dto.TicketRow, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		rows = append(rows, dto.TicketRow{
			UID:          t.UID,
			Subject:      t.Subject,
			Status:       int(t.Status),
			StatusName:   t.Status.Name(),
			PriorityName: t.PriorityName(),
			Tags:         t.Tags,
			CommentCount: t.CommentCount(),
			OwnerID:      t.OwnerID,
			GroupID:      t.GroupID,
			UpdatedAt:    t.UpdatedAt,
		})
	}
	return dto.ListPage{
		Title:   title,
		Nav:     "tickets",
		Subnav:  subnav,
		User:    userView(user),
		Tickets: rows,
	}
}

func ticketView(t *domain.Ticket) dto.TicketView {
	comments := make([]dto.CommentView, 0, len(t.Comments))
	for _, comment := range t.Comments {
		comments = append(comments, dto.CommentView{
			OwnerID: comment.OwnerID,
			Date:    comment.Date,
			Comment: comment.Comment,
		})
	}
	history := make([]dto.HistoryView, 0, len(t.History))
	for _, item := range t.History {
		history = append(history, dto.HistoryView{
			Action:      item.Action,
			Description: item.Description,
			OwnerID:     item.OwnerID,
			Date:        item.Date,
		})
	}
	groupName := ""
	if t.Group != nil {
		groupName = t.Group.Name
	}
	return dto.TicketView{
		ID:           t.ID,
		UID:          t.UID,
		OwnerID:      t.OwnerID,
		GroupID:      t.GroupID,
		GroupName:    groupName,
		TypeID:       t.TypeID,
		Status:       int(t.Status),
		StatusName:   t.Status.Name(),
		PriorityName: t.PriorityName(),
		TagsArray:    t.Tags,
		Subject:      t.Subject,
		Issue:        t.Issue,
		CommentCount: t.CommentCount(),
		Comments:     comments,
		History:      history,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func groupViews(groups []domain.Group) []dto.GroupView {
	views := make([]dto.GroupView, 0, len(groups))
	for _, group := range groups {
		views = append(views, dto.GroupView{ID: group.ID, Name: group.Name})
	}
	return views
}

func typeViews(types []domain.TicketType) []dto.TypeView {
	views := make([]dto.TypeView, 0, len(types))
	for _, tt := range types {
		views = append(views, dto.TypeView{ID: tt.ID, Name: tt.Name})
	}
	return views
}
