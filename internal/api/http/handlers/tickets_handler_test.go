package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	apihttp "github.com/spec-kit/ticket-tracker/internal/api/http"
	apihandlers "github.com/spec-kit/ticket-tracker/internal/api/http/handlers"
	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/service"
)

type stubTicketRepo struct {
	tickets         map[string]*domain.Ticket
	requestedStatus []domain.Status
	nextUID         int64
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: map[string]*domain.Ticket{}, nextUID: 2000}
}

func (r *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextUID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextUID)
	ticket.UID = r.nextUID
	ticket.Revision = 1
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *stubTicketRepo) Save(_ context.Context, ticket *domain.Ticket) error {
	ticket.Revision++
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if ticket, ok := r.tickets[id]; ok {
		return ticket, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) GetByUID(_ context.Context, uid int64) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.UID == uid {
			return ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) ListByGroups(_ context.Context, groupIDs []string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		for _, id := range groupIDs {
			if ticket.GroupID == id {
				out = append(out, *ticket)
			}
		}
	}
	return out, nil
}

func (r *stubTicketRepo) ListByGroupsAndStatus(ctx context.Context, groupIDs []string, status domain.Status) ([]domain.Ticket, error) {
	r.requestedStatus = append(r.requestedStatus, status)
	all, _ := r.ListByGroups(ctx, groupIDs)
	return domain.FilterByStatus(all, status), nil
}

func (r *stubTicketRepo) ListAssignedTo(_ context.Context, userID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.AssigneeID != nil && *ticket.AssigneeID == userID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

type stubGroupRepo struct {
	groups []domain.Group
}

func (r *stubGroupRepo) GroupsOfUser(_ context.Context, userID string) ([]domain.Group, error) {
	var mine []domain.Group
	for _, group := range r.groups {
		if group.HasMember(userID) {
			mine = append(mine, group)
		}
	}
	return mine, nil
}

func (r *stubGroupRepo) List(_ context.Context) ([]domain.Group, error) {
	return r.groups, nil
}

func (r *stubGroupRepo) GetByID(_ context.Context, id string) (*domain.Group, error) {
	for i := range r.groups {
		if r.groups[i].ID == id {
			return &r.groups[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubTypeRepo struct{}

func (stubTypeRepo) List(_ context.Context) ([]domain.TicketType, error) {
	return []domain.TicketType{{ID: "type-1", Name: "Issue"}}, nil
}

func (stubTypeRepo) GetByID(_ context.Context, _ string) (*domain.TicketType, error) {
	return &domain.TicketType{ID: "type-1", Name: "Issue"}, nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

type passthroughRenderer struct{}

func (passthroughRenderer) Render(text string) string { return text }

type fixture struct {
	app     *fiber.App
	tickets *stubTicketRepo
	tokens  *auth.TokenManager
}

func newFixture() *fixture {
	tickets := newStubTicketRepo()
	groups := &stubGroupRepo{groups: []domain.Group{
		{ID: "g1", Name: "Support", Members: []string{"u1"}},
		{ID: "g2", Name: "Billing", Members: []string{"u2"}},
	}}
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alex", Email: "alex@example.com"},
		"u2": {ID: "u2", Name: "Sam", Email: "sam@example.com"},
	}}

	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: tickets,
		GroupRepo:  groups,
		TypeRepo:   stubTypeRepo{},
		Renderer:   passthroughRenderer{},
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})

	tokens := auth.NewTokenManager("test-secret", 5)
	app := fiber.New()
	apihttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:   apihandlers.NewHealthHandler("ticket-tracker", "test", nil, nil),
		Tickets:  apihandlers.NewTicketsHandler(svc),
		Identity: auth.NewIdentityMiddleware(tokens, users),
	})
	return &fixture{app: app, tickets: tickets, tokens: tokens}
}

func (f *fixture) request(t *testing.T, method, path, userID string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, _, err := f.tokens.GenerateToken(userID)
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestListTicketsForGroupMember(t *testing.T) {
	f := newFixture()
	f.tickets.tickets["t1"] = &domain.Ticket{ID: "t1", UID: 1001, GroupID: "g1", Subject: "printer jam", Status: domain.StatusOpen}
	f.tickets.tickets["t2"] = &domain.Ticket{ID: "t2", UID: 1002, GroupID: "g2", Subject: "invoice dispute"}

	resp := f.request(t, http.MethodGet, "/tickets/", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var page dto.ListPage
	decodeBody(t, resp, &page)
	if page.User.ID != "u1" {
		t.Fatalf("page.User = %#v", page.User)
	}
	if len(page.Tickets) != 1 || page.Tickets[0].UID != 1001 {
		t.Fatalf("tickets = %#v, want only the g1 ticket", page.Tickets)
	}
}

func TestSingleTicketOutsideGroupLooksAbsent(t *testing.T) {
	f := newFixture()
	f.tickets.tickets["t1"] = &domain.Ticket{ID: "t1", UID: 1001, GroupID: "g1", Subject: "printer jam"}

	resp := f.request(t, http.MethodGet, "/tickets/1001", "u2", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	// The wire response must not distinguish denial from absence.
	if envelope.Error.Code != "NOT_FOUND" {
		t.Fatalf("error code = %q, want NOT_FOUND", envelope.Error.Code)
	}
}

func TestSingleTicketForGroupMember(t *testing.T) {
	f := newFixture()
	f.tickets.tickets["t1"] = &domain.Ticket{ID: "t1", UID: 1001, GroupID: "g1", Subject: "printer jam"}

	resp := f.request(t, http.MethodGet, "/tickets/1001", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var page dto.TicketPage
	decodeBody(t, resp, &page)
	if page.Ticket.UID != 1001 || page.Ticket.GroupName != "Support" {
		t.Fatalf("ticket = %#v", page.Ticket)
	}
	if page.Title != "Tickets - 1001" {
		t.Fatalf("title = %q", page.Title)
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	f := newFixture()
	resp := f.request(t, http.MethodPost, "/tickets/submit", "u1", dto.SubmitTicketRequest{
		GroupID: "g1",
		TypeID:  "type-1",
		Subject: "   ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	if envelope.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("error code = %q", envelope.Error.Code)
	}
	if len(f.tickets.tickets) != 0 {
		t.Fatalf("store must stay empty, got %#v", f.tickets.tickets)
	}
}

func TestSubmitCreatesTicket(t *testing.T) {
	f := newFixture()
	resp := f.request(t, http.MethodPost, "/tickets/submit", "u1", dto.SubmitTicketRequest{
		GroupID: "g1",
		TypeID:  "type-1",
		Subject: "VPN down",
		Issue:   "cannot connect",
		Tags:    "vpn,network",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out dto.SubmitTicketResponse
	decodeBody(t, resp, &out)
	if !out.Success {
		t.Fatal("expected success")
	}
	if out.Ticket.UID == 0 || out.Ticket.StatusName != "new" {
		t.Fatalf("ticket = %#v", out.Ticket)
	}
	if len(out.Ticket.History) != 1 {
		t.Fatalf("history = %#v, want single creation entry", out.Ticket.History)
	}
}

func TestFilterUnknownTokenBehavesAsNew(t *testing.T) {
	f := newFixture()
	resp := f.request(t, http.MethodGet, "/tickets/filter/garbage", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(f.tickets.requestedStatus) != 1 || f.tickets.requestedStatus[0] != domain.StatusNew {
		t.Fatalf("requested statuses = %#v, want [new]", f.tickets.requestedStatus)
	}
	var page dto.ListPage
	decodeBody(t, resp, &page)
	if page.Subnav != "tickets-garbage" {
		t.Fatalf("subnav = %q", page.Subnav)
	}
}

func TestRequestWithoutTokenRejected(t *testing.T) {
	f := newFixture()
	resp := f.request(t, http.MethodGet, "/tickets/", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestPostCommentThroughAPI(t *testing.T) {
	f := newFixture()
	f.tickets.tickets["t1"] = &domain.Ticket{ID: "t1", UID: 1001, GroupID: "g1", Subject: "printer jam"}

	resp := f.request(t, http.MethodPost, "/tickets/comment", "u1", dto.PostCommentRequest{
		TicketID: "t1",
		Comment:  "tried turning it off\nand on again",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Data dto.TicketView `json:"data"`
	}
	decodeBody(t, resp, &out)
	if out.Data.CommentCount != 1 {
		t.Fatalf("comment_count = %d, want 1", out.Data.CommentCount)
	}
	if out.Data.Comments[0].Comment != "tried turning it off<br>and on again" {
		t.Fatalf("comment body = %q", out.Data.Comments[0].Comment)
	}
}
