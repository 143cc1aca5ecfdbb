package dto

import "time"

// UserView identifies the requesting user on every page.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketRow is a single listing entry.
type TicketRow struct {
	UID          int64     `json:"uid"`
	Subject      string    `json:"subject"`
	Status       int       `json:"status"`
	StatusName   string    `json:"status_name"`
	PriorityName string    `json:"priority_name"`
	Tags         []string  `json:"tags"`
	CommentCount int       `json:"comment_count"`
	OwnerID      string    `json:"owner_id"`
	GroupID      string    `json:"group_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListPage is the view model for every ticket listing. It is built fresh per
// request and never shared.
type ListPage struct {
	Title   string      `json:"title"`
	Nav     string      `json:"nav"`
	Subnav  string      `json:"subnav,omitempty"`
	User    UserView    `json:"user"`
	Tickets []TicketRow `json:"tickets"`
}

// CommentView is a rendered reply.
type CommentView struct {
	OwnerID string    `json:"owner_id"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
}

// HistoryView is an audit trail entry.
type HistoryView struct {
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	Date        time.Time `json:"date"`
}

// TicketView carries the full ticket plus the derived presentation fields.
type TicketView struct {
	ID           string        `json:"id"`
	UID          int64         `json:"uid"`
	OwnerID      string        `json:"owner_id"`
	GroupID      string        `json:"group_id"`
	GroupName    string        `json:"group_name,omitempty"`
	TypeID       string        `json:"type_id"`
	Status       int           `json:"status"`
	StatusName   string        `json:"status_name"`
	PriorityName string        `json:"priority_name"`
	TagsArray    []string      `json:"tags_array"`
	Subject      string        `json:"subject"`
	Issue        string        `json:"issue"`
	CommentCount int           `json:"comment_count"`
	Comments     []CommentView `json:"comments"`
	History      []HistoryView `json:"history"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TicketPage is the view model for single-ticket views. Layout is set for
// the print variant only.
type TicketPage struct {
	Title  string     `json:"title"`
	Nav    string     `json:"nav"`
	Layout string     `json:"layout,omitempty"`
	User   UserView   `json:"user"`
	Ticket TicketView `json:"ticket"`
}

// GroupView is a selectable group.
type GroupView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TypeView is a selectable ticket type.
type TypeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatePage backs the submission form.
type CreatePage struct {
	Title       string      `json:"title"`
	Nav         string      `json:"nav"`
	User        UserView    `json:"user"`
	Groups      []GroupView `json:"groups"`
	TicketTypes []TypeView  `json:"ticket_types"`
}

// EditPage backs the edit form.
type EditPage struct {
	Title       string      `json:"title"`
	Nav         string      `json:"nav"`
	User        UserView    `json:"user"`
	Groups      []GroupView `json:"groups"`
	TicketTypes []TypeView  `json:"ticket_types"`
	Ticket      TicketView  `json:"ticket"`
}

// SubmitTicketRequest payload.
type SubmitTicketRequest struct {
	GroupID  string `json:"group_id"`
	TypeID   string `json:"type_id"`
	Priority int    `json:"priority"`
	Subject  string `json:"subject"`
	Issue    string `json:"issue"`
	Tags     string `json:"tags"`
}

// SubmitTicketResponse payload.
type SubmitTicketResponse struct {
	Success bool       `json:"success"`
	Ticket  TicketView `json:"ticket"`
}

// PostCommentRequest payload.
type PostCommentRequest struct {
	TicketID string `json:"ticket_id"`
	Comment  string `json:"comment"`
}
