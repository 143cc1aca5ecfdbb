package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Save rewrites the whole
// ticket document (including comments and history) in a single statement, so
// appends land atomically; a stale revision yields pgx.ErrNoRows.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Save(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByUID(ctx context.Context, uid int64) (*domain.Ticket, error)
	ListByGroups(ctx context.Context, groupIDs []string) ([]domain.Ticket, error)
	ListByGroupsAndStatus(ctx context.Context, groupIDs []string, status domain.Status) ([]domain.Ticket, error)
	ListAssignedTo(ctx context.Context, userID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, uid, owner_id, group_id, assignee_id, type_id, status, priority,
               tags, subject, issue, comments, history, revision, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_id, group_id, assignee_id, type_id, status, priority, tags, subject, issue, comments, history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, uid, revision, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.GroupID,
		ticket.AssigneeID,
		ticket.TypeID,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.Subject,
		ticket.Issue,
		ticket.Comments,
		ticket.History,
	).Scan(&ticket.ID, &ticket.UID, &ticket.Revision, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET group_id=$1, assignee_id=$2, type_id=$3, status=$4, priority=$5,
            tags=$6, subject=$7, issue=$8, comments=$9, history=$10,
            revision=revision+1, updated_at=NOW()
        WHERE id=$11 AND revision=$12
        RETURNING revision, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.GroupID,
		ticket.AssigneeID,
		ticket.TypeID,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.Subject,
		ticket.Issue,
		ticket.Comments,
		ticket.History,
		ticket.ID,
		ticket.Revision,
	).Scan(&ticket.Revision, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByUID(ctx context.Context, uid int64) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE uid=$1`
	return r.fetchSingle(ctx, query, uid)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByGroups(ctx context.Context, groupIDs []string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + `
        FROM tickets WHERE group_id = ANY($1) ORDER BY uid ASC`
	rows, err := r.pool.Query(ctx, query, groupIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByGroupsAndStatus(ctx context.Context, groupIDs []string, status domain.Status) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + `
        FROM tickets WHERE group_id = ANY($1) AND status=$2 ORDER BY uid ASC`
	rows, err := r.pool.Query(ctx, query, groupIDs, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAssignedTo(ctx context.Context, userID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + `
        FROM tickets WHERE assignee_id=$1 ORDER BY uid ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.UID,
		&ticket.OwnerID,
		&ticket.GroupID,
		&ticket.AssigneeID,
		&ticket.TypeID,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Tags,
		&ticket.Subject,
		&ticket.Issue,
		&ticket.Comments,
		&ticket.History,
		&ticket.Revision,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
