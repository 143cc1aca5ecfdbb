package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// TicketTypeRepository lists the configured ticket categories.
type TicketTypeRepository interface {
	List(ctx context.Context) ([]domain.TicketType, error)
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository builds repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) List(ctx context.Context) ([]domain.TicketType, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM ticket_types ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, tt)
	}
	return result, rows.Err()
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM ticket_types WHERE id=$1`
	var tt domain.TicketType
	if err := r.pool.QueryRow(ctx, query, id).Scan(&tt.ID, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
		return nil, err
	}
	return &tt, nil
}
