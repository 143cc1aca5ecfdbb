package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// GroupRepository resolves groups and their memberships.
type GroupRepository interface {
	GroupsOfUser(ctx context.Context, userID string) ([]domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	GetByID(ctx context.Context, id string) (*domain.Group, error)
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository returns a Postgres-backed implementation.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

const groupSelect = `
        SELECT g.id, g.name,
               COALESCE(array_agg(m.user_id) FILTER (WHERE m.user_id IS NOT NULL), '{}'),
               g.created_at, g.updated_at
        FROM groups g
        LEFT JOIN group_members m ON m.group_id = g.id`

func (r *groupRepository) GroupsOfUser(ctx context.Context, userID string) ([]domain.Group, error) {
	const query = groupSelect + `
        WHERE g.id IN (SELECT group_id FROM group_members WHERE user_id=$1)
        GROUP BY g.id ORDER BY g.name ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (r *groupRepository) List(ctx context.Context) ([]domain.Group, error) {
	const query = groupSelect + `
        GROUP BY g.id ORDER BY g.name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	const query = groupSelect + `
        WHERE g.id=$1 GROUP BY g.id`
	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Members,
		&group.CreatedAt,
		&group.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &group, nil
}

func scanGroups(rows pgx.Rows) ([]domain.Group, error) {
	var result []domain.Group
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.Members, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	return result, rows.Err()
}
