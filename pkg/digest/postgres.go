package digest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool the Postgres repository uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository appends items to technician_digest_items.
type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, item Item) (Item, error) {
	id := uuid.New()
	if item.ID != "" {
		parsed, err := uuid.Parse(item.ID)
		if err != nil {
			return Item{}, errors.Join(ErrInvalidItem, err)
		}
		id = parsed
	}
	payload := item.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO technician_digest_items (id, technician_id, job_id, route_date, change_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		id, item.TechnicianID, item.JobID, item.RouteDate, string(item.ChangeType), payload, item.CreatedAt,
	).Scan(&item.CreatedAt)
	if err != nil {
		return Item{}, errors.Join(ErrStorage, err)
	}
	item.ID = id.String()
	return item, nil
}
