package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/pg"
)

// Directory reads users and customers from the application's tables:
//
//	users(id, role, is_active)
//	customers(id, user_id)
//
// It never writes to them.
type Directory struct {
	db DB
}

var _ notifications.Directory = (*Directory)(nil)

// NewDirectory creates a directory over db.
func NewDirectory(db DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) ActiveUserIDs(ctx context.Context, role notifications.Role) ([]string, error) {
	rows, err := d.db.Query(ctx,
		`SELECT id::text FROM users WHERE role = $1 AND is_active ORDER BY id`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return ids, nil
}

func (d *Directory) CustomerOwner(ctx context.Context, customerID string) (string, error) {
	var userID *string
	err := d.db.QueryRow(ctx,
		`SELECT user_id::text FROM customers WHERE id::text = $1`, customerID).Scan(&userID)
	if pg.IsNotFoundError(err) || (err == nil && userID == nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find customer owner: %w", err)
	}
	return *userID, nil
}

func (d *Directory) CustomerOf(ctx context.Context, userID string) (string, error) {
	var customerID string
	err := d.db.QueryRow(ctx,
		`SELECT id::text FROM customers WHERE user_id::text = $1 LIMIT 1`, userID).Scan(&customerID)
	if pg.IsNotFoundError(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find customer of user: %w", err)
	}
	return customerID, nil
}
