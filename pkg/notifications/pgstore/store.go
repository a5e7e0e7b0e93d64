package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/pg"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements notifications.Storage on Postgres.
type Store struct {
	db DB
}

var _ notifications.Storage = (*Store)(nil)

// New creates a store over db.
func New(db DB) *Store {
	return &Store{db: db}
}

const notificationColumns = `id, customer_id, recipient_role, event_type, severity, status,
	actor_user_id, payload, created_at, read_at`

func (s *Store) Insert(ctx context.Context, n notifications.Notification) (notifications.Notification, error) {
	id := uuid.New()
	if n.ID != "" {
		parsed, err := uuid.Parse(n.ID)
		if err != nil {
			return notifications.Notification{}, fmt.Errorf("invalid notification id %q: %w", n.ID, err)
		}
		id = parsed
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	payload := n.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO notifications (id, customer_id, recipient_role, event_type, severity, status,
			actor_user_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+notificationColumns,
		id, nullable(n.CustomerID), string(n.RecipientRole), n.EventType, string(n.Severity), n.Status,
		nullable(n.ActorUserID), payload, n.CreatedAt,
	)
	stored, err := scanNotification(row)
	if pg.IsDuplicateKeyError(err) {
		return notifications.Notification{}, errors.Join(notifications.ErrDuplicateNotification, err)
	}
	if err != nil {
		return notifications.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return stored, nil
}

func (s *Store) Get(ctx context.Context, id string) (notifications.Notification, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return notifications.Notification{}, notifications.ErrNotificationNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, parsed)
	n, err := scanNotification(row)
	if pg.IsNotFoundError(err) {
		return notifications.Notification{}, notifications.ErrNotificationNotFound
	}
	if err != nil {
		return notifications.Notification{}, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

func (s *Store) CountUnread(ctx context.Context, f notifications.Filter) (int, error) {
	f.UnreadOnly = true
	where, args := whereClause(f)

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *Store) ListRecent(ctx context.Context, f notifications.Filter, limit int) ([]notifications.Notification, error) {
	where, args := whereClause(f)
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE ` + where + `
		ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *Store) MarkRead(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return notifications.ErrNotificationNotFound
	}
	// COALESCE keeps the first read timestamp.
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, now()) WHERE id = $1`, parsed)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkManyRead(ctx context.Context, f notifications.Filter) (int, error) {
	f.UnreadOnly = true
	where, args := whereClause(f)
	tag, err := s.db.Exec(ctx, `UPDATE notifications SET read_at = now() WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) FindPreference(ctx context.Context, userID, eventType string) (notifications.Preference, error) {
	p := notifications.Preference{UserID: userID, EventType: eventType}
	err := s.db.QueryRow(ctx, `
		SELECT enabled, updated_at FROM notification_preferences
		WHERE user_id = $1 AND event_type = $2`, userID, eventType,
	).Scan(&p.Enabled, &p.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return notifications.Preference{}, notifications.ErrPreferenceNotFound
	}
	if err != nil {
		return notifications.Preference{}, fmt.Errorf("find preference: %w", err)
	}
	return p, nil
}

func (s *Store) ListPreferences(ctx context.Context, userID string) ([]notifications.Preference, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, event_type, enabled, updated_at FROM notification_preferences
		WHERE user_id = $1 ORDER BY event_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	prefs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notifications.Preference, error) {
		var p notifications.Preference
		err := row.Scan(&p.UserID, &p.EventType, &p.Enabled, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

func (s *Store) UpsertPreference(ctx context.Context, p notifications.Preference) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, event_type, enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, event_type)
		DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = EXCLUDED.updated_at`,
		p.UserID, p.EventType, p.Enabled, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// whereClause translates a filter into a SQL predicate with positional args.
func whereClause(f notifications.Filter) (string, []any) {
	conds := []string{"recipient_role = $1"}
	args := []any{string(f.Role)}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	switch f.Role {
	case notifications.RoleAdmin:
		if f.ExcludeActorID != "" {
			add("(actor_user_id IS NULL OR actor_user_id <> $%d)", f.ExcludeActorID)
		}
	case notifications.RoleCustomer:
		if f.CustomerID == "" {
			conds = append(conds, "FALSE")
		} else {
			add("customer_id = $%d", f.CustomerID)
		}
	}
	if f.EventTypes != nil {
		add("event_type = ANY($%d)", f.EventTypes)
	}
	if f.UnreadOnly {
		conds = append(conds, "read_at IS NULL")
	}
	return strings.Join(conds, " AND "), args
}

func scanNotification(row pgx.Row) (notifications.Notification, error) {
	var (
		n                   notifications.Notification
		id                  uuid.UUID
		customerID, actorID *string
		role, severity      string
	)
	err := row.Scan(&id, &customerID, &role, &n.EventType, &severity, &n.Status,
		&actorID, &n.Payload, &n.CreatedAt, &n.ReadAt)
	if err != nil {
		return notifications.Notification{}, err
	}
	n.ID = id.String()
	n.RecipientRole = notifications.Role(role)
	n.Severity = notifications.Severity(severity)
	if customerID != nil {
		n.CustomerID = *customerID
	}
	if actorID != nil {
		n.ActorUserID = *actorID
	}
	if len(n.Payload) == 0 {
		n.Payload = nil
	}
	return n, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
