package notifications

import (
	"context"
	"errors"
	"fmt"
)

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// Inbox serves the polling side: unread counts, recent lists and read state.
// Queries use the same audience rules as live delivery, with preferences
// resolved fresh on every call.
type Inbox struct {
	store NotificationStore
	prefs *PreferenceResolver
}

// NewInbox creates an inbox over store.
func NewInbox(store NotificationStore, prefs *PreferenceResolver) *Inbox {
	return &Inbox{store: store, prefs: prefs}
}

// filter returns the viewer's audience filter, or ok=false when nothing can
// match and the store need not be queried.
func (i *Inbox) filter(ctx context.Context, v Viewer) (Filter, bool, error) {
	res, err := i.prefs.Resolve(ctx, v.UserID, v.Role)
	if err != nil {
		return Filter{}, false, err
	}
	effective := res.Effective()
	if len(effective) == 0 {
		return Filter{}, false, nil
	}
	if v.Role == RoleCustomer && v.CustomerID == "" {
		return Filter{}, false, nil
	}
	return AudienceFilter(v, effective), true, nil
}

// UnreadCount returns how many unread notifications v can see.
func (i *Inbox) UnreadCount(ctx context.Context, v Viewer) (int, error) {
	f, ok, err := i.filter(ctx, v)
	if err != nil || !ok {
		return 0, err
	}
	f.UnreadOnly = true
	n, err := i.store.CountUnread(ctx, f)
	if err != nil {
		return 0, errors.Join(ErrStorage, fmt.Errorf("failed to count unread: %w", err))
	}
	return n, nil
}

// Recent returns the newest notifications v can see. limit defaults to
// DefaultRecentLimit and is capped at MaxRecentLimit.
func (i *Inbox) Recent(ctx context.Context, v Viewer, limit int) ([]Notification, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	f, ok, err := i.filter(ctx, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Notification{}, nil
	}
	list, err := i.store.ListRecent(ctx, f, limit)
	if err != nil {
		return nil, errors.Join(ErrStorage, fmt.Errorf("failed to list notifications: %w", err))
	}
	return list, nil
}

// MarkRead marks one notification read. Notifications outside v's audience
// are reported as ErrNotificationNotFound. Marking twice keeps the first ReadAt.
func (i *Inbox) MarkRead(ctx context.Context, v Viewer, id string) (Notification, error) {
	f, ok, err := i.filter(ctx, v)
	if err != nil {
		return Notification{}, err
	}
	if !ok {
		return Notification{}, ErrNotificationNotFound
	}

	n, err := i.store.Get(ctx, id)
	if errors.Is(err, ErrNotificationNotFound) {
		return Notification{}, ErrNotificationNotFound
	}
	if err != nil {
		return Notification{}, errors.Join(ErrStorage, fmt.Errorf("failed to get notification: %w", err))
	}
	if !f.Matches(n) {
		return Notification{}, ErrNotificationNotFound
	}
	if n.IsRead() {
		return n, nil
	}

	if err := i.store.MarkRead(ctx, id); err != nil {
		return Notification{}, errors.Join(ErrStorage, fmt.Errorf("failed to mark notification read: %w", err))
	}
	updated, err := i.store.Get(ctx, id)
	if err != nil {
		return Notification{}, errors.Join(ErrStorage, fmt.Errorf("failed to reload notification: %w", err))
	}
	return updated, nil
}

// MarkAllRead marks every unread notification v can see and returns the count.
func (i *Inbox) MarkAllRead(ctx context.Context, v Viewer) (int, error) {
	f, ok, err := i.filter(ctx, v)
	if err != nil || !ok {
		return 0, err
	}
	f.UnreadOnly = true
	n, err := i.store.MarkManyRead(ctx, f)
	if err != nil {
		return 0, errors.Join(ErrStorage, fmt.Errorf("failed to mark notifications read: %w", err))
	}
	return n, nil
}
