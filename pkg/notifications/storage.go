package notifications

import (
	"context"
	"slices"
	"time"
)

// NotificationStore persists notification records.
type NotificationStore interface {
	// Insert stores n, assigning ID and CreatedAt when empty, and returns the stored record.
	Insert(ctx context.Context, n Notification) (Notification, error)

	// Get returns ErrNotificationNotFound for unknown ids.
	Get(ctx context.Context, id string) (Notification, error)

	CountUnread(ctx context.Context, f Filter) (int, error)

	// ListRecent returns matching notifications, newest first.
	ListRecent(ctx context.Context, f Filter, limit int) ([]Notification, error)

	// MarkRead stamps ReadAt on an unread notification. Already read
	// notifications keep their original timestamp.
	MarkRead(ctx context.Context, id string) error

	// MarkManyRead marks every unread match as read and returns how many changed.
	MarkManyRead(ctx context.Context, f Filter) (int, error)
}

// Preference is a per-user opt-out flag for one event type.
type Preference struct {
	UserID    string
	EventType string
	Enabled   bool
	UpdatedAt time.Time
}

// PreferenceStore persists preference rows. A missing row means enabled.
type PreferenceStore interface {
	// FindPreference returns ErrPreferenceNotFound when no row exists.
	FindPreference(ctx context.Context, userID, eventType string) (Preference, error)
	ListPreferences(ctx context.Context, userID string) ([]Preference, error)
	UpsertPreference(ctx context.Context, p Preference) error
}

// Storage is the full persistence contract used by the service.
type Storage interface {
	NotificationStore
	PreferenceStore
}

// Filter selects the notifications visible to one audience.
//
// Role must match exactly. For RoleAdmin, notifications whose actor equals
// ExcludeActorID are skipped. For RoleCustomer only CustomerID's notifications
// match, and an empty CustomerID matches nothing. A nil EventTypes matches any
// type while an empty non-nil slice matches none.
type Filter struct {
	Role           Role
	CustomerID     string
	ExcludeActorID string
	EventTypes     []string
	UnreadOnly     bool
}

// AudienceFilter builds the filter for what v may see among eventTypes.
func AudienceFilter(v Viewer, eventTypes []string) Filter {
	f := Filter{Role: v.Role, EventTypes: eventTypes}
	switch v.Role {
	case RoleAdmin:
		f.ExcludeActorID = v.UserID
	case RoleCustomer:
		f.CustomerID = v.CustomerID
	}
	return f
}

// Matches applies the filter to a single notification.
func (f Filter) Matches(n Notification) bool {
	if n.RecipientRole != f.Role {
		return false
	}
	if f.Role == RoleAdmin && n.ActorUserID != "" && n.ActorUserID == f.ExcludeActorID {
		return false
	}
	if f.Role == RoleCustomer && (f.CustomerID == "" || n.CustomerID != f.CustomerID) {
		return false
	}
	if f.EventTypes != nil && !slices.Contains(f.EventTypes, n.EventType) {
		return false
	}
	if f.UnreadOnly && n.ReadAt != nil {
		return false
	}
	return true
}
