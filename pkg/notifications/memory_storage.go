package notifications

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage for development and tests.
type MemoryStorage struct {
	mu            sync.RWMutex
	notifications map[string]Notification
	preferences   map[string]map[string]Preference // userID -> eventType -> row
	now           func() time.Time
}

// MemoryStorageOption configures a MemoryStorage.
type MemoryStorageOption func(*MemoryStorage)

// WithMemoryClock overrides the time source used for CreatedAt and ReadAt.
func WithMemoryClock(now func() time.Time) MemoryStorageOption {
	return func(s *MemoryStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage(opts ...MemoryStorageOption) *MemoryStorage {
	s := &MemoryStorage{
		notifications: make(map[string]Notification),
		preferences:   make(map[string]map[string]Preference),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) Insert(ctx context.Context, n Notification) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if _, exists := s.notifications[n.ID]; exists {
		return Notification{}, ErrDuplicateNotification
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	n.Payload = ClonePayload(n.Payload)
	s.notifications[n.ID] = n
	return copyNotification(n), nil
}

func (s *MemoryStorage) Get(ctx context.Context, id string) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return Notification{}, ErrNotificationNotFound
	}
	return copyNotification(n), nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, f Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f.UnreadOnly = true
	count := 0
	for _, n := range s.notifications {
		if f.Matches(n) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) ListRecent(ctx context.Context, f Filter, limit int) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0)
	for _, n := range s.notifications {
		if f.Matches(n) {
			out = append(out, copyNotification(n))
		}
	}
	slices.SortFunc(out, func(a, b Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return ErrNotificationNotFound
	}
	if n.ReadAt == nil {
		at := s.now()
		n.ReadAt = &at
		s.notifications[id] = n
	}
	return nil
}

func (s *MemoryStorage) MarkManyRead(ctx context.Context, f Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.UnreadOnly = true
	at := s.now()
	updated := 0
	for id, n := range s.notifications {
		if !f.Matches(n) {
			continue
		}
		stamp := at
		n.ReadAt = &stamp
		s.notifications[id] = n
		updated++
	}
	return updated, nil
}

func (s *MemoryStorage) FindPreference(ctx context.Context, userID, eventType string) (Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.preferences[userID][eventType]
	if !ok {
		return Preference{}, ErrPreferenceNotFound
	}
	return p, nil
}

func (s *MemoryStorage) ListPreferences(ctx context.Context, userID string) ([]Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := slices.Collect(maps.Values(s.preferences[userID]))
	slices.SortFunc(rows, func(a, b Preference) int { return cmp.Compare(a.EventType, b.EventType) })
	return rows, nil
}

func (s *MemoryStorage) UpsertPreference(ctx context.Context, p Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	if s.preferences[p.UserID] == nil {
		s.preferences[p.UserID] = make(map[string]Preference)
	}
	s.preferences[p.UserID][p.EventType] = p
	return nil
}

func copyNotification(n Notification) Notification {
	n.Payload = ClonePayload(n.Payload)
	if n.ReadAt != nil {
		at := *n.ReadAt
		n.ReadAt = &at
	}
	return n
}
