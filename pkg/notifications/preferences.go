package notifications

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Resolution is a user's preference state for their role vocabulary.
type Resolution struct {
	Allowed  []string
	Disabled []string
}

// Effective returns Allowed minus Disabled, in vocabulary order. The result
// is never nil, so an empty set filters out everything.
func (r Resolution) Effective() []string {
	out := make([]string, 0, len(r.Allowed))
	for _, t := range r.Allowed {
		if !slices.Contains(r.Disabled, t) {
			out = append(out, t)
		}
	}
	return out
}

// PreferenceSetting is one row of the preferences screen.
type PreferenceSetting struct {
	EventType string `json:"eventType"`
	Enabled   bool   `json:"enabled"`
}

// PreferenceResolver computes which event types a user receives.
// Missing rows mean enabled; rows outside the role vocabulary are ignored.
type PreferenceResolver struct {
	store PreferenceStore
	now   func() time.Time
}

// NewPreferenceResolver creates a resolver over store.
func NewPreferenceResolver(store PreferenceStore) *PreferenceResolver {
	return &PreferenceResolver{store: store, now: time.Now}
}

// Resolve returns the role vocabulary and the subset the user turned off.
func (r *PreferenceResolver) Resolve(ctx context.Context, userID string, role Role) (Resolution, error) {
	allowed := Vocabulary(role)
	res := Resolution{Allowed: allowed, Disabled: []string{}}
	if len(allowed) == 0 {
		return res, nil
	}

	rows, err := r.store.ListPreferences(ctx, userID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to list preferences: %w", err)
	}
	for _, p := range rows {
		if !p.Enabled && slices.Contains(allowed, p.EventType) && !slices.Contains(res.Disabled, p.EventType) {
			res.Disabled = append(res.Disabled, p.EventType)
		}
	}
	return res, nil
}

// Enabled reports whether a single event type is delivered to the user.
func (r *PreferenceResolver) Enabled(ctx context.Context, userID string, role Role, eventType string) (bool, error) {
	if !InVocabulary(role, eventType) {
		return false, nil
	}
	p, err := r.store.FindPreference(ctx, userID, eventType)
	if errors.Is(err, ErrPreferenceNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find preference: %w", err)
	}
	return p.Enabled, nil
}

// List returns every event type of the role vocabulary with its resolved state.
func (r *PreferenceResolver) List(ctx context.Context, userID string, role Role) ([]PreferenceSetting, error) {
	res, err := r.Resolve(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	out := make([]PreferenceSetting, 0, len(res.Allowed))
	for _, t := range res.Allowed {
		out = append(out, PreferenceSetting{EventType: t, Enabled: !slices.Contains(res.Disabled, t)})
	}
	return out, nil
}

// SetPreference stores the user's choice for eventType. Types outside the
// role vocabulary are rejected with ErrInvalidEventType and nothing is written.
func (r *PreferenceResolver) SetPreference(ctx context.Context, userID string, role Role, eventType string, enabled bool) error {
	if !InVocabulary(role, eventType) {
		return fmt.Errorf("%w: %q for role %s", ErrInvalidEventType, eventType, role)
	}
	err := r.store.UpsertPreference(ctx, Preference{
		UserID:    userID,
		EventType: eventType,
		Enabled:   enabled,
		UpdatedAt: r.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}
