package notifications

import "errors"

var (
	ErrEventTypeRequired     = errors.New("notifications: event type is required")
	ErrInvalidRole           = errors.New("notifications: invalid recipient role")
	ErrInvalidEventType      = errors.New("notifications: event type is not available for this role")
	ErrNotificationNotFound  = errors.New("notifications: notification not found")
	ErrDuplicateNotification = errors.New("notifications: notification id already exists")
	ErrPreferenceNotFound    = errors.New("notifications: preference not found")
	ErrStorage               = errors.New("notifications: storage failure")
)
