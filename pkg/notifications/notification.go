package notifications

import (
	"encoding/json"
	"slices"
	"time"
)

// Role is the audience class a notification targets.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleTech     Role = "TECH"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTech, RoleCustomer:
		return true
	}
	return false
}

// Severity of a notification.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
)

// Delivery or business status. Free-form; these are the values domain code uses.
const (
	StatusQueued = "QUEUED"
	StatusSent   = "SENT"
	StatusFailed = "FAILED"
)

// Event types.
const (
	EventJobCompleted       = "JOB_COMPLETED"
	EventCustomerRequest    = "CUSTOMER_REQUEST"
	EventServiceScheduled   = "SERVICE_SCHEDULED"
	EventServiceRescheduled = "SERVICE_RESCHEDULED"
	EventRouteUpdated       = "ROUTE_UPDATED"
	EventInvoiceSent        = "INVOICE_SENT"
)

// Technicians receive no live notifications yet, hence the empty list.
var vocabulary = map[Role][]string{
	RoleAdmin:    {EventJobCompleted, EventCustomerRequest},
	RoleCustomer: {EventServiceScheduled, EventServiceRescheduled, EventRouteUpdated, EventInvoiceSent},
	RoleTech:     {},
}

// Vocabulary returns the event types a role can receive, in display order.
func Vocabulary(role Role) []string {
	return slices.Clone(vocabulary[role])
}

// InVocabulary reports whether eventType belongs to the role's vocabulary.
func InVocabulary(role Role, eventType string) bool {
	return slices.Contains(vocabulary[role], eventType)
}

// Notification is a persisted record of a domain event. After creation only
// ReadAt and Status change. Empty CustomerID and ActorUserID mean "none".
type Notification struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customerId,omitempty"`
	RecipientRole Role           `json:"recipientRole"`
	EventType     string         `json:"eventType"`
	Severity      Severity       `json:"severity"`
	Status        string         `json:"status"`
	ActorUserID   string         `json:"actorUserId,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	ReadAt        *time.Time     `json:"readAt,omitempty"`
}

// IsRead reports whether the notification has been read.
func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}

// ClonePayload deep-copies nested maps and slices in p. Stored and published
// notifications never share payload structure with the caller. Live
// subscribers on the bus share one copy and must treat it as read-only.
func ClonePayload(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return ClonePayload(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(v)
	case json.RawMessage:
		return slices.Clone(v)
	default:
		return v
	}
}

// Viewer is the authenticated user on whose behalf notifications are read or
// streamed. CustomerID is only meaningful for RoleCustomer and is empty when
// the user has no linked customer record.
type Viewer struct {
	UserID     string
	Role       Role
	CustomerID string
}
