package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/digest"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/jwt"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// WithPublisher enables POST /api/events.
func WithPublisher(p *notifications.Publisher) HandlerOption {
	return func(h *Handler) { h.publisher = p }
}

// WithDigestQueue enables POST /api/digest/items.
func WithDigestQueue(q *digest.Queue) HandlerOption {
	return func(h *Handler) { h.digest = q }
}

// requireRole rejects callers whose token carries another role.
func requireRole(role notifications.Role, h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := jwt.GetClaims(r.Context())
			if !ok {
				writeError(w, r, h.logger, ErrUnauthenticated)
				return
			}
			if notifications.Role(claims.Role) != role {
				writeError(w, r, h.logger, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type publishRequest struct {
	CustomerID string                 `json:"customerId" validate:"omitempty,max=64"`
	Role       notifications.Role     `json:"role" validate:"required"`
	EventType  string                 `json:"eventType" validate:"required,max=64"`
	Severity   notifications.Severity `json:"severity"`
	Status     string                 `json:"status" validate:"omitempty,max=32"`
	Payload    map[string]any         `json:"payload"`
}

// PublishEvent records a domain event raised by the calling admin and fans it
// out. The caller becomes the actor, so they do not notify themselves.
func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		writeError(w, r, h.logger, ErrNotEnabled)
		return
	}
	claims, _ := jwt.GetClaims(r.Context())

	var req publishRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !req.Role.Valid() {
		writeError(w, r, h.logger, fmt.Errorf("%w: unknown role %q", ErrBadRequest, req.Role))
		return
	}

	n, err := h.publisher.Publish(r.Context(), notifications.PublishInput{
		CustomerID:  req.CustomerID,
		Role:        req.Role,
		EventType:   req.EventType,
		Severity:    req.Severity,
		Status:      req.Status,
		ActorUserID: claims.UserID(),
		Payload:     req.Payload,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Data: n})
}

type digestRequest struct {
	TechnicianID string            `json:"technicianId" validate:"required"`
	JobID        string            `json:"jobId" validate:"required"`
	RouteDate    time.Time         `json:"routeDate"`
	ChangeType   digest.ChangeType `json:"changeType" validate:"required"`
	Payload      map[string]any    `json:"payload"`
}

func (h *Handler) EnqueueDigest(w http.ResponseWriter, r *http.Request) {
	if h.digest == nil {
		writeError(w, r, h.logger, ErrNotEnabled)
		return
	}

	var req digestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.RouteDate.IsZero() {
		writeError(w, r, h.logger, fmt.Errorf("%w: routeDate is required", ErrBadRequest))
		return
	}

	item, err := h.digest.Enqueue(r.Context(), req.TechnicianID, req.JobID, req.RouteDate, req.ChangeType, req.Payload)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Data: item})
}
