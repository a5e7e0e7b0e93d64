package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/digest"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/jwt"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/stream"
)

// ChannelAuthorizer signs relay channel subscriptions.
type ChannelAuthorizer interface {
	AuthorizeChannel(userID string, form []byte) ([]byte, error)
}

// maxAuthFormSize bounds the channel authorization body.
const maxAuthFormSize = 4 << 10

// Handler serves the notification endpoints for the authenticated caller.
type Handler struct {
	inbox      *notifications.Inbox
	prefs      *notifications.PreferenceResolver
	connector  *stream.Connector
	authorizer ChannelAuthorizer
	publisher  *notifications.Publisher
	digest     *digest.Queue
	logger     *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithChannelAuthorizer enables POST /channels/auth.
func WithChannelAuthorizer(a ChannelAuthorizer) HandlerOption {
	return func(h *Handler) { h.authorizer = a }
}

func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandler(inbox *notifications.Inbox, prefs *notifications.PreferenceResolver, connector *stream.Connector, opts ...HandlerOption) *Handler {
	h := &Handler{
		inbox:     inbox,
		prefs:     prefs,
		connector: connector,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) viewer(ctx context.Context) (notifications.Viewer, error) {
	claims, ok := jwt.GetClaims(ctx)
	if !ok {
		return notifications.Viewer{}, ErrUnauthenticated
	}
	return h.connector.Viewer(ctx, claims.UserID(), notifications.Role(claims.Role))
}

// Stream upgrades the request to an event stream that lasts until the client
// disconnects or the server shuts down.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.GetClaims(r.Context())
	if !ok {
		writeError(w, r, h.logger, ErrUnauthenticated)
		return
	}
	session, err := h.connector.Open(r.Context(), claims.UserID(), notifications.Role(claims.Role))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := session.Run(r.Context(), stream.NewSSEWriter(w, r)); err != nil && r.Context().Err() == nil {
		h.logger.LogAttrs(r.Context(), slog.LevelDebug, "stream ended",
			logger.SessionID(session.ID()),
			logger.Error(err),
		)
	}
}

func (h *Handler) AuthorizeChannel(w http.ResponseWriter, r *http.Request) {
	if h.authorizer == nil {
		writeError(w, r, h.logger, ErrRelayUnavailable)
		return
	}
	claims, ok := jwt.GetClaims(r.Context())
	if !ok {
		writeError(w, r, h.logger, ErrUnauthenticated)
		return
	}
	form, err := io.ReadAll(io.LimitReader(r.Body, maxAuthFormSize))
	if err != nil {
		writeError(w, r, h.logger, errors.Join(ErrBadRequest, err))
		return
	}

	auth, err := h.authorizer.AuthorizeChannel(claims.UserID(), form)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	// Pusher clients expect the bare {"auth": ...} object.
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(auth)
}

func (h *Handler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	settings, err := h.prefs.List(r.Context(), v.UserID, v.Role)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, settings)
}

type setPreferenceRequest struct {
	EventType string `json:"eventType" validate:"required"`
	Enabled   *bool  `json:"enabled" validate:"required"`
}

func (h *Handler) SetPreference(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req setPreferenceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.prefs.SetPreference(r.Context(), v.UserID, v.Role, req.EventType, *req.Enabled); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, notifications.PreferenceSetting{EventType: req.EventType, Enabled: *req.Enabled})
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	count, err := h.inbox.UnreadCount(r.Context(), v)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, map[string]int{"count": count})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, r, h.logger, fmt.Errorf("%w: limit must be a non-negative integer", ErrBadRequest))
			return
		}
	}

	items, err := h.inbox.Recent(r.Context(), v, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []notifications.Notification{}
	}
	writeData(w, items)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	n, err := h.inbox.MarkRead(r.Context(), v, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, n)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	v, err := h.viewer(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	updated, err := h.inbox.MarkAllRead(r.Context(), v)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, map[string]int{"updated": updated})
}
