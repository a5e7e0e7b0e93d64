package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/digest"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/jwt"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/relay/pusherrelay"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Data: data})
}

// writeError maps err to a status and error code. Server-side failures are
// logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, code := classify(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.LogAttrs(r.Context(), slog.LevelError, "request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
		message = http.StatusText(status)
	}
	writeJSON(w, status, Response{Error: &ErrorDetail{Code: code, Message: message}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, jwt.ErrMissingToken),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrExpiredToken),
		errors.Is(err, jwt.ErrInvalidClaims),
		errors.Is(err, notifications.ErrInvalidRole):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, pusherrelay.ErrChannelForbidden),
		errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, notifications.ErrNotificationNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrRelayUnavailable):
		return http.StatusNotFound, "relay_not_configured"
	case errors.Is(err, ErrNotEnabled):
		return http.StatusNotFound, "not_enabled"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, notifications.ErrInvalidEventType),
		errors.Is(err, notifications.ErrEventTypeRequired),
		errors.Is(err, digest.ErrInvalidItem),
		errors.Is(err, digest.ErrInvalidChangeType),
		errors.Is(err, pusherrelay.ErrInvalidAuthForm):
		return http.StatusBadRequest, "invalid_request"
	}
	return http.StatusInternalServerError, "internal_error"
}
