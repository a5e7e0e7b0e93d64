package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/httpserver"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/jwt"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// StreamTokenParam is the query parameter a browser EventSource uses to pass
// its token, since it cannot set an Authorization header.
const StreamTokenParam = "access_token"

// NewRouter mounts the notification API. Readiness runs checks; liveness
// never does.
func NewRouter(h *Handler, tokens *jwt.Service, cfg Config, log *slog.Logger, checks ...httpserver.Check) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		MaxAge:         cfg.CORSMaxAge,
	}))

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, checks...))

	auth := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service:   tokens,
		Extractor: jwt.FirstOf(jwt.BearerTokenExtractor, jwt.QueryTokenExtractor(StreamTokenParam)),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, r, log, err)
		},
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(auth)

		r.Get("/stream", h.Stream)
		r.Post("/channels/auth", h.AuthorizeChannel)
		r.Get("/preferences", h.ListPreferences)
		r.Post("/preferences", h.SetPreference)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/read-all", h.MarkAllRead)
		r.Post("/{id}/read", h.MarkRead)
		r.Get("/", h.List)
	})

	// Ingest endpoints for the wider application's domain actions.
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(requireRole(notifications.RoleAdmin, h))

		r.Post("/api/events", h.PublishEvent)
		r.Post("/api/digest/items", h.EnqueueDigest)
	})

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.LogAttrs(r.Context(), slog.LevelInfo, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
