package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Option customizes a Server.
type Option func(*Server)

// WithLogger routes lifecycle logs to l. Logs are discarded when l is nil.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithListener serves on ln instead of listening on Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) { s.listener = ln }
}

// OnListening registers fn to run with the bound address once the server
// accepts connections.
func OnListening(fn func(net.Addr)) Option {
	return func(s *Server) {
		if fn != nil {
			s.onListening = append(s.onListening, fn)
		}
	}
}

// Server runs one http.Server per Run call.
//
// Request contexts derive from a base context that is cancelled when shutdown
// begins. Event streams watch it and return, so draining does not wait on
// open browser tabs.
type Server struct {
	cfg         Config
	log         *slog.Logger
	listener    net.Listener
	onListening []func(net.Addr)

	mu          sync.Mutex
	srv         *http.Server
	addr        net.Addr
	stopStreams context.CancelFunc

	drainOnce sync.Once
	drainErr  error
}

// New returns a Server for cfg. Zero Addr and ShutdownTimeout fall back to
// ":8080" and ten seconds.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg.withDefaults(),
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr reports the bound address, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves handler until ctx ends, the process receives SIGINT or SIGTERM,
// or Shutdown is called. A nil handler answers 404 to everything.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	srv, ln, err := s.bind(ctx, handler)
	if err != nil {
		return err
	}

	sigCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	s.log.LogAttrs(ctx, slog.LevelInfo, "http server listening", slog.String("addr", ln.Addr().String()))
	for _, fn := range s.onListening {
		fn(ln.Addr())
	}

	select {
	case err := <-served:
		s.stopStreams()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrListen, err)
	case <-sigCtx.Done():
		if ctx.Err() == nil {
			s.log.LogAttrs(ctx, slog.LevelInfo, "shutdown signal received")
		}
		err := s.Shutdown(context.WithoutCancel(ctx))
		<-served
		return err
	}
}

func (s *Server) bind(ctx context.Context, handler http.Handler) (*http.Server, net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil, nil, ErrAlreadyRunning
	}

	ln := s.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", s.cfg.Addr); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrListen, err)
		}
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	base, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.srv = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	s.addr = ln.Addr()
	s.stopStreams = cancel
	return s.srv, ln, nil
}

// Shutdown cancels open streams, then drains in-flight requests within
// Config.ShutdownTimeout. Later calls return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, stopStreams := s.srv, s.stopStreams
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.drainOnce.Do(func() {
		stopStreams()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.drainErr = fmt.Errorf("%w: %w", ErrDrain, err)
		}
		s.log.LogAttrs(ctx, slog.LevelInfo, "http server stopped")
	})
	return s.drainErr
}
