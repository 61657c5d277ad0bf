package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/motion/pkg/headless"
	"github.com/vango-dev/motion/pkg/telemetry"
)

// Server is the devtools HTTP/WebSocket server.
type Server struct {
	scenario *headless.Scenario
	config   *Config
	upgrader websocket.Upgrader

	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	tracer   trace.Tracer
	docOpts  []headless.Option
	logger   *slog.Logger

	mu         sync.Mutex
	sessions   map[string]*Session
	httpServer *http.Server
	wg         sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records session activity in m and serves gatherer at the
// metrics path. Sessions' projection trees also report to m.
func WithMetrics(m *telemetry.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTracer sets the tracer used for session spans.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Server) { s.tracer = tr }
}

// WithDocumentOptions appends options used for every session's document.
func WithDocumentOptions(opts ...headless.Option) Option {
	return func(s *Server) { s.docOpts = append(s.docOpts, opts...) }
}

// New creates a server that plays sc to every client.
func New(sc *headless.Scenario, config *Config, opts ...Option) *Server {
	config = config.withDefaults()
	s := &Server{
		scenario: sc,
		config:   config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.checkOrigin(),
		},
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer("")
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/scenario", s.handleScenario)
	r.Get("/ws", s.HandleWebSocket)
	if s.gatherer != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

func (s *Server) handleScenario(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.scenario); err != nil {
		s.logger.Error("scenario encode failed", "error", err)
	}
}

// HandleWebSocket upgrades the connection and starts a session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		if s.metrics != nil {
			s.metrics.WebSocketError("upgrade")
		}
		return
	}

	id := newSessionID()
	ctx, end := telemetry.StartSpan(context.Background(), s.tracer, "motion.session",
		attribute.String("motion.session_id", id),
		attribute.String("motion.scenario", s.scenario.Name),
		attribute.String("motion.request_id", middleware.GetReqID(r.Context())),
	)

	sess, err := newSession(ctx, s, id, conn)
	if err != nil {
		s.logger.Error("session start failed", "session_id", id, "error", err)
		conn.Close()
		end(err)
		return
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
	s.logger.Info("session opened", "session_id", id, "remote", r.RemoteAddr)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := sess.run()
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.SessionClosed()
		}
		s.logger.Info("session closed", "session_id", id, "frames", sess.Frames())
		end(err)
	}()
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Close()
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func newSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
