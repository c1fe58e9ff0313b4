package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/blogd/internal/id"
	"github.com/getmockd/blogd/pkg/blog"
	"github.com/getmockd/blogd/pkg/config"
	"github.com/getmockd/blogd/pkg/logging"
	"github.com/getmockd/blogd/pkg/metrics"
)

// Server is the blogd HTTP server.
type Server struct {
	cfg     *config.Config
	store   *blog.Store
	seq     *id.Sequence
	now     func() time.Time
	version string
	log     *slog.Logger
	metrics *metrics.ServerMetrics
	docs    []byte
	docsYML []byte
	handler http.Handler

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a Server for cfg. A nil cfg uses config.Default().
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		now:     time.Now,
		log:     logging.Nop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = metrics.NewServerMetrics(func() int { return s.store.Count() })
	}
	if s.store == nil {
		s.store = blog.NewStore(blog.WithObserver(blog.MultiObserver{
			blog.LogObserver{Log: s.log},
			s.metrics.StoreObserver(),
		}))
	}
	if s.seq == nil {
		s.seq = id.NewSequence(1)
	}

	doc := NewOpenAPI(s.version)
	var err error
	if s.docs, s.docsYML, err = encodeDocs(doc); err != nil {
		return nil, fmt.Errorf("encoding API docs: %w", err)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.withMiddleware(mux)

	return s, nil
}

// Store returns the store the server reads and writes.
func (s *Server) Store() *blog.Store {
	return s.store
}

// Metrics returns the server metric set.
func (s *Server) Metrics() *metrics.ServerMetrics {
	return s.metrics
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Seed inserts posts before the server takes traffic. Posts without an id
// get the next one from the sequence; missing timestamps are set to now.
// Duplicate ids are an error.
func (s *Server) Seed(posts []blog.Post) error {
	now := s.now().UnixMilli()
	for _, p := range posts {
		if p.ID != 0 {
			s.seq.Observe(p.ID)
		}
	}
	for _, p := range posts {
		if p.ID == 0 {
			p.ID = s.seq.Next()
		}
		if p.CreatedAt == 0 {
			p.CreatedAt = now
		}
		if p.ModifiedAt == 0 {
			p.ModifiedAt = p.CreatedAt
		}
		if err := s.store.Insert(p); err != nil {
			return fmt.Errorf("seeding posts: %w", err)
		}
	}
	if len(posts) > 0 {
		s.log.Info("seeded posts", "count", len(posts))
	}
	return nil
}

// Listen binds the configured address. Port 0 picks a free port; see Addr.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run listens if needed and serves until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	handler := s.handler
	if s.cfg.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	s.mu.Lock()
	ln := s.listener
	s.httpServer = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeoutDuration(),
		WriteTimeout: s.cfg.WriteTimeoutDuration(),
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.log.Info("server started",
		"addr", ln.Addr().String(),
		"docs", docsURL(ln.Addr()),
		"h2c", s.cfg.H2C,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeoutDuration())
		defer cancel()
		s.log.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.log.Info("server stopped")
	return err
}

// docsURL renders the docs address, substituting loopback for a wildcard host.
func docsURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/docs"
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/docs"
}
