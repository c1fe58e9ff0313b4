package api

import (
	"log/slog"
	"time"

	"github.com/getmockd/blogd/internal/id"
	"github.com/getmockd/blogd/pkg/blog"
	"github.com/getmockd/blogd/pkg/logging"
	"github.com/getmockd/blogd/pkg/metrics"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Nil means no logging.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		} else {
			s.log = logging.Nop()
		}
	}
}

// WithStore serves an existing store instead of a new one. Store hooks are
// whatever the caller attached; the server does not add its own.
func WithStore(store *blog.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithSequence sets the id source for created posts.
func WithSequence(seq *id.Sequence) Option {
	return func(s *Server) {
		s.seq = seq
	}
}

// WithClock sets the time source for post timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics sets the metric set. By default the server builds its own.
func WithMetrics(m *metrics.ServerMetrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithVersion sets the version reported in the API docs.
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}
