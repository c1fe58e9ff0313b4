package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/getmockd/blogd/internal/id"
	"github.com/getmockd/blogd/pkg/httputil"
	"github.com/getmockd/blogd/pkg/logging"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// withMiddleware wraps the mux, outermost first: request id, access log and
// metrics, panic recovery.
func (s *Server) withMiddleware(handler http.Handler) http.Handler {
	return s.requestIDMiddleware(s.accessMiddleware(recoverMiddleware(handler)))
}

// requestIDMiddleware reuses an incoming X-Request-ID or generates one, echoes
// it on the response and attaches a request-scoped logger to the context.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = id.RequestID()
		}
		w.Header().Set(RequestIDHeader, rid)

		ctx := logging.WithLogger(r.Context(), s.log.With("request_id", rid))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessMiddleware logs each request and records it in the metrics.
func (s *Server) accessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeLabel(r.Pattern)
		s.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// recoverMiddleware turns a handler panic into a 500.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logging.FromContext(r.Context()).Error("handler panic",
					"panic", fmt.Sprint(v),
					"stack", string(debug.Stack()),
				)
				httputil.WriteInternalError(w, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// routeLabel strips the method from a ServeMux pattern so metrics are keyed
// by route template rather than raw path.
func routeLabel(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
