package api

import (
	"net/http"

	"github.com/getmockd/blogd/pkg/httputil"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /blogs", s.handleCreatePost)
	mux.HandleFunc("GET /blogs", s.handleListPosts)
	mux.HandleFunc("GET /blogs/{id}", s.handleGetPost)
	mux.HandleFunc("PUT /blogs/{id}", s.handleUpdatePost)
	mux.HandleFunc("DELETE /blogs/{id}", s.handleDeletePost)

	mux.HandleFunc("GET /docs", s.handleDocsRedirect)
	mux.HandleFunc("GET /docs/", s.handleDocsRedirect)
	mux.HandleFunc("GET /docs/openapi.json", s.handleDocsJSON)
	mux.HandleFunc("GET /docs/openapi.yaml", s.handleDocsYAML)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Registry.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{"status": "ok"})
}
