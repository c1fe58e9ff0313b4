package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getmockd/blogd/pkg/blog"
	"github.com/getmockd/blogd/pkg/httputil"
	"github.com/getmockd/blogd/pkg/logging"
)

// handleCreatePost handles POST /blogs.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePostRequest(w, r)
	if !ok {
		return
	}

	post := s.store.Create(s.newPost(req))
	logging.FromContext(r.Context()).Debug("post created", "id", post.ID)
	httputil.WriteOK(w, post)
}

// handleGetPost handles GET /blogs/{id}.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := s.store.Get(id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httputil.WriteOK(w, post)
}

// handleListPosts handles GET /blogs.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	descending, err := descendingParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_query", err.Error())
		return
	}
	httputil.WriteOK(w, s.store.List(descending))
}

// handleUpdatePost handles PUT /blogs/{id}.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := s.decodePostRequest(w, r)
	if !ok {
		return
	}

	post, err := s.store.Update(id, req.Title, req.Content, s.nowMillis())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Debug("post updated", "id", post.ID)
	httputil.WriteOK(w, post)
}

// handleDeletePost handles DELETE /blogs/{id}. A missing post is a client
// error (400), not a 404.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			httputil.WriteMessage(w, http.StatusBadRequest,
				fmt.Sprintf("The blog post does not exist. ID: %d", id))
			return
		}
		writeStoreError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// writeStoreError maps a store error to its JSON error response.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	resp := blog.ToErrorResponse(err)
	if resp.StatusCode >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("store operation failed", "error", err)
	}
	httputil.WriteJSON(w, resp.StatusCode, resp)
}
