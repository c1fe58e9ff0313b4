package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getmockd/blogd/pkg/blog"
	"github.com/getmockd/blogd/pkg/httputil"
)

// postRequest is the body accepted by create and update. Other fields,
// including id and timestamps, are ignored.
type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// decodePostRequest reads a postRequest and writes the error response itself
// when the body is unusable.
func (s *Server) decodePostRequest(w http.ResponseWriter, r *http.Request) (postRequest, bool) {
	var req postRequest
	if err := httputil.DecodeJSON(w, r, &req, s.cfg.MaxBodyBytes); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.WritePayloadTooLarge(w, fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxBodyBytes))
			return req, false
		}
		httputil.WriteBadRequest(w, "invalid_request", err.Error())
		return req, false
	}
	return req, true
}

// newPost builds a post with a fresh id and both timestamps set to now.
func (s *Server) newPost(req postRequest) blog.Post {
	now := s.nowMillis()
	return blog.Post{
		ID:         s.seq.Next(),
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func (s *Server) nowMillis() int64 {
	return s.now().UnixMilli()
}

// pathID parses the {id} path value, writing a 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_id", fmt.Sprintf("invalid post id %q", raw))
		return 0, false
	}
	return id, true
}

// descendingParam reads ?descending=, defaulting to true.
func descendingParam(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("descending")
	if raw == "" {
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid descending value %q", raw)
	}
	return v, nil
}
