package blog

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound      = errors.New("blog post not found")
	ErrAlreadyExists = errors.New("blog post already exists")
)

// NotFoundError is returned when no live post holds the requested id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blog post %d not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("Check that post %d exists. Use GET /blogs to list available posts.", e.ID)
}

// ConflictError is returned by Insert when the id is already taken.
type ConflictError struct {
	ID int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("blog post %d already exists", e.ID)
}

// Is reports whether target is ErrAlreadyExists.
func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConflictError) Hint() string {
	return fmt.Sprintf("Post %d is already live. Use PUT /blogs/%d to replace it or pick another id.", e.ID, e.ID)
}

// StatusCodeError is an interface for errors that have an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is an interface for errors that provide resolution hints.
type HintError interface {
	error
	Hint() string
}

// ErrorResponse is the JSON body written for a failed store operation.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	ID         int    `json:"id,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"-"`
}

// ToErrorResponse converts an error to an ErrorResponse.
func ToErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Message: err.Error()}

	var nf *NotFoundError
	var ce *ConflictError
	switch {
	case errors.As(err, &nf):
		resp.Error = "not_found"
		resp.ID = nf.ID
		resp.StatusCode = nf.StatusCode()
		resp.Hint = nf.Hint()
	case errors.As(err, &ce):
		resp.Error = "already_exists"
		resp.ID = ce.ID
		resp.StatusCode = ce.StatusCode()
		resp.Hint = ce.Hint()
	default:
		resp.Error = "internal_error"
		resp.StatusCode = http.StatusInternalServerError
	}

	return resp
}
