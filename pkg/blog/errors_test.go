package blog

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantError  string
		wantStatus int
		wantID     int
		wantHint   bool
	}{
		{
			name:       "not found",
			err:        &NotFoundError{ID: 3},
			wantError:  "not_found",
			wantStatus: http.StatusNotFound,
			wantID:     3,
			wantHint:   true,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("get post: %w", &NotFoundError{ID: 8}),
			wantError:  "not_found",
			wantStatus: http.StatusNotFound,
			wantID:     8,
			wantHint:   true,
		},
		{
			name:       "conflict",
			err:        &ConflictError{ID: 2},
			wantError:  "already_exists",
			wantStatus: http.StatusConflict,
			wantID:     2,
			wantHint:   true,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantError:  "internal_error",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := ToErrorResponse(tt.err)

			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantID, resp.ID)
			assert.Equal(t, tt.err.Error(), resp.Message)
			assert.Equal(t, tt.wantHint, resp.Hint != "")
		})
	}
}

func TestErrorInterfaces(t *testing.T) {
	t.Parallel()

	var sc StatusCodeError = &NotFoundError{ID: 1}
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())

	var he HintError = &ConflictError{ID: 1}
	assert.Contains(t, he.Hint(), "PUT /blogs/1")

	assert.False(t, errors.Is(&NotFoundError{ID: 1}, ErrAlreadyExists))
	assert.False(t, errors.Is(&ConflictError{ID: 1}, ErrNotFound))
}
