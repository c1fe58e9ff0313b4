package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/blogd/pkg/api"
	"github.com/getmockd/blogd/pkg/blog"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv, err := api.NewServer(nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func TestClient_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Health(ctx))

	created, err := c.CreatePost(ctx, "My first blog", "Hello Armeria!")
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "My first blog", created.Title)
	assert.NotZero(t, created.CreatedAt)

	got, err := c.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := c.UpdatePost(ctx, created.ID, "Edited", "Hi")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Edited", updated.Title)

	posts, err := c.ListPosts(ctx, true)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, updated, posts[0])

	require.NoError(t, c.DeletePost(ctx, created.ID))
	_, err = c.GetPost(ctx, created.ID)
	assert.ErrorIs(t, err, blog.ErrNotFound)
}

func TestClient_NotFoundErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.GetPost(ctx, 5)
	var nf *blog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 5, nf.ID)

	_, err = c.UpdatePost(ctx, 5, "t", "c")
	assert.ErrorIs(t, err, blog.ErrNotFound)

	err = c.DeletePost(ctx, 5)
	assert.ErrorIs(t, err, blog.ErrNotFound, "delete maps the server's 400 back to not found")
}

func TestClient_ListEmpty(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	posts, err := c.ListPosts(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"error":"teapot","message":"short and stout"}`))
	}))
	t.Cleanup(ts.Close)

	_, err := NewClient(ts.URL).ListPosts(context.Background(), true)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTeapot, apiErr.StatusCode)
	assert.Equal(t, "teapot", apiErr.ErrorCode)
	assert.Equal(t, "short and stout", apiErr.Message)
}

func TestClient_NonJSONError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	_, err := NewClient(ts.URL).GetPost(context.Background(), 1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrCodeUnknown, apiErr.ErrorCode)
	assert.Contains(t, apiErr.Message, "502")
}

func TestClient_ConnectionError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewClient(url).Health(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrCodeConnection, apiErr.ErrorCode)
	assert.Contains(t, FormatConnectionError(apiErr), "blogd serve")
}
