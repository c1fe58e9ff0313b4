package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/blogd/pkg/blog"
)

// Error codes set on APIError by the client itself.
const (
	ErrCodeConnection = "connection_error"
	ErrCodeUnknown    = "unknown_error"
)

// APIError is a non-success response from a blogd server.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the blogd HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// postBody is the request body for create and update.
type postBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePost creates a post and returns it with its assigned id.
func (c *Client) CreatePost(ctx context.Context, title, content string) (blog.Post, error) {
	var p blog.Post
	resp, err := c.doRequest(ctx, http.MethodPost, "/blogs", postBody{Title: title, Content: content})
	if err != nil {
		return p, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return p, c.parseError(resp)
	}
	if err := decodeBody(resp, &p); err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

// GetPost fetches one post. A missing post yields *blog.NotFoundError.
func (c *Client) GetPost(ctx context.Context, id int) (blog.Post, error) {
	var p blog.Post
	resp, err := c.doRequest(ctx, http.MethodGet, postPath(id), nil)
	if err != nil {
		return p, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return p, &blog.NotFoundError{ID: id}
	}
	if resp.StatusCode != http.StatusOK {
		return p, c.parseError(resp)
	}
	if err := decodeBody(resp, &p); err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

// ListPosts returns every live post. descending=true sorts by id.
func (c *Client) ListPosts(ctx context.Context, descending bool) ([]blog.Post, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/blogs?descending="+strconv.FormatBool(descending), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var posts []blog.Post
	if err := decodeBody(resp, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost replaces a post's title and content. A missing post yields
// *blog.NotFoundError.
func (c *Client) UpdatePost(ctx context.Context, id int, title, content string) (blog.Post, error) {
	var p blog.Post
	resp, err := c.doRequest(ctx, http.MethodPut, postPath(id), postBody{Title: title, Content: content})
	if err != nil {
		return p, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return p, &blog.NotFoundError{ID: id}
	}
	if resp.StatusCode != http.StatusOK {
		return p, c.parseError(resp)
	}
	if err := decodeBody(resp, &p); err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

// DeletePost removes a post. The server answers a missing post with 400;
// that is reported as *blog.NotFoundError.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, postPath(id), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusBadRequest, http.StatusNotFound:
		apiErr := c.parseError(resp)
		if strings.Contains(apiErr.Message, "does not exist") || resp.StatusCode == http.StatusNotFound {
			return &blog.NotFoundError{ID: id}
		}
		return apiErr
	default:
		return c.parseError(resp)
	}
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

func postPath(id int) string {
	return "/blogs/" + url.PathEscape(strconv.Itoa(id))
}

// doRequest performs an HTTP request, JSON-encoding body when non-nil.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			ErrorCode: ErrCodeConnection,
			Message:   fmt.Sprintf("cannot connect to blogd at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

// parseError builds an APIError from an error response body.
func (c *Client) parseError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Message != "":
			return &APIError{StatusCode: resp.StatusCode, ErrorCode: errResp.Error, Message: errResp.Message}
		case errResp.Error != "":
			return &APIError{StatusCode: resp.StatusCode, ErrorCode: ErrCodeUnknown, Message: errResp.Error}
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  ErrCodeUnknown,
		Message:    fmt.Sprintf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
	}
}

func decodeBody(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FormatConnectionError returns a user-friendly message for connection failures.
func FormatConnectionError(err *APIError) string {
	return fmt.Sprintf(`Error: %s

Suggestions:
  - Start the server: blogd serve
  - Check the server address with --server or %s`, err.Message, EnvServer)
}
