package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TaskAPI defines the REST operations the store depends on. It is
// implemented by *Client and can be faked in tests.
type TaskAPI interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error)
	ListAllTasks(ctx context.Context) ([]DateGroup, error)
	ListTasksByDate(ctx context.Context, date string) ([]Task, error)
	UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (Task, error)
	ToggleTask(ctx context.Context, id string, completed bool) (Task, error)
	DeleteTask(ctx context.Context, id string) error
	FetchStats(ctx context.Context) (Stats, error)
}

// Ensure Client implements TaskAPI at compile time.
var _ TaskAPI = (*Client)(nil)

// Client talks to the daylist HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultOrigin    = "127.0.0.1:8000"
	defaultUserAgent = "daylist/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given origin. An empty origin selects
// the local development server. A nil transport uses the default one; the
// offline cache worker is wired in here when enabled.
func NewClient(origin string, transport http.RoundTripper) (*Client, error) {
	base, err := parseBaseURL(origin)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized origin the client talks to.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// CreateTask creates a task for a date and returns the server's task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error) {
	var payload Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &payload); err != nil {
		return Task{}, err
	}
	return payload, nil
}

// ListAllTasks retrieves every task grouped by date.
func (c *Client) ListAllTasks(ctx context.Context) ([]DateGroup, error) {
	var payload []DateGroup
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListTasksByDate retrieves the tasks for a single date key.
func (c *Client) ListTasksByDate(ctx context.Context, date string) ([]Task, error) {
	var payload []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(date), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// UpdateTask updates the provided fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (Task, error) {
	var payload Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), req, &payload); err != nil {
		return Task{}, err
	}
	return payload, nil
}

// ToggleTask sets a task's completed flag.
func (c *Client) ToggleTask(ctx context.Context, id string, completed bool) (Task, error) {
	return c.UpdateTask(ctx, id, UpdateTaskRequest{Completed: &completed})
}

// DeleteTask removes a task. The server answers 204 on success.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// FetchStats retrieves aggregate task counts.
func (c *Client) FetchStats(ctx context.Context) (Stats, error) {
	var payload Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &payload); err != nil {
		return Stats{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		text, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode == http.StatusNoContent || dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return transportError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// ParseOrigin resolves an origin string the same way NewClient does:
// empty falls back to the default local server, a bare host:port gets
// an http scheme, and any path or query is discarded.
func ParseOrigin(origin string) (*url.URL, error) {
	return parseBaseURL(origin)
}

func parseBaseURL(origin string) (*url.URL, error) {
	trimmed := strings.TrimSpace(origin)
	if trimmed == "" {
		trimmed = defaultOrigin
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api origin %q: %w", origin, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
