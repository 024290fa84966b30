// Package client talks to the cardsort HTTP API. Client satisfies the drag
// session's persister so a remote board can be reordered like a local one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 10 * time.Second

// ErrBadRequest is returned for 400 responses outside of reorder
var ErrBadRequest = errors.New("bad request")

// APIError is a non-2xx response. It unwraps to the matching models
// sentinel so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cardsort api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("cardsort api: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// Client is a thin JSON client for one owner's board
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the board's cards in board order
func (c *Client) List(ctx context.Context) ([]models.Card, error) {
	var out struct {
		Cards []models.Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cards", nil, &out, ErrBadRequest); err != nil {
		return nil, err
	}
	return out.Cards, nil
}

// Commit posts a reorder batch
func (c *Client) Commit(ctx context.Context, items []models.ReorderItem) error {
	body := struct {
		Items []models.ReorderItem `json:"items"`
	}{Items: items}
	return c.do(ctx, http.MethodPost, "/api/reorder", body, nil, models.ErrInvalidReorder)
}

// GetCard fetches one card
func (c *Client) GetCard(ctx context.Context, id string) (models.Card, error) {
	var out struct {
		Card models.Card `json:"card"`
	}
	err := c.do(ctx, http.MethodGet, "/api/cards/"+id, nil, &out, ErrBadRequest)
	return out.Card, err
}

// CreateCard appends a card; an empty status means todo
func (c *Client) CreateCard(ctx context.Context, title, description string, status models.Status) (models.Card, error) {
	body := map[string]any{"title": title, "description": description}
	if status != "" {
		body["status"] = status
	}
	var out struct {
		Card models.Card `json:"card"`
	}
	err := c.do(ctx, http.MethodPost, "/api/cards", body, &out, ErrBadRequest)
	return out.Card, err
}

// UpdateCard sends a partial update
func (c *Client) UpdateCard(ctx context.Context, id string, patch models.CardPatch) (models.Card, error) {
	var out struct {
		Card models.Card `json:"card"`
	}
	err := c.do(ctx, http.MethodPatch, "/api/cards/"+id, patch, &out, ErrBadRequest)
	return out.Card, err
}

// DeleteCard removes a card
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/"+id, nil, nil, ErrBadRequest)
}

// Health reports whether the server answers
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, ErrBadRequest)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, badRequest error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeError(resp, badRequest)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(ctx, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// transportError makes request timeouts recognisable as
// context.DeadlineExceeded regardless of where they fired
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}

func decodeError(resp *http.Response, badRequest error) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		apiErr.kind = badRequest
	case http.StatusNotFound:
		apiErr.kind = models.ErrCardNotFound
	case http.StatusConflict:
		apiErr.kind = models.ErrConflict
	}
	return apiErr
}
