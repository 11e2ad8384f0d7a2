// Package client talks to the REST backend that owns users and transactions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"admin-console/internal/models"
)

// Client is a thin JSON client for the backend's collection endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	return raw, nil
}

func itemPath(endpoint, id string) string {
	return endpoint + "/" + url.PathEscape(id)
}

// List calls GET endpoint and returns the collection in server order.
func (c *Client) List(ctx context.Context, endpoint string) ([]models.Item, error) {
	raw, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return DecodeCollection(raw)
}

// Create calls POST endpoint with body and returns the created item when the
// backend echoes one.
func (c *Client) Create(ctx context.Context, endpoint string, body map[string]any) (models.Item, error) {
	raw, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	item, err := decodeItem(raw)
	if errors.Is(err, ErrUnrecognizedShape) {
		return nil, nil
	}
	return item, err
}

// Update calls PUT endpoint/{id}. The response body is ignored.
func (c *Client) Update(ctx context.Context, endpoint, id string, body map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, itemPath(endpoint, id), body)
	return err
}

// Delete calls DELETE endpoint/{id}. The response body is ignored.
func (c *Client) Delete(ctx context.Context, endpoint, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(endpoint, id), nil)
	return err
}

// Login calls POST /login and returns the session it grants.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	raw, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.Session{}, err
	}

	var env struct {
		Data models.Session `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.Session{}, fmt.Errorf("client: decode login: %w", err)
	}
	if env.Data.Token == "" {
		return models.Session{}, fmt.Errorf("client: login response has no token: %w", ErrUnrecognizedShape)
	}
	return env.Data, nil
}

// Me calls GET /me and returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data *models.User `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("client: decode me: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("client: me response has no data: %w", ErrUnrecognizedShape)
	}
	return env.Data, nil
}
