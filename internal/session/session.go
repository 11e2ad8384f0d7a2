// Package session keeps the authenticated state of each browser.
//
// The browser holds an opaque id in a cookie; the token and cached profile
// live in a Store keyed by that id. Handlers and controllers only see a
// Provider bound to one id.
package session

import (
	"context"
	"errors"
	"time"

	"admin-console/internal/models"
)

// ErrNotFound is returned by a Store when no unexpired record exists.
var ErrNotFound = errors.New("session not found")

// Record is a stored session with its expiry.
type Record struct {
	Session   models.Session `json:"session"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Store persists sessions by browser session id.
type Store interface {
	Load(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, id string, s models.Session, expiresAt time.Time) error
	Renew(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Cleaner is implemented by stores that need expired records purged.
type Cleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// Provider reads and writes the session of a single browser.
type Provider interface {
	// Get returns the current session. A missing session is the zero value.
	Get(ctx context.Context) (models.Session, error)
	// Set stores token and user together.
	Set(ctx context.Context, s models.Session) error
	// Clear removes token and user together.
	Clear(ctx context.Context) error
}

type boundProvider struct {
	store Store
	id    string
	ttl   time.Duration
}

// Bind returns a Provider for the session stored under id.
func Bind(store Store, id string, ttl time.Duration) Provider {
	return &boundProvider{store: store, id: id, ttl: ttl}
}

func (p *boundProvider) Get(ctx context.Context) (models.Session, error) {
	rec, err := p.store.Load(ctx, p.id)
	if errors.Is(err, ErrNotFound) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	return rec.Session, nil
}

func (p *boundProvider) Set(ctx context.Context, s models.Session) error {
	return p.store.Save(ctx, p.id, s, time.Now().Add(p.ttl))
}

func (p *boundProvider) Clear(ctx context.Context) error {
	return p.store.Delete(ctx, p.id)
}
