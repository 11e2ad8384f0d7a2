package session

import (
	"context"
	"errors"
	"time"

	"admin-console/internal/models"
	"admin-console/internal/storage"
)

// SQLStore keeps sessions as rows in the console database.
type SQLStore struct {
	db *storage.DB
}

// NewSQLStore wraps db.
func NewSQLStore(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context, id string) (Record, error) {
	info, err := s.db.LoadSession(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return Record{Session: info.Session, ExpiresAt: info.ExpiresAt}, nil
}

func (s *SQLStore) Save(ctx context.Context, id string, sess models.Session, expiresAt time.Time) error {
	return s.db.SaveSession(ctx, id, sess, expiresAt)
}

func (s *SQLStore) Renew(ctx context.Context, id string, expiresAt time.Time) error {
	err := s.db.RenewSession(ctx, id, expiresAt)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.db.DeleteSession(ctx, id)
}

// CleanExpired removes expired session rows.
func (s *SQLStore) CleanExpired(ctx context.Context) (int64, error) {
	return s.db.CleanExpiredSessions(ctx)
}
