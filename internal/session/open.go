package session

import (
	"fmt"
	"io"
	"strings"

	"admin-console/internal/config"
	"admin-console/internal/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the Store selected by cfg. The returned Closer releases its connection.
func Open(cfg config.SessionConfig) (Store, io.Closer, error) {
	switch strings.ToLower(cfg.Store) {
	case "memory":
		return NewMemoryStore(), nopCloser{}, nil
	case "redis":
		rs, err := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	case "sqlite", "postgres":
		db, err := storage.Open(storage.Dialect(strings.ToLower(cfg.Store)), cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open session database: %w", err)
		}
		return NewSQLStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
