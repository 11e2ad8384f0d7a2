package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"admin-console/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// SessionInfo holds a stored browser session and its timing data.
type SessionInfo struct {
	Session      models.Session
	LastActivity time.Time
	ExpiresAt    time.Time
}

// SaveSession creates or replaces the session stored under id.
func (db *DB) SaveSession(ctx context.Context, id string, s models.Session, expiresAt time.Time) error {
	userJSON := ""
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("storage: encode session user: %w", err)
		}
		userJSON = string(b)
	}

	query, args, err := db.sb.Insert("sessions").
		Columns("id", "token", "user_json", "expires_at", "last_activity").
		Values(id, s.Token, userJSON, expiresAt.Unix(), time.Now().Unix()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json,
			expires_at = excluded.expires_at, last_activity = excluded.last_activity`).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.conn.ExecContext(ctx, query, args...)
	return err
}

// LoadSession returns the unexpired session stored under id.
func (db *DB) LoadSession(ctx context.Context, id string) (*SessionInfo, error) {
	query, args, err := db.sb.Select("token", "user_json", "last_activity", "expires_at").
		From("sessions").
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"expires_at": time.Now().Unix()}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		info                    SessionInfo
		userJSON                string
		lastActivity, expiresAt int64
	)
	row := db.conn.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&info.Session.Token, &userJSON, &lastActivity, &expiresAt); err != nil {
		return nil, notFound(err)
	}
	if userJSON != "" {
		var u models.User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return nil, fmt.Errorf("storage: decode session user: %w", err)
		}
		info.Session.User = &u
	}
	info.LastActivity = time.Unix(lastActivity, 0)
	info.ExpiresAt = time.Unix(expiresAt, 0)
	return &info, nil
}

// RenewSession updates last_activity and expires_at for a session.
func (db *DB) RenewSession(ctx context.Context, id string, newExpiresAt time.Time) error {
	query, args, err := db.sb.Update("sessions").
		Set("last_activity", time.Now().Unix()).
		Set("expires_at", newExpiresAt.Unix()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(db.conn.ExecContext(ctx, query, args...))
}

// DeleteSession removes a session by id. Deleting a missing session is not an error.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	query, args, err := db.sb.Delete("sessions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = db.conn.ExecContext(ctx, query, args...)
	return err
}

// CleanExpiredSessions removes all expired sessions.
func (db *DB) CleanExpiredSessions(ctx context.Context) (int64, error) {
	query, args, err := db.sb.Delete("sessions").
		Where(sq.LtOrEq{"expires_at": time.Now().Unix()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
