package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"admin-console/internal/models"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "console:session:"

// RedisStore keeps sessions as JSON values whose TTL tracks the session expiry.
type RedisStore struct {
	client *goredis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: rdb}, nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (Record, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return rec, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, s models.Session, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, id)
	}
	data, err := json.Marshal(Record{Session: s, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+id, data, ttl).Err()
}

func (r *RedisStore) Renew(ctx context.Context, id string, expiresAt time.Time) error {
	rec, err := r.Load(ctx, id)
	if err != nil {
		return err
	}
	return r.Save(ctx, id, rec.Session, expiresAt)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
