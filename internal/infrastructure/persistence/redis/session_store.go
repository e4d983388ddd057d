// Package redis implements the Redis-backed session store for teacher
// logins. Session expiry rides on Redis key TTLs: an expired session simply
// disappears, and the hub treats the absence as "logged in once, no longer
// valid" via the stored login marker.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
)

const sessionDomain = "session_store"

// Key prefixes for namespacing Redis keys.
const (
	// PrefixSession is the prefix for live session keys (TTL-bound).
	PrefixSession = "session:"

	// PrefixSeen is the prefix for login markers. A seen key with no
	// session key distinguishes "expired" from "never logged in".
	PrefixSeen = "session_seen:"
)

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}
	return client, nil
}

// sessionRecord is the stored shape of a session.
type sessionRecord struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore implements teacher.SessionStore on Redis.
type SessionStore struct {
	client *redis.Client

	// seenTTL bounds how long "has logged in before" markers survive.
	seenTTL time.Duration
}

// NewSessionStore creates a session store on the given client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client:  client,
		seenTTL: 30 * 24 * time.Hour,
	}
}

// Put stores the session under its username key with the remaining session
// lifetime as the key TTL, replacing any prior session.
func (s *SessionStore) Put(ctx context.Context, session *teacher.Session) error {
	now := time.Now().UTC()
	ttl := session.TTLRemaining(now)
	if ttl <= 0 {
		return shared.NewDomainError(sessionDomain, "Put", shared.ErrValidation, "session already expired")
	}

	record := sessionRecord{
		Username:  session.Username.String(),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return shared.WrapError(sessionDomain, "Put", shared.ErrValidation, "failed to encode session", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, PrefixSession+record.Username, data, ttl)
	pipe.Set(ctx, PrefixSeen+record.Username, now.Format(time.RFC3339), s.seenTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return shared.WrapError(sessionDomain, "Put", shared.ErrStoreUnavailable, "failed to store session", err)
	}
	return nil
}

// Get returns the session for the username. A username whose session key
// has expired but whose login marker survives yields the expired session,
// so the caller's validity check reports false rather than NotFound.
func (s *SessionStore) Get(ctx context.Context, username teacher.Username) (*teacher.Session, error) {
	data, err := s.client.Get(ctx, PrefixSession+username.String()).Bytes()
	if err == nil {
		var record sessionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, shared.WrapError(sessionDomain, "Get", shared.ErrStoreUnavailable, "failed to decode session", err)
		}
		return &teacher.Session{
			Username:  teacher.Username(record.Username),
			CreatedAt: record.CreatedAt,
			ExpiresAt: record.ExpiresAt,
		}, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, shared.WrapError(sessionDomain, "Get", shared.ErrStoreUnavailable, "failed to load session", err)
	}

	seen, err := s.client.Get(ctx, PrefixSeen+username.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, shared.NewDomainError(sessionDomain, "Get", shared.ErrNotFound, "no session for username")
	}
	if err != nil {
		return nil, shared.WrapError(sessionDomain, "Get", shared.ErrStoreUnavailable, "failed to load login marker", err)
	}

	// Logged in before, session gone: report an expired session.
	loggedInAt, err := time.Parse(time.RFC3339, seen)
	if err != nil {
		loggedInAt = time.Time{}
	}
	return &teacher.Session{
		Username:  username,
		CreatedAt: loggedInAt,
		ExpiresAt: loggedInAt,
	}, nil
}

// Delete removes the session for the username. The login marker stays, so
// a logged-out teacher still reads as "invalid", not "never logged in".
// Redis acknowledges the DEL before Delete returns, giving the issuing
// caller read-your-writes.
func (s *SessionStore) Delete(ctx context.Context, username teacher.Username) error {
	if err := s.client.Del(ctx, PrefixSession+username.String()).Err(); err != nil {
		return shared.WrapError(sessionDomain, "Delete", shared.ErrStoreUnavailable, "failed to delete session", err)
	}
	return nil
}
