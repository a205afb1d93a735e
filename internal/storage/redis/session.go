package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	jobdomain "github.com/honeycarbs/job-finder/internal/domain/job"
)

const (
	keyPrefix = "jf:session:"
	// maxUpdateAttempts bounds optimistic retries when writers collide
	maxUpdateAttempts = 10
)

// ErrContention is returned when an update keeps losing to other writers
var ErrContention = errors.New("session: too many concurrent updates")

var _ jobdomain.SessionStore = (*SessionStore)(nil)

// NewClient parses redisURL and verifies connectivity
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}

	return client, nil
}

// SessionStore keeps session state as JSON values with a sliding TTL, so
// several server instances can share sessions. Updates use WATCH/MULTI, so
// writers on different instances never overwrite each other.
type SessionStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewSessionStore wraps a connected client
func NewSessionStore(rdb redis.UniversalClient, ttl time.Duration) (*SessionStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("session: redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive, got %s", ttl)
	}
	return &SessionStore{rdb: rdb, ttl: ttl}, nil
}

// Load decodes the state saved under id
func (s *SessionStore) Load(ctx context.Context, id string) (jobdomain.State, error) {
	st, found, err := get(ctx, s.rdb, key(id))
	if err != nil {
		return jobdomain.State{}, err
	}
	if !found {
		return jobdomain.State{}, jobdomain.ErrSessionNotFound
	}
	return st, nil
}

// Update reads, transforms and writes id inside an optimistic transaction,
// retrying from a fresh read when another writer commits first.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(jobdomain.State, bool) jobdomain.State) (jobdomain.State, error) {
	k := key(id)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var next jobdomain.State

		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			cur, found, err := get(ctx, tx, k)
			if err != nil {
				return err
			}

			next = fn(cur, found)
			raw, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("session: encode: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, k, raw, s.ttl)
				return nil
			})
			return err
		}, k)

		switch {
		case errors.Is(err, redis.TxFailedErr):
			continue
		case err != nil:
			return jobdomain.State{}, fmt.Errorf("session: update: %w", err)
		}
		return next, nil
	}

	return jobdomain.State{}, ErrContention
}

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func get(ctx context.Context, c getter, k string) (jobdomain.State, bool, error) {
	raw, err := c.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return jobdomain.State{}, false, nil
	}
	if err != nil {
		return jobdomain.State{}, false, fmt.Errorf("session: get: %w", err)
	}

	var st jobdomain.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return jobdomain.State{}, false, fmt.Errorf("session: decode: %w", err)
	}
	return st, true, nil
}

func key(id string) string {
	return keyPrefix + id
}
