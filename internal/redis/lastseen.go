package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LastSeenStore persists the last-seen timestamp a user goes offline with.
// The presence registry itself is process-local; only this timestamp
// outlives the process so "last seen" queries keep working after restarts.
type LastSeenStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewLastSeenStore(client *goredis.Client, ttl time.Duration) *LastSeenStore {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &LastSeenStore{client: client, ttl: ttl}
}

func lastSeenKey(userID string) string {
	return fmt.Sprintf("last_seen:%s", userID)
}

func (s *LastSeenStore) Set(ctx context.Context, userID string, at time.Time) error {
	return s.client.Set(ctx, lastSeenKey(userID), at.UTC().Format(time.RFC3339), s.ttl).Err()
}

// Get returns the stored last-seen time, or the zero time if none is known.
func (s *LastSeenStore) Get(ctx context.Context, userID string) (time.Time, error) {
	value, err := s.client.Get(ctx, lastSeenKey(userID)).Result()
	if err == goredis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}
