package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures from the Redis backend.
var ErrRedisUnavailable = errors.New("activity redis unavailable")

// Entry is one recorded action. JSON-encoded in the Redis backend.
type Entry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// Log records actions per user and returns the recent window for
// detection. Implementations must be safe for concurrent use.
type Log interface {
	Record(ctx context.Context, userID string, entry Entry) error
	Recent(ctx context.Context, userID string, window time.Duration) ([]Entry, error)
}

// RedisLog keeps each user's actions in a Redis list, newest first,
// trimmed to MaxEntries and expired after Retention.
type RedisLog struct {
	redis      redis.UniversalClient
	prefix     string
	retention  time.Duration
	maxEntries int64
}

// NewRedisLog creates a [RedisLog]. Zero retention and maxEntries fall
// back to one hour and 256 entries.
func NewRedisLog(redisClient redis.UniversalClient, prefix string, retention time.Duration, maxEntries int64) *RedisLog {
	if prefix == "" {
		prefix = "aact"
	}
	if retention <= 0 {
		retention = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &RedisLog{
		redis:      redisClient,
		prefix:     prefix,
		retention:  retention,
		maxEntries: maxEntries,
	}
}

func (l *RedisLog) key(userID string) string {
	return l.prefix + ":" + userID
}

// Record pushes entry onto the user's list, trims to the cap, and
// refreshes the retention TTL in one pipeline round-trip.
func (l *RedisLog) Record(ctx context.Context, userID string, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := l.key(userID)
	_, err = l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, encoded)
		pipe.LTrim(ctx, key, 0, l.maxEntries-1)
		pipe.Expire(ctx, key, l.retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Recent returns entries newer than now-window, newest first. Corrupt
// list items are skipped rather than failing the whole read.
func (l *RedisLog) Recent(ctx context.Context, userID string, window time.Duration) ([]Entry, error) {
	raw, err := l.redis.LRange(ctx, l.key(userID), 0, l.maxEntries-1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	cutoff := time.Now().Add(-window)
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		if window > 0 && !entry.Timestamp.After(cutoff) {
			// The list is newest-first; everything past the cutoff is older.
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
