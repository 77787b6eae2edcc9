package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding the fact table.
const DefaultRedisKey = "reactchat:facts"

// Redis reads an ordered fact table from a Redis list. Each element is a JSON
// encoded Entry; the list order is the match order.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

// DialRedis connects to addr, which is either a redis:// URL or host:port,
// and verifies the connection.
func DialRedis(ctx context.Context, addr, key string) (*Redis, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedis(client, key), nil
}

// Lookup implements Provider. The list is read on every call so edits to the
// table take effect on the next query.
func (r *Redis) Lookup(ctx context.Context, query string) (string, bool, error) {
	entries, err := r.Entries(ctx)
	if err != nil {
		return "", false, err
	}
	fact, ok := match(entries, query)
	return fact, ok, nil
}

// Entries returns the table in list order. Malformed elements are an error.
func (r *Redis) Entries(ctx context.Context) ([]Entry, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read facts from %s: %w", r.key, err)
	}
	entries := make([]Entry, 0, len(raw))
	for i, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("fact %d in %s: %w", i, r.key, err)
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("fact %d in %s: %w", i, r.key, err)
		}
		entries = append(entries, e.normalize())
	}
	return entries, nil
}

// Append adds entries to the end of the table.
func (r *Redis) Append(ctx context.Context, entries ...Entry) error {
	values := make([]any, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}
	if len(values) == 0 {
		return nil
	}
	return r.client.RPush(ctx, r.key, values...).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
