// Package cache implements named, content-addressed collections on Redis.
// Every collection is a single Redis hash, so writers and readers rely on
// Redis for concurrency control and InvalidateAll is one DEL.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDisabled is returned by Set when no Redis client is configured.
var ErrDisabled = errors.New("cache disabled")

// Entry is a stored value plus the metadata surfaced as HTTP validators.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	Hash      string          `json:"hash"`
	LastWrite time.Time       `json:"last_write"`
}

// Collection groups related entries under one Redis hash.
type Collection struct {
	rdb *redis.Client
	key string
	ttl time.Duration
	now func() time.Time
}

// NewCollection returns a collection stored at "<prefix>:<name>".  Entries
// older than ttl are treated as missing; ttl <= 0 keeps them until
// invalidated.  A nil client yields a disabled collection.
func NewCollection(rdb *redis.Client, prefix, name string, ttl time.Duration) *Collection {
	key := name
	if prefix != "" {
		key = prefix + ":" + name
	}
	return &Collection{rdb: rdb, key: key, ttl: ttl, now: time.Now}
}

// Enabled reports whether the collection is backed by Redis.
func (c *Collection) Enabled() bool { return c != nil && c.rdb != nil }

// Name returns the Redis key of the collection.
func (c *Collection) Name() string { return c.key }

// Get returns the entry stored under key.  A disabled collection, a missing
// field or an expired entry all report found == false.
func (c *Collection) Get(ctx context.Context, key string) (Entry, bool, error) {
	if !c.Enabled() {
		return Entry{}, false, nil
	}
	raw, err := c.rdb.HGet(ctx, c.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get %s: %w", c.key, err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// A corrupt field behaves like a miss and is overwritten by the next Set.
		return Entry{}, false, nil
	}
	if c.ttl > 0 && c.now().Sub(e.LastWrite) > c.ttl {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Set stores value under key, overwriting any previous entry, and returns
// the new metadata.  value must be valid JSON.
func (c *Collection) Set(ctx context.Context, key string, value []byte) (Entry, error) {
	if !c.Enabled() {
		return Entry{}, ErrDisabled
	}
	sum := sha1.Sum(value)
	e := Entry{
		Value:     json.RawMessage(value),
		Hash:      hex.EncodeToString(sum[:]),
		LastWrite: c.now().UTC().Truncate(time.Second),
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("cache encode: %w", err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, c.key, key, raw)
		if c.ttl > 0 {
			p.Expire(ctx, c.key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("cache set %s: %w", c.key, err)
	}
	return e, nil
}

// Delete removes a single entry.
func (c *Collection) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.HDel(ctx, c.key, key).Err()
}

// InvalidateAll drops every entry of the collection.
func (c *Collection) InvalidateAll(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", c.key, err)
	}
	return nil
}
