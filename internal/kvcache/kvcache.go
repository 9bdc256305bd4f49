// Package kvcache is a small key/value cache with per-entry expiry and
// revision-based compare-and-swap, backed by a JetStream KeyValue bucket.
package kvcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrConflict means the entry changed since it was read.
	ErrConflict = errors.New("kvcache: revision conflict")
	// ErrNotFound means the key is absent or expired.
	ErrNotFound = errors.New("kvcache: key not found")
)

// Entry is a read of a single key.
//
// Revision is non-zero whenever the key has a stored value, even an expired one;
// writers pass it to Update. Present reports whether the value is still live.
type Entry struct {
	Key       string
	Value     []byte
	Revision  uint64
	ExpiresAt time.Time
	Present   bool
}

// Decode unmarshals the entry value into out.
func (e Entry) Decode(out any) error {
	if !e.Present {
		return ErrNotFound
	}
	return json.Unmarshal(e.Value, out)
}

// Store is the cache contract used by the accounts module.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string, out any) (bool, error)
	Upsert(ctx context.Context, key string, v any, ttl time.Duration) error

	GetEntry(ctx context.Context, key string) (Entry, error)
	// Create stores v only if key has never been written or was deleted.
	Create(ctx context.Context, key string, v any, ttl time.Duration) (uint64, error)
	// Update stores v only if the current revision equals revision.
	Update(ctx context.Context, key string, v any, ttl time.Duration, revision uint64) (uint64, error)
}

// envelope wraps stored values with their expiry. A zero ExpiresAt never expires.
type envelope struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

func encode(v any, ttl time.Duration, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	env := envelope{Value: raw}
	if ttl > 0 {
		env.ExpiresAt = now.Add(ttl).UTC()
	}
	return json.Marshal(env)
}

func decode(key string, data []byte, revision uint64, now time.Time) (Entry, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Entry{}, fmt.Errorf("failed to unmarshal entry %s: %w", key, err)
	}
	return Entry{
		Key:       key,
		Value:     env.Value,
		Revision:  revision,
		ExpiresAt: env.ExpiresAt,
		Present:   env.ExpiresAt.IsZero() || now.Before(env.ExpiresAt),
	}, nil
}

// bucketKey maps "user:1:rep" to "user.1.rep"; JetStream keys may not contain ':'.
func bucketKey(key string) string {
	return strings.ReplaceAll(key, ":", ".")
}
