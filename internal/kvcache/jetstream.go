package kvcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamStore stores entries in a JetStream KeyValue bucket.
type JetStreamStore struct {
	kv  jetstream.KeyValue
	now func() time.Time
}

var _ Store = (*JetStreamStore)(nil)

// BucketConfig describes the bucket backing the cache.
type BucketConfig struct {
	Name string
	// MaxAge bounds how long any entry may linger after its own expiry has passed.
	MaxAge time.Duration
}

// NewJetStreamStore creates (or reuses) the bucket and returns a store over it.
func NewJetStreamStore(ctx context.Context, js jetstream.JetStream, cfg BucketConfig) (*JetStreamStore, error) {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 72 * time.Hour
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  cfg.Name,
		History: 1,
		TTL:     cfg.MaxAge,
		Storage: jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create key value bucket %s: %w", cfg.Name, err)
	}
	return NewJetStreamStoreFromKV(kv), nil
}

// NewJetStreamStoreFromKV wraps an existing bucket.
func NewJetStreamStoreFromKV(kv jetstream.KeyValue) *JetStreamStore {
	return &JetStreamStore{kv: kv, now: time.Now}
}

func (s *JetStreamStore) Exists(ctx context.Context, key string) (bool, error) {
	e, err := s.GetEntry(ctx, key)
	if err != nil {
		return false, err
	}
	return e.Present, nil
}

func (s *JetStreamStore) Get(ctx context.Context, key string, out any) (bool, error) {
	e, err := s.GetEntry(ctx, key)
	if err != nil {
		return false, err
	}
	if !e.Present {
		return false, nil
	}
	if err := e.Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *JetStreamStore) Upsert(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := encode(v, ttl, s.now())
	if err != nil {
		return err
	}
	if _, err := s.kv.Put(ctx, bucketKey(key), data); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *JetStreamStore) GetEntry(ctx context.Context, key string) (Entry, error) {
	kve, err := s.kv.Get(ctx, bucketKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return Entry{Key: key}, nil
		}
		return Entry{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return decode(key, kve.Value(), kve.Revision(), s.now())
}

func (s *JetStreamStore) Create(ctx context.Context, key string, v any, ttl time.Duration) (uint64, error) {
	data, err := encode(v, ttl, s.now())
	if err != nil {
		return 0, err
	}
	rev, err := s.kv.Create(ctx, bucketKey(key), data)
	if err != nil {
		if isConflict(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("failed to create %s: %w", key, err)
	}
	return rev, nil
}

func (s *JetStreamStore) Update(ctx context.Context, key string, v any, ttl time.Duration, revision uint64) (uint64, error) {
	data, err := encode(v, ttl, s.now())
	if err != nil {
		return 0, err
	}
	rev, err := s.kv.Update(ctx, bucketKey(key), data, revision)
	if err != nil {
		if isConflict(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("failed to update %s: %w", key, err)
	}
	return rev, nil
}

func isConflict(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
	}
	return false
}
