package testutils

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// ResetJetStreamState purges the given streams and drops their consumers.
// Streams that do not exist yet are skipped.
func (env *TestEnvironment) ResetJetStreamState(ctx context.Context, streamNames ...string) error {
	if env.JetStream == nil {
		return fmt.Errorf("JetStream context is nil")
	}

	for _, name := range streamNames {
		stream, err := env.JetStream.Stream(ctx, name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to access stream %s: %w", name, err)
		}
		if err := stream.Purge(ctx); err != nil {
			return fmt.Errorf("failed to purge stream %s: %w", name, err)
		}

		consumers := stream.ListConsumers(ctx)
		for ci := range consumers.Info() {
			if ci == nil {
				continue
			}
			if err := env.JetStream.DeleteConsumer(ctx, name, ci.Name); err != nil && !errors.Is(err, jetstream.ErrConsumerNotFound) {
				return fmt.Errorf("failed to delete consumer %s on %s: %w", ci.Name, name, err)
			}
		}
		if err := consumers.Err(); err != nil {
			return fmt.Errorf("failed to list consumers of %s: %w", name, err)
		}
	}
	return nil
}

// DeleteKeyValue removes a KV bucket so each test starts from an empty cache.
func (env *TestEnvironment) DeleteKeyValue(ctx context.Context, bucket string) error {
	err := env.JetStream.DeleteKeyValue(ctx, bucket)
	if err != nil && !errors.Is(err, jetstream.ErrBucketNotFound) {
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	return nil
}
