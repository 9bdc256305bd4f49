// Package handlerwrapper adapts typed handlers to watermill HandlerFuncs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MetadataTopic names the topic the publisher should route a result to.
	MetadataTopic = "topic"
	// MetadataCorrelationID carries the correlation id across hops.
	MetadataCorrelationID = "correlation_id"
)

// Result is one outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// TypedHandler handles a decoded payload and returns results to publish.
type TypedHandler[T any] func(ctx context.Context, payload *T) ([]Result, error)

// WrapTransformingTyped decodes the message JSON into T, runs handler inside a span,
// and encodes every Result into an outgoing message tagged with its topic.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
	handler TypedHandler[T],
) message.HandlerFunc {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := msg.Context()

		correlationID := msg.Metadata.Get(MetadataCorrelationID)
		if correlationID == "" {
			correlationID = msg.UUID
		}
		ctx = observability.WithCorrelationID(ctx, correlationID)
		ctx = observability.WithMessageID(ctx, msg.UUID)

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		metrics.RecordOperationAttempt(ctx, handlerName, "handler")
		start := time.Now()
		defer func() {
			metrics.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			// A payload that cannot be decoded will never succeed; ack it.
			logger.ErrorContext(ctx, "Failed to unmarshal payload",
				observability.CorrelationAttr(ctx),
				slog.String("handler", handlerName),
				observability.ErrorAttr(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName, "handler")
			span.RecordError(err)
			return nil, nil
		}

		res, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler returned error",
				observability.CorrelationAttr(ctx),
				slog.String("handler", handlerName),
				observability.ErrorAttr(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName, "handler")
			span.RecordError(err)
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		out := make([]*message.Message, 0, len(res))
		for _, r := range res {
			m, err := NewResultMessage(ctx, r)
			if err != nil {
				metrics.RecordOperationFailure(ctx, handlerName, "handler")
				span.RecordError(err)
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, m)
		}

		metrics.RecordOperationSuccess(ctx, handlerName, "handler")
		return out, nil
	}
}

// NewResultMessage encodes a Result as a watermill message.
func NewResultMessage(ctx context.Context, r Result) (*message.Message, error) {
	if r.Topic == "" {
		return nil, fmt.Errorf("result has no topic")
	}

	data, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", r.Topic, err)
	}

	m := message.NewMessage(uuid.NewString(), data)
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	m.Metadata.Set(MetadataTopic, r.Topic)

	correlationID := observability.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	m.Metadata.Set(MetadataCorrelationID, correlationID)
	m.SetContext(ctx)
	return m, nil
}
