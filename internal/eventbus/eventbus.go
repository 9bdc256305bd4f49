// Package eventbus connects watermill to NATS JetStream.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus is the publisher/subscriber pair handed to the watermill router.
type EventBus interface {
	message.Publisher
	message.Subscriber
	CreateStream(ctx context.Context, name string, subjects ...string) error
	JetStream() jetstream.JetStream
}

// Config selects the NATS server and the durable queue group.
type Config struct {
	URL        string
	QueueGroup string
	AckWait    time.Duration
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	js         jetstream.JetStream
	natsConn   *nc.Conn
	logger     *slog.Logger

	streamMu       sync.Mutex
	createdStreams map[string]bool
}

var _ EventBus = (*eventBus)(nil)

// NewEventBus connects to NATS and builds JetStream-backed watermill publisher and subscriber.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	if cfg.AckWait <= 0 {
		cfg.AckWait = 30 * time.Second
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("NATS subscription error", slog.String("subject", s.Subject), slog.Any("error", err))
				return
			}
			logger.Error("NATS connection error", slog.Any("error", err))
		}),
	}

	natsConn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.URL,
			NatsOptions:      options,
			Unmarshaler:      marshaler,
			QueueGroupPrefix: cfg.QueueGroup,
			AckWaitTimeout:   cfg.AckWait,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				SubscribeOptions: []nc.SubOpt{
					nc.DeliverNew(),
					nc.AckExplicit(),
				},
			},
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

// Publish sends messages to topic. An empty topic routes every message by its
// "topic" metadata, which is how router handlers publish their results.
func (eb *eventBus) Publish(topic string, msgs ...*message.Message) error {
	return publishRouted(eb.publisher, topic, msgs...)
}

func publishRouted(pub message.Publisher, topic string, msgs ...*message.Message) error {
	if topic != "" {
		return pub.Publish(topic, msgs...)
	}

	var errs []error
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		t := msg.Metadata.Get(handlerwrapper.MetadataTopic)
		if t == "" {
			errs = append(errs, fmt.Errorf("message %s has no topic metadata", msg.UUID))
			continue
		}
		if err := pub.Publish(t, msg); err != nil {
			errs = append(errs, fmt.Errorf("publish to %s: %w", t, err))
		}
	}
	return errors.Join(errs...)
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", slog.String("topic", topic))
	return eb.subscriber.Subscribe(ctx, topic)
}

// CreateStream makes sure a stream covering subjects exists.
func (eb *eventBus) CreateStream(ctx context.Context, name string, subjects ...string) error {
	eb.streamMu.Lock()
	defer eb.streamMu.Unlock()

	if eb.createdStreams[name] {
		return nil
	}

	_, err := eb.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      name,
		Subjects:  subjects,
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}

	eb.logger.InfoContext(ctx, "Stream ready", slog.String("stream", name), slog.Any("subjects", subjects))
	eb.createdStreams[name] = true
	return nil
}

func (eb *eventBus) JetStream() jetstream.JetStream {
	return eb.js
}

// Close closes the watermill resources and the NATS connection.
func (eb *eventBus) Close() error {
	var errs []error
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if eb.subscriber != nil {
		if err := eb.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return errors.Join(errs...)
}
