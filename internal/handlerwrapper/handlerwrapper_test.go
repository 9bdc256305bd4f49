package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type ping struct {
	Name string `json:"name"`
}

type pong struct {
	Greeting string `json:"greeting"`
}

func newMsg(t *testing.T, payload any) *message.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	msg := message.NewMessage("msg-1", data)
	msg.Metadata.Set(MetadataCorrelationID, "corr-1")
	return msg
}

func TestWrapTransformingTyped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name      string
		payload   any
		handler   TypedHandler[ping]
		wantErr   bool
		wantCount int
		check     func(t *testing.T, msgs []*message.Message)
	}{
		{
			name:    "result is published with topic and correlation id",
			payload: ping{Name: "mira"},
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				assert.Equal(t, "corr-1", observability.CorrelationID(ctx))
				assert.Equal(t, "msg-1", observability.MessageID(ctx))
				return []Result{{Topic: "pong.v1", Payload: pong{Greeting: "hi " + p.Name}}}, nil
			},
			wantCount: 1,
			check: func(t *testing.T, msgs []*message.Message) {
				assert.Equal(t, "pong.v1", msgs[0].Metadata.Get(MetadataTopic))
				assert.Equal(t, "corr-1", msgs[0].Metadata.Get(MetadataCorrelationID))
				var got pong
				require.NoError(t, json.Unmarshal(msgs[0].Payload, &got))
				assert.Equal(t, "hi mira", got.Greeting)
			},
		},
		{
			name:    "handler error is returned for retry",
			payload: ping{},
			handler: func(context.Context, *ping) ([]Result, error) {
				return nil, errors.New("db down")
			},
			wantErr: true,
		},
		{
			name:    "undecodable payload is acked",
			payload: "not an object",
			handler: func(context.Context, *ping) ([]Result, error) {
				t.Fatal("handler must not run")
				return nil, nil
			},
		},
		{
			name:    "result without topic fails",
			payload: ping{},
			handler: func(context.Context, *ping) ([]Result, error) {
				return []Result{{Payload: pong{}}}, nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapTransformingTyped("test.handler", logger, tracer, nil, tt.handler)
			msgs, err := h(newMsg(t, tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, msgs, tt.wantCount)
			if tt.check != nil {
				tt.check(t, msgs)
			}
		})
	}
}
