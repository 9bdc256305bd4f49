package accountsrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// stubHandlers records which topics reached it.
type stubHandlers struct {
	calls chan string
}

func (s *stubHandlers) hit(topic string) ([]handlerwrapper.Result, error) {
	s.calls <- topic
	return nil, nil
}

func (s *stubHandlers) HandleProfileRequested(context.Context, *accountsevents.ProfileRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.ProfileRequestedV1)
}

func (s *stubHandlers) HandleReputationRequested(context.Context, *accountsevents.ArgsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.ReputationRequestedV1)
}

func (s *stubHandlers) HandleLeaderboardRequested(context.Context, *accountsevents.ArgsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.LeaderboardRequestedV1)
}

func (s *stubHandlers) HandleMekosRequested(context.Context, *accountsevents.TargetRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.MekosRequestedV1)
}

func (s *stubHandlers) HandleGiveRequested(context.Context, *accountsevents.GiveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.GiveRequestedV1)
}

func (s *stubHandlers) HandleDailyRequested(context.Context, *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.DailyRequestedV1)
}

func (s *stubHandlers) HandleBackgroundBuyRequested(context.Context, *accountsevents.BackgroundRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.BackgroundBuyRequestedV1)
}

func (s *stubHandlers) HandleBackgroundSetRequested(context.Context, *accountsevents.BackgroundRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.BackgroundSetRequestedV1)
}

func (s *stubHandlers) HandleBackgroundsOwnedRequested(context.Context, *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.BackgroundsOwnedRequestedV1)
}

func (s *stubHandlers) HandleColorRequested(context.Context, *accountsevents.ColorRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.ColorRequestedV1)
}

func (s *stubHandlers) HandleAchievementsRequested(context.Context, *accountsevents.TargetRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.AchievementsRequestedV1)
}

func (s *stubHandlers) HandleSyncNameRequested(context.Context, *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.SyncNameRequestedV1)
}

func (s *stubHandlers) HandleExpCardRequested(context.Context, *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.ExpCardRequestedV1)
}

func (s *stubHandlers) HandleExperienceGained(context.Context, *accountsevents.ExperienceGainedPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.ExperienceGainedV1)
}

func (s *stubHandlers) HandleLevelUp(context.Context, *accountsevents.LevelUpPayloadV1) ([]handlerwrapper.Result, error) {
	return s.hit(accountsevents.LevelUpV1)
}

func (s *stubHandlers) HandleHTTPAccountSummary(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func newTestRouter(t *testing.T, registry *prometheus.Registry) (*AccountsRouter, *gochannel.GoChannel) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wmLogger := watermill.NewSlogLogger(logger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, wmLogger)
	t.Cleanup(func() { _ = pubsub.Close() })

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	require.NoError(t, err)

	return NewAccountsRouter(
		logger,
		router,
		pubsub,
		pubsub,
		noop.NewTracerProvider().Tracer("test"),
		observability.NoopMetrics{},
		registry,
	), pubsub
}

func TestConfigureRegistersEveryTopic(t *testing.T) {
	r, _ := newTestRouter(t, prometheus.NewRegistry())
	require.NoError(t, r.Configure(context.Background(), &stubHandlers{calls: make(chan string, 1)}))

	registered := r.Router.Handlers()
	for _, topic := range []string{
		accountsevents.ProfileRequestedV1,
		accountsevents.ReputationRequestedV1,
		accountsevents.LeaderboardRequestedV1,
		accountsevents.MekosRequestedV1,
		accountsevents.GiveRequestedV1,
		accountsevents.DailyRequestedV1,
		accountsevents.BackgroundBuyRequestedV1,
		accountsevents.BackgroundSetRequestedV1,
		accountsevents.BackgroundsOwnedRequestedV1,
		accountsevents.ColorRequestedV1,
		accountsevents.AchievementsRequestedV1,
		accountsevents.SyncNameRequestedV1,
		accountsevents.ExpCardRequestedV1,
		accountsevents.ExperienceGainedV1,
		accountsevents.LevelUpV1,
	} {
		assert.Contains(t, registered, "accounts."+topic)
	}
	assert.Len(t, registered, 15)
}

func TestRouterDeliversToHandler(t *testing.T) {
	r, pubsub := newTestRouter(t, nil)
	stub := &stubHandlers{calls: make(chan string, 1)}
	require.NoError(t, r.Configure(context.Background(), stub))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Router.Run(ctx) }()
	<-r.Router.Running()
	defer r.Close()

	data, err := json.Marshal(accountsevents.TargetRequestedPayloadV1{
		Invocation: accountsevents.Invocation{GuildID: 900, ChannelID: 901, AuthorID: 1, AuthorName: "kiwi"},
	})
	require.NoError(t, err)
	require.NoError(t, pubsub.Publish(accountsevents.MekosRequestedV1, message.NewMessage(watermill.NewUUID(), data)))

	select {
	case topic := <-stub.calls:
		assert.Equal(t, accountsevents.MekosRequestedV1, topic)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}
}
