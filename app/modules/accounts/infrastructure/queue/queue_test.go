package accountsqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/bwmarrin/discordgo"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInserter struct {
	InsertFunc func(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)

	args []river.JobArgs
	opts []*river.InsertOpts
}

func (f *fakeInserter) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	f.args = append(f.args, args)
	f.opts = append(f.opts, opts)
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, args, opts)
	}
	return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: int64(len(f.args))}}, nil
}

type fakeSender struct {
	mu  sync.Mutex
	err error

	channels []int64
	sent     []*discordgo.MessageEmbed
}

func (f *fakeSender) SendEmbed(_ context.Context, channelID int64, e *discordgo.MessageEmbed, _ ...discord.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.channels = append(f.channels, channelID)
	f.sent = append(f.sent, e)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLocales(t *testing.T) *localization.Catalog {
	t.Helper()
	c, err := localization.LoadCatalog()
	require.NoError(t, err)
	return c
}

func newTestService(jobs inserter) *Service {
	return &Service{jobs: jobs, logger: testLogger(), metrics: observability.NoopMetrics{}}
}

func TestNotifyLevelUpEnqueuesUniqueJob(t *testing.T) {
	jobs := &fakeInserter{}
	s := newTestService(jobs)

	notice := accountsservice.LevelUpNotice{GuildID: 900, ChannelID: 901, UserID: 1, Username: "kiwi", Level: 5}
	require.NoError(t, s.NotifyLevelUp(context.Background(), notice))

	require.Len(t, jobs.args, 1)
	job, ok := jobs.args[0].(LevelUpNotificationJob)
	require.True(t, ok)
	assert.Equal(t, notice, job.Notice)
	assert.Equal(t, QueueName, jobs.opts[0].Queue)
	assert.True(t, jobs.opts[0].UniqueOpts.ByArgs)
}

func TestNotifyAchievementDuplicateIsNotAnError(t *testing.T) {
	jobs := &fakeInserter{
		InsertFunc: func(context.Context, river.JobArgs, *river.InsertOpts) (*rivertype.JobInsertResult, error) {
			return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: 1}, UniqueSkippedAsDuplicate: true}, nil
		},
	}
	s := newTestService(jobs)

	err := s.NotifyAchievement(context.Background(), accountsservice.AchievementNotice{ChannelID: 901, UserID: 1, Username: "kiwi", Icon: "🎟", ResourceName: "Intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "accounts_achievement_notification", jobs.args[0].Kind())
}

func TestNotifyPropagatesInsertFailure(t *testing.T) {
	boom := errors.New("pool closed")
	s := newTestService(&fakeInserter{
		InsertFunc: func(context.Context, river.JobArgs, *river.InsertOpts) (*rivertype.JobInsertResult, error) {
			return nil, boom
		},
	})

	err := s.NotifyLevelUp(context.Background(), accountsservice.LevelUpNotice{UserID: 1, Level: 2})
	require.ErrorIs(t, err, boom)
}

func TestLevelUpNotificationWorker(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		wantFields int
	}{
		{name: "plain level up", wantFields: 0},
		{name: "level up with rewards", roles: []string{"Regular", "Veteran"}, wantFields: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			w := NewLevelUpNotificationWorker(testLogger(), sender, testLocales(t))

			err := w.Work(context.Background(), &river.Job[LevelUpNotificationJob]{
				JobRow: &rivertype.JobRow{ID: 7, Attempt: 1},
				Args: LevelUpNotificationJob{Notice: accountsservice.LevelUpNotice{
					ChannelID: 901, UserID: 1, Username: "kiwi", Level: 12, RoleNames: tt.roles,
				}},
			})
			require.NoError(t, err)

			require.Len(t, sender.sent, 1)
			assert.Equal(t, []int64{901}, sender.channels)
			got := sender.sent[0]
			assert.Equal(t, "You leveled up!", got.Title)
			assert.Equal(t, "kiwi is now level 12!", got.Description)
			require.Len(t, got.Fields, tt.wantFields)
			if tt.wantFields > 0 {
				assert.Equal(t, "Rewards", got.Fields[0].Name)
				assert.Equal(t, "New Role: **Regular**\nNew Role: **Veteran**", got.Fields[0].Value)
			}
		})
	}
}

func TestAchievementNotificationWorkerRetriesOnSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("missing access")}
	w := NewAchievementNotificationWorker(testLogger(), sender, testLocales(t))

	err := w.Work(context.Background(), &river.Job[AchievementNotificationJob]{
		JobRow: &rivertype.JobRow{ID: 3, Attempt: 2},
		Args:   AchievementNotificationJob{Notice: accountsservice.AchievementNotice{ChannelID: 901, Username: "kiwi", Icon: "🎟", ResourceName: "Intermediate"}},
	})
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestRenderAchievement(t *testing.T) {
	e := renderAchievement(testLocales(t).Get(localization.DefaultTag), accountsservice.AchievementNotice{
		Username: "kiwi", Icon: "🎟", ResourceName: "Intermediate",
	})
	assert.Equal(t, "🎟 Achievement Unlocked!", e.Title)
	assert.Equal(t, "kiwi has unlocked Intermediate", e.Description)
}
