package accountsservice

import (
	"context"
	"testing"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestAddExperience(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		change      accountsdb.ExperienceChange
		wantOld     int
		wantNew     int
		wantLevelUp bool
		wantFailure error
	}{
		{name: "same level", amount: 5, change: accountsdb.ExperienceChange{OldLocal: 250, NewLocal: 255, NewTotal: 900}, wantOld: 5, wantNew: 5},
		{name: "crosses threshold", amount: 20, change: accountsdb.ExperienceChange{OldLocal: 240, NewLocal: 260, NewTotal: 260}, wantOld: 4, wantNew: 5, wantLevelUp: true},
		{name: "first gain", amount: 10, change: accountsdb.ExperienceChange{NewLocal: 10, NewTotal: 10}, wantOld: 0, wantNew: 1, wantLevelUp: true},
		{name: "non positive", amount: 0, wantFailure: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newTestService(t)
			d.repo.AddExperienceFunc = func(ctx context.Context, db bun.IDB, guildID, userID int64, username string, amount int64) (accountsdb.ExperienceChange, error) {
				assert.Equal(t, tt.amount, amount)
				return tt.change, nil
			}

			result, err := svc.AddExperience(context.Background(), accountsevents.ExperienceGainedPayloadV1{
				GuildID:   900,
				ChannelID: 901,
				UserID:    1,
				Username:  "kiwi",
				Amount:    tt.amount,
			})
			require.NoError(t, err)
			if tt.wantFailure != nil {
				require.True(t, result.IsFailure())
				assert.ErrorIs(t, *result.Failure, tt.wantFailure)
				assert.Empty(t, d.repo.Trace())
				return
			}

			require.True(t, result.IsSuccess())
			view := *result.Success
			assert.Equal(t, tt.wantOld, view.OldLevel)
			assert.Equal(t, tt.wantNew, view.NewLevel)
			assert.Equal(t, tt.wantLevelUp, view.LeveledUp)
			assert.Equal(t, tt.change.NewTotal, view.NewTotal)
		})
	}
}

func TestAddExperienceRedeliveryIsIgnored(t *testing.T) {
	svc, d := newTestService(t)
	var calls int
	d.repo.AddExperienceFunc = func(ctx context.Context, db bun.IDB, guildID, userID int64, username string, amount int64) (accountsdb.ExperienceChange, error) {
		calls++
		return accountsdb.ExperienceChange{OldLocal: 240, NewLocal: 260, NewTotal: 260}, nil
	}

	ctx := observability.WithMessageID(context.Background(), "msg-1")
	payload := accountsevents.ExperienceGainedPayloadV1{GuildID: 900, ChannelID: 901, UserID: 1, Username: "kiwi", Amount: 20}

	first, err := svc.AddExperience(ctx, payload)
	require.NoError(t, err)
	require.True(t, first.IsSuccess())
	assert.True(t, (*first.Success).LeveledUp)

	second, err := svc.AddExperience(ctx, payload)
	require.NoError(t, err)
	require.True(t, second.IsSuccess())
	assert.False(t, (*second.Success).LeveledUp)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"MarkProcessed", "AddExperience", "MarkProcessed"}, d.repo.Trace())

	_, err = svc.AddExperience(observability.WithMessageID(context.Background(), "msg-2"), payload)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
