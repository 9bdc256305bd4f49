package accountsservice

import (
	"context"
	"errors"
	"testing"
	"time"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestGetProfile(t *testing.T) {
	author := fakeUser(1)
	other := fakeUser(2)
	unlocked := fixedNow.Add(-48 * time.Hour)

	t.Run("author with local progress", func(t *testing.T) {
		svc, d := newTestService(t, author)
		d.repo.GetOrCreateUserFunc = func(ctx context.Context, db bun.IDB, userID int64, name string) (*accountsdb.User, error) {
			return &accountsdb.User{ID: userID, Name: name, TotalExperience: 1000, Currency: 12, Reputation: 3}, nil
		}
		d.repo.GetLocalExperienceFunc = func(ctx context.Context, db bun.IDB, guildID, userID int64) (*accountsdb.LocalExperience, error) {
			return &accountsdb.LocalExperience{GuildID: guildID, UserID: userID, Experience: 260}, nil
		}
		d.repo.GetLocalRankFunc = func(ctx context.Context, db bun.IDB, guildID, userID int64) (int, error) {
			return 4, nil
		}
		d.repo.GetGlobalRankFunc = func(ctx context.Context, db bun.IDB, userID int64) (int, bool, error) {
			return 310, true, nil
		}
		d.repo.GetAchievementsFunc = func(ctx context.Context, db bun.IDB, userID int64) ([]accountsdb.Achievement, error) {
			return []accountsdb.Achievement{
				{UserID: userID, Name: accountsdomain.LevelAchievementName, Rank: 1, UnlockedAt: unlocked},
				{UserID: userID, Name: "retired", Rank: 0},
			}, nil
		}

		result, err := svc.GetProfile(context.Background(), invocationFor(author), "")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())

		view := *result.Success
		assert.Equal(t, 5, view.Local.Progress.Level)
		assert.Equal(t, 4, view.Local.Rank)
		assert.True(t, view.Local.Ranked)
		assert.Equal(t, 10, view.Global.Progress.Level)
		assert.Equal(t, 310, view.Global.Rank)
		assert.EqualValues(t, 12, view.Currency)
		assert.True(t, view.ShowBar)
		require.Len(t, view.Achievements, 1)
		assert.Equal(t, "Intermediate", view.Achievements[0].ResourceName)
		assert.Equal(t, unlocked, view.Achievements[0].UnlockedAt)
	})

	t.Run("no local experience is unranked", func(t *testing.T) {
		svc, d := newTestService(t, author)

		result, err := svc.GetProfile(context.Background(), invocationFor(author), "")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		view := *result.Success
		assert.False(t, view.Local.Ranked)
		assert.False(t, view.Global.Ranked)
		assert.NotContains(t, d.repo.Trace(), "GetLocalRank")
	})

	t.Run("external emojis denied hides the bar", func(t *testing.T) {
		svc, d := newTestService(t, author)
		d.platform.Emojis = false

		result, err := svc.GetProfile(context.Background(), invocationFor(author), "")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.False(t, (*result.Success).ShowBar)
	})

	t.Run("colour is stable per user", func(t *testing.T) {
		svc, _ := newTestService(t, author)

		first, err := svc.GetProfile(context.Background(), invocationFor(author), "")
		require.NoError(t, err)
		second, err := svc.GetProfile(context.Background(), invocationFor(author), "")
		require.NoError(t, err)
		assert.Equal(t, (*first.Success).Color, (*second.Success).Color)
	})

	t.Run("other user without account", func(t *testing.T) {
		svc, d := newTestService(t, author, other)

		result, err := svc.GetProfile(context.Background(), invocationFor(author), mention(other))
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.ErrorIs(t, *result.Failure, ErrUserNotFound)
		assert.NotContains(t, d.repo.Trace(), "GetOrCreateUser")
	})

	t.Run("database failure is returned", func(t *testing.T) {
		svc, d := newTestService(t, author)
		d.repo.GetGlobalRankFunc = func(ctx context.Context, db bun.IDB, userID int64) (int, bool, error) {
			return 0, false, errors.New("connection refused")
		}

		_, err := svc.GetProfile(context.Background(), invocationFor(author), "")
		assert.Error(t, err)
	})
}

func TestGetAchievements(t *testing.T) {
	author := fakeUser(1)
	svc, d := newTestService(t, author)
	d.repo.GetAchievementsFunc = func(ctx context.Context, db bun.IDB, userID int64) ([]accountsdb.Achievement, error) {
		return []accountsdb.Achievement{
			{UserID: userID, Name: accountsdomain.LevelAchievementName, Rank: 2},
			{UserID: userID, Name: "donator", Rank: 0},
		}, nil
	}

	result, err := svc.GetAchievements(context.Background(), invocationFor(author), "")
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	view := *result.Success
	assert.Len(t, view.Items, 2)
	assert.Equal(t, "Experienced", view.Items[0].ResourceName)
	assert.Equal(t, "Donator", view.Items[1].ResourceName)
	assert.Equal(t, 15, view.TotalPoints)
}
