package accountshandlers

import (
	"strings"
	"testing"
	"time"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func english(t *testing.T) *localization.Locale {
	t.Helper()
	c, err := localization.LoadCatalog()
	require.NoError(t, err)
	return c.Get("en")
}

func TestRenderProfile(t *testing.T) {
	l := english(t)
	view := &accountsservice.ProfileView{
		User:       discord.User{ID: 1, Username: "kiwi"},
		Title:      "the fruit",
		Donator:    true,
		Local:      accountsservice.ExperienceView{Progress: accountsdomain.Progress(260), Rank: 4, Ranked: true},
		Global:     accountsservice.ExperienceView{Progress: accountsdomain.Progress(1000)},
		Reputation: 12,
		Currency:   4200,
		Achievements: []accountsservice.AchievementView{
			{Icon: "🎟"}, {Icon: "💖"},
		},
		ShowBar: true,
	}

	e := renderProfile(l, view).embed
	require.NotNil(t, e)
	require.NotNil(t, e.Author)
	assert.Equal(t, "kiwi's profile", e.Author.Name)
	assert.Equal(t, donatorIconURL, e.Author.IconURL)
	assert.Equal(t, "the fruit", e.Description)

	require.Len(t, e.Fields, 4)
	assert.Contains(t, e.Fields[0].Value, "Level: 5 (260/360)")
	assert.Contains(t, e.Fields[0].Value, "Rank: 4")
	assert.Contains(t, e.Fields[0].Value, "Reputation: 12")
	assert.Contains(t, e.Fields[0].Value, accountsdomain.DefaultProgressBar.On.Left)
	assert.Contains(t, e.Fields[1].Value, "We haven't calculated your rank yet!")
	assert.Equal(t, "4,200 "+mekosEmoji, e.Fields[2].Value)
	assert.Equal(t, "🎟 💖", e.Fields[3].Value)
}

func TestRenderProfileWithoutBar(t *testing.T) {
	l := english(t)
	view := &accountsservice.ProfileView{
		User:   discord.User{ID: 1, Username: "kiwi"},
		Local:  accountsservice.ExperienceView{Progress: accountsdomain.Progress(260)},
		Global: accountsservice.ExperienceView{Progress: accountsdomain.Progress(260)},
	}

	e := renderProfile(l, view).embed
	for _, f := range e.Fields {
		assert.NotContains(t, f.Value, "mbar")
	}
	assert.Equal(t, "None, yet!", e.Fields[3].Value)
}

func TestRenderLeaderboard(t *testing.T) {
	l := english(t)
	view := &accountsservice.LeaderboardView{
		Query: accountsdomain.LeaderboardQuery{Type: accountsdomain.LeaderboardCurrency, PageIndex: 2},
		Page: mikiapi.LeaderboardPage{
			TotalPages:  25,
			CurrentPage: 1,
			Items:       []mikiapi.LeaderboardItem{{Name: "kiwi", Value: 9000}, {Name: "mango", Value: 8000}},
		},
		URL:   "https://miki.ai/leaderboards?type=currency",
		Chart: []byte("png"),
	}

	out := renderLeaderboard(l, view)
	require.NotNil(t, out.embed)
	assert.Equal(t, "Leaderboards: Currency (click me!)", out.embed.Author.Name)
	assert.Equal(t, view.URL, out.embed.Author.URL)
	// 25 API pages display as 3.
	assert.Equal(t, "Page 2 of 3", out.embed.Footer.Text)

	lines := strings.Split(out.embed.Description, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "`#13` kiwi: **9,000**", lines[0])
	assert.Equal(t, "`#14` mango: **8,000**", lines[1])

	require.NotNil(t, out.attachment)
	assert.Equal(t, "attachment://leaderboard.png", out.embed.Image.URL)
}

func TestRenderAchievements(t *testing.T) {
	l := english(t)
	view := &accountsservice.AchievementsView{
		User: discord.User{Username: "kiwi"},
		Items: []accountsservice.AchievementView{
			{Icon: "🎫", ResourceName: "Intermediate", Points: 10, UnlockedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
		TotalPoints: 10,
	}

	e := renderAchievements(l, view).embed
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "Total Pts: 10", e.Fields[0].Name)
	assert.Equal(t, "🎫 | `Intermediate    10 pts` | 📅 2026-01-02", e.Fields[0].Value)
}

func TestRenderColorHelp(t *testing.T) {
	l := english(t)

	e := renderColor(l, &accountsservice.ColorView{Layer: "foreground", Help: true}).embed
	assert.Equal(t, "🖌 Setting a foreground color!", e.Title)
	assert.Contains(t, e.Description, "setfrontcolor")

	e = renderColor(l, &accountsservice.ColorView{Layer: "background", Hex: "FF8C00"}).embed
	assert.Equal(t, "Your background color has been successfully changed to `FF8C00`", e.Description)
}
