package accountsqueue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/embed"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/bwmarrin/discordgo"
	"github.com/riverqueue/river"
)

// Sender posts an embed to a channel.
type Sender interface {
	SendEmbed(ctx context.Context, channelID int64, e *discordgo.MessageEmbed, files ...discord.Attachment) error
}

var noticeColor = embed.RGBf(1, 0.7, 0.2)

// LevelUpNotificationWorker posts level-up embeds.
type LevelUpNotificationWorker struct {
	river.WorkerDefaults[LevelUpNotificationJob]
	logger  *slog.Logger
	sender  Sender
	locales *localization.Catalog
}

func NewLevelUpNotificationWorker(logger *slog.Logger, sender Sender, locales *localization.Catalog) *LevelUpNotificationWorker {
	return &LevelUpNotificationWorker{logger: logger, sender: sender, locales: locales}
}

func (w *LevelUpNotificationWorker) Work(ctx context.Context, job *river.Job[LevelUpNotificationJob]) error {
	n := job.Args.Notice
	e := renderLevelUp(w.locales.Get(localization.DefaultTag), n)
	if err := w.sender.SendEmbed(ctx, n.ChannelID, e); err != nil {
		w.logger.WarnContext(ctx, "Failed to post level-up notification",
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Int64("channel_id", n.ChannelID),
			observability.ErrorAttr(err),
		)
		return fmt.Errorf("failed to send level-up embed: %w", err)
	}
	return nil
}

// AchievementNotificationWorker posts achievement unlocked embeds.
type AchievementNotificationWorker struct {
	river.WorkerDefaults[AchievementNotificationJob]
	logger  *slog.Logger
	sender  Sender
	locales *localization.Catalog
}

func NewAchievementNotificationWorker(logger *slog.Logger, sender Sender, locales *localization.Catalog) *AchievementNotificationWorker {
	return &AchievementNotificationWorker{logger: logger, sender: sender, locales: locales}
}

func (w *AchievementNotificationWorker) Work(ctx context.Context, job *river.Job[AchievementNotificationJob]) error {
	n := job.Args.Notice
	e := renderAchievement(w.locales.Get(localization.DefaultTag), n)
	if err := w.sender.SendEmbed(ctx, n.ChannelID, e); err != nil {
		w.logger.WarnContext(ctx, "Failed to post achievement notification",
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Int64("channel_id", n.ChannelID),
			observability.ErrorAttr(err),
		)
		return fmt.Errorf("failed to send achievement embed: %w", err)
	}
	return nil
}

func renderLevelUp(l *localization.Locale, n accountsservice.LevelUpNotice) *discordgo.MessageEmbed {
	e := embed.New().
		SetTitle(l.GetString("miki_accounts_level_up_header")).
		SetDescription(l.GetString("miki_accounts_level_up_content", n.Username, n.Level)).
		SetColor(noticeColor)

	if len(n.RoleNames) > 0 {
		lines := make([]string, 0, len(n.RoleNames))
		for _, name := range n.RoleNames {
			lines = append(lines, l.GetString("level_up_new_role", name))
		}
		e.AddField(l.GetString("level_up_rewards"), strings.Join(lines, "\n"))
	}
	return e.Build()
}

func renderAchievement(l *localization.Locale, n accountsservice.AchievementNotice) *discordgo.MessageEmbed {
	return embed.New().
		SetTitle(l.GetString("achievement_unlocked_header", n.Icon)).
		SetDescription(l.GetString("achievement_unlocked_content", n.Username, n.ResourceName)).
		SetColor(noticeColor).
		Build()
}
