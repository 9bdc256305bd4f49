package accountshandlers

import (
	"context"
	"log/slog"
	"strings"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
)

// HandleExperienceGained applies an experience gain. The LevelUpV1 event is
// only produced once the gain has been committed.
func (h *AccountsHandlers) HandleExperienceGained(ctx context.Context, payload *accountsevents.ExperienceGainedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleExperienceGained")
	defer span.End()

	result, err := h.service.AddExperience(ctx, *payload)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		h.logger.WarnContext(ctx, "Experience gain rejected",
			observability.CorrelationAttr(ctx),
			slog.Int64("user_id", payload.UserID),
			slog.Int64("amount", payload.Amount),
			observability.ErrorAttr(*result.Failure),
		)
		return nil, nil
	}

	gain := *result.Success
	if !gain.LeveledUp {
		return nil, nil
	}

	h.logger.InfoContext(ctx, "User leveled up",
		observability.CorrelationAttr(ctx),
		slog.Int64("guild_id", gain.GuildID),
		slog.Int64("user_id", gain.UserID),
		slog.Int("old_level", gain.OldLevel),
		slog.Int("new_level", gain.NewLevel),
	)

	return []handlerwrapper.Result{{
		Topic: accountsevents.LevelUpV1,
		Payload: &accountsevents.LevelUpPayloadV1{
			GuildID:       gain.GuildID,
			ChannelID:     gain.ChannelID,
			UserID:        gain.UserID,
			Username:      gain.Username,
			Discriminator: payload.Discriminator,
			Level:         gain.NewLevel,
		},
	}}, nil
}

// HandleLevelUp runs the level-up observers. Observer failures are already
// logged by the service and never cause a redelivery.
func (h *AccountsHandlers) HandleLevelUp(ctx context.Context, payload *accountsevents.LevelUpPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleLevelUp")
	defer span.End()

	result, err := h.service.DispatchLevelUp(ctx, *payload)
	if err != nil {
		return nil, err
	}
	if result.IsSuccess() {
		out := *result.Success
		h.logger.InfoContext(ctx, "Level-up dispatched",
			observability.CorrelationAttr(ctx),
			slog.Int64("user_id", payload.UserID),
			slog.Int("level", payload.Level),
			slog.Int("granted_roles", len(out.GrantedRoles)),
			slog.Bool("notified", out.Notified),
			slog.Bool("achievement_unlocked", out.AchievementUnlocked),
			slog.String("errors", strings.Join(out.Errors, "; ")),
		)
	}
	return nil, nil
}
