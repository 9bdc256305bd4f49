package accountshandlers

import (
	"context"
	"strings"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
)

// HandleProfileRequested renders a profile.
func (h *AccountsHandlers) HandleProfileRequested(ctx context.Context, payload *accountsevents.ProfileRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleProfileRequested")
	defer span.End()

	result, err := h.service.GetProfile(ctx, payload.Invocation, payload.Target)
	return respond(h, ctx, payload.Invocation, result, err, renderProfile)
}

// HandleReputationRequested shows the reputation overview or gives reputation.
func (h *AccountsHandlers) HandleReputationRequested(ctx context.Context, payload *accountsevents.ArgsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleReputationRequested")
	defer span.End()

	result, err := h.service.Reputation(ctx, payload.Invocation, payload.Args)
	return respond(h, ctx, payload.Invocation, result, err, renderReputation)
}

// HandleLeaderboardRequested renders one leaderboard page with its chart.
func (h *AccountsHandlers) HandleLeaderboardRequested(ctx context.Context, payload *accountsevents.ArgsRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleLeaderboardRequested")
	defer span.End()

	result, err := h.service.GetLeaderboard(ctx, payload.Invocation, payload.Args)
	return respond(h, ctx, payload.Invocation, result, err, renderLeaderboard)
}

// HandleMekosRequested shows a balance.
func (h *AccountsHandlers) HandleMekosRequested(ctx context.Context, payload *accountsevents.TargetRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleMekosRequested")
	defer span.End()

	result, err := h.service.GetMekos(ctx, payload.Invocation, payload.Target)
	return respond(h, ctx, payload.Invocation, result, err, renderMekos)
}

// HandleGiveRequested transfers mekos.
func (h *AccountsHandlers) HandleGiveRequested(ctx context.Context, payload *accountsevents.GiveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleGiveRequested")
	defer span.End()

	result, err := h.service.GiveMekos(ctx, payload.Invocation, payload.Target, payload.Amount)
	return respond(h, ctx, payload.Invocation, result, err, renderGive)
}

// HandleDailyRequested claims the daily reward.
func (h *AccountsHandlers) HandleDailyRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleDailyRequested")
	defer span.End()

	result, err := h.service.ClaimDaily(ctx, payload.Invocation)
	return respond(h, ctx, payload.Invocation, result, err, renderDaily)
}

// HandleBackgroundBuyRequested previews or buys a background.
func (h *AccountsHandlers) HandleBackgroundBuyRequested(ctx context.Context, payload *accountsevents.BackgroundRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleBackgroundBuyRequested")
	defer span.End()

	confirm := strings.EqualFold(strings.TrimSpace(payload.Confirm), "yes")
	result, err := h.service.BuyBackground(ctx, payload.Invocation, payload.BackgroundID, confirm)
	return respond(h, ctx, payload.Invocation, result, err, renderBackgroundPurchase)
}

// HandleBackgroundSetRequested selects an owned background.
func (h *AccountsHandlers) HandleBackgroundSetRequested(ctx context.Context, payload *accountsevents.BackgroundRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleBackgroundSetRequested")
	defer span.End()

	result, err := h.service.SetBackground(ctx, payload.Invocation, payload.BackgroundID)
	return respond(h, ctx, payload.Invocation, result, err, renderBackgroundSet)
}

// HandleBackgroundsOwnedRequested lists owned backgrounds.
func (h *AccountsHandlers) HandleBackgroundsOwnedRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleBackgroundsOwnedRequested")
	defer span.End()

	result, err := h.service.GetBackgroundsOwned(ctx, payload.Invocation)
	return respond(h, ctx, payload.Invocation, result, err, renderBackgroundsOwned)
}

// HandleColorRequested buys a profile colour change.
func (h *AccountsHandlers) HandleColorRequested(ctx context.Context, payload *accountsevents.ColorRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleColorRequested")
	defer span.End()

	result, err := h.service.SetProfileColor(ctx, payload.Invocation, payload.Layer, payload.Input)
	return respond(h, ctx, payload.Invocation, result, err, renderColor)
}

// HandleAchievementsRequested lists achievements.
func (h *AccountsHandlers) HandleAchievementsRequested(ctx context.Context, payload *accountsevents.TargetRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleAchievementsRequested")
	defer span.End()

	result, err := h.service.GetAchievements(ctx, payload.Invocation, payload.Target)
	return respond(h, ctx, payload.Invocation, result, err, renderAchievements)
}

// HandleSyncNameRequested stores the author's current name.
func (h *AccountsHandlers) HandleSyncNameRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleSyncNameRequested")
	defer span.End()

	result, err := h.service.SyncName(ctx, payload.Invocation)
	return respond(h, ctx, payload.Invocation, result, err, renderSyncName)
}

// HandleExpCardRequested attaches the experience card image.
func (h *AccountsHandlers) HandleExpCardRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AccountsHandlers.HandleExpCardRequested")
	defer span.End()

	result, err := h.service.GetExpCard(ctx, payload.Invocation)
	return respond(h, ctx, payload.Invocation, result, err, func(_ *localization.Locale, v *accountsservice.ExpCardView) rendered {
		return renderExpCard(v)
	})
}
