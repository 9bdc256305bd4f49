package accountshandlers

import (
	"context"
	"net/http"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
)

// Handlers defines the interface for accounts event handlers.
type Handlers interface {
	// --- COMMANDS ---

	HandleProfileRequested(ctx context.Context, payload *accountsevents.ProfileRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleReputationRequested(ctx context.Context, payload *accountsevents.ArgsRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleLeaderboardRequested(ctx context.Context, payload *accountsevents.ArgsRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleMekosRequested(ctx context.Context, payload *accountsevents.TargetRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleGiveRequested(ctx context.Context, payload *accountsevents.GiveRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDailyRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error)
	HandleBackgroundBuyRequested(ctx context.Context, payload *accountsevents.BackgroundRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleBackgroundSetRequested(ctx context.Context, payload *accountsevents.BackgroundRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleBackgroundsOwnedRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error)
	HandleColorRequested(ctx context.Context, payload *accountsevents.ColorRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleAchievementsRequested(ctx context.Context, payload *accountsevents.TargetRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSyncNameRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error)
	HandleExpCardRequested(ctx context.Context, payload *accountsevents.InvocationPayloadV1) ([]handlerwrapper.Result, error)

	// --- DOMAIN EVENTS ---

	// HandleExperienceGained applies a gain and publishes LevelUpV1 when the local level rose.
	HandleExperienceGained(ctx context.Context, payload *accountsevents.ExperienceGainedPayloadV1) ([]handlerwrapper.Result, error)

	// HandleLevelUp runs the level-up observers.
	HandleLevelUp(ctx context.Context, payload *accountsevents.LevelUpPayloadV1) ([]handlerwrapper.Result, error)

	// --- HTTP ---

	HandleHTTPAccountSummary(w http.ResponseWriter, r *http.Request)
}
