package accountsservice

import (
	"context"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
)

// Service defines the contract for accounts operations.
type Service interface {
	// --- COMMANDS ---

	GetProfile(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*ProfileView, error], error)
	Reputation(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*ReputationView, error], error)
	GetLeaderboard(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*LeaderboardView, error], error)
	GetMekos(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*MekosView, error], error)
	GiveMekos(ctx context.Context, inv accountsevents.Invocation, target, amount string) (results.OperationResult[*GiveView, error], error)
	ClaimDaily(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*DailyView, error], error)
	BuyBackground(ctx context.Context, inv accountsevents.Invocation, backgroundID string, confirm bool) (results.OperationResult[*BackgroundPurchaseView, error], error)
	SetBackground(ctx context.Context, inv accountsevents.Invocation, backgroundID string) (results.OperationResult[*BackgroundPurchaseView, error], error)
	GetBackgroundsOwned(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*BackgroundsOwnedView, error], error)
	SetProfileColor(ctx context.Context, inv accountsevents.Invocation, layer accountsevents.ColorLayer, input string) (results.OperationResult[*ColorView, error], error)
	GetAchievements(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*AchievementsView, error], error)
	SyncName(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*SyncNameView, error], error)
	GetExpCard(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*ExpCardView, error], error)

	// --- DOMAIN EVENTS ---

	// AddExperience applies an experience gain and reports whether the local level rose.
	AddExperience(ctx context.Context, payload accountsevents.ExperienceGainedPayloadV1) (results.OperationResult[*ExperienceGainView, error], error)

	// DispatchLevelUp runs the level-up observers in order.
	DispatchLevelUp(ctx context.Context, payload accountsevents.LevelUpPayloadV1) (results.OperationResult[*LevelUpOutcome, error], error)

	// --- READS ---

	GetAccountSummary(ctx context.Context, userID int64) (results.OperationResult[*AccountSummary, error], error)
}
