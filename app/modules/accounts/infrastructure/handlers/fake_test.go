package accountshandlers

import (
	"context"
	"sync"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
)

// ------------------------
// Fake Accounts Service
// ------------------------

type FakeAccountsService struct {
	mu    sync.Mutex
	trace []string

	GetProfileFunc          func(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*accountsservice.ProfileView, error], error)
	ReputationFunc          func(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*accountsservice.ReputationView, error], error)
	GetLeaderboardFunc      func(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*accountsservice.LeaderboardView, error], error)
	GetMekosFunc            func(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*accountsservice.MekosView, error], error)
	GiveMekosFunc           func(ctx context.Context, inv accountsevents.Invocation, target, amount string) (results.OperationResult[*accountsservice.GiveView, error], error)
	ClaimDailyFunc          func(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.DailyView, error], error)
	BuyBackgroundFunc       func(ctx context.Context, inv accountsevents.Invocation, backgroundID string, confirm bool) (results.OperationResult[*accountsservice.BackgroundPurchaseView, error], error)
	SetBackgroundFunc       func(ctx context.Context, inv accountsevents.Invocation, backgroundID string) (results.OperationResult[*accountsservice.BackgroundPurchaseView, error], error)
	GetBackgroundsOwnedFunc func(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.BackgroundsOwnedView, error], error)
	SetProfileColorFunc     func(ctx context.Context, inv accountsevents.Invocation, layer accountsevents.ColorLayer, input string) (results.OperationResult[*accountsservice.ColorView, error], error)
	GetAchievementsFunc     func(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*accountsservice.AchievementsView, error], error)
	SyncNameFunc            func(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.SyncNameView, error], error)
	GetExpCardFunc          func(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.ExpCardView, error], error)
	AddExperienceFunc       func(ctx context.Context, payload accountsevents.ExperienceGainedPayloadV1) (results.OperationResult[*accountsservice.ExperienceGainView, error], error)
	DispatchLevelUpFunc     func(ctx context.Context, payload accountsevents.LevelUpPayloadV1) (results.OperationResult[*accountsservice.LevelUpOutcome, error], error)
	GetAccountSummaryFunc   func(ctx context.Context, userID int64) (results.OperationResult[*accountsservice.AccountSummary, error], error)
}

func NewFakeAccountsService() *FakeAccountsService {
	return &FakeAccountsService{
		trace: []string{},
	}
}

func (f *FakeAccountsService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeAccountsService) GetProfile(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*accountsservice.ProfileView, error], error) {
	f.record("GetProfile")
	if f.GetProfileFunc != nil {
		return f.GetProfileFunc(ctx, inv, target)
	}
	return results.OperationResult[*accountsservice.ProfileView, error]{}, nil
}

func (f *FakeAccountsService) Reputation(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*accountsservice.ReputationView, error], error) {
	f.record("Reputation")
	if f.ReputationFunc != nil {
		return f.ReputationFunc(ctx, inv, args)
	}
	return results.OperationResult[*accountsservice.ReputationView, error]{}, nil
}

func (f *FakeAccountsService) GetLeaderboard(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*accountsservice.LeaderboardView, error], error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, inv, args)
	}
	return results.OperationResult[*accountsservice.LeaderboardView, error]{}, nil
}

func (f *FakeAccountsService) GetMekos(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*accountsservice.MekosView, error], error) {
	f.record("GetMekos")
	if f.GetMekosFunc != nil {
		return f.GetMekosFunc(ctx, inv, target)
	}
	return results.OperationResult[*accountsservice.MekosView, error]{}, nil
}

func (f *FakeAccountsService) GiveMekos(ctx context.Context, inv accountsevents.Invocation, target, amount string) (results.OperationResult[*accountsservice.GiveView, error], error) {
	f.record("GiveMekos")
	if f.GiveMekosFunc != nil {
		return f.GiveMekosFunc(ctx, inv, target, amount)
	}
	return results.OperationResult[*accountsservice.GiveView, error]{}, nil
}

func (f *FakeAccountsService) ClaimDaily(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.DailyView, error], error) {
	f.record("ClaimDaily")
	if f.ClaimDailyFunc != nil {
		return f.ClaimDailyFunc(ctx, inv)
	}
	return results.OperationResult[*accountsservice.DailyView, error]{}, nil
}

func (f *FakeAccountsService) BuyBackground(ctx context.Context, inv accountsevents.Invocation, backgroundID string, confirm bool) (results.OperationResult[*accountsservice.BackgroundPurchaseView, error], error) {
	f.record("BuyBackground")
	if f.BuyBackgroundFunc != nil {
		return f.BuyBackgroundFunc(ctx, inv, backgroundID, confirm)
	}
	return results.OperationResult[*accountsservice.BackgroundPurchaseView, error]{}, nil
}

func (f *FakeAccountsService) SetBackground(ctx context.Context, inv accountsevents.Invocation, backgroundID string) (results.OperationResult[*accountsservice.BackgroundPurchaseView, error], error) {
	f.record("SetBackground")
	if f.SetBackgroundFunc != nil {
		return f.SetBackgroundFunc(ctx, inv, backgroundID)
	}
	return results.OperationResult[*accountsservice.BackgroundPurchaseView, error]{}, nil
}

func (f *FakeAccountsService) GetBackgroundsOwned(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.BackgroundsOwnedView, error], error) {
	f.record("GetBackgroundsOwned")
	if f.GetBackgroundsOwnedFunc != nil {
		return f.GetBackgroundsOwnedFunc(ctx, inv)
	}
	return results.OperationResult[*accountsservice.BackgroundsOwnedView, error]{}, nil
}

func (f *FakeAccountsService) SetProfileColor(ctx context.Context, inv accountsevents.Invocation, layer accountsevents.ColorLayer, input string) (results.OperationResult[*accountsservice.ColorView, error], error) {
	f.record("SetProfileColor")
	if f.SetProfileColorFunc != nil {
		return f.SetProfileColorFunc(ctx, inv, layer, input)
	}
	return results.OperationResult[*accountsservice.ColorView, error]{}, nil
}

func (f *FakeAccountsService) GetAchievements(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*accountsservice.AchievementsView, error], error) {
	f.record("GetAchievements")
	if f.GetAchievementsFunc != nil {
		return f.GetAchievementsFunc(ctx, inv, target)
	}
	return results.OperationResult[*accountsservice.AchievementsView, error]{}, nil
}

func (f *FakeAccountsService) SyncName(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.SyncNameView, error], error) {
	f.record("SyncName")
	if f.SyncNameFunc != nil {
		return f.SyncNameFunc(ctx, inv)
	}
	return results.OperationResult[*accountsservice.SyncNameView, error]{}, nil
}

func (f *FakeAccountsService) GetExpCard(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*accountsservice.ExpCardView, error], error) {
	f.record("GetExpCard")
	if f.GetExpCardFunc != nil {
		return f.GetExpCardFunc(ctx, inv)
	}
	return results.OperationResult[*accountsservice.ExpCardView, error]{}, nil
}

func (f *FakeAccountsService) AddExperience(ctx context.Context, payload accountsevents.ExperienceGainedPayloadV1) (results.OperationResult[*accountsservice.ExperienceGainView, error], error) {
	f.record("AddExperience")
	if f.AddExperienceFunc != nil {
		return f.AddExperienceFunc(ctx, payload)
	}
	return results.OperationResult[*accountsservice.ExperienceGainView, error]{}, nil
}

func (f *FakeAccountsService) DispatchLevelUp(ctx context.Context, payload accountsevents.LevelUpPayloadV1) (results.OperationResult[*accountsservice.LevelUpOutcome, error], error) {
	f.record("DispatchLevelUp")
	if f.DispatchLevelUpFunc != nil {
		return f.DispatchLevelUpFunc(ctx, payload)
	}
	return results.OperationResult[*accountsservice.LevelUpOutcome, error]{}, nil
}

func (f *FakeAccountsService) GetAccountSummary(ctx context.Context, userID int64) (results.OperationResult[*accountsservice.AccountSummary, error], error) {
	f.record("GetAccountSummary")
	if f.GetAccountSummaryFunc != nil {
		return f.GetAccountSummaryFunc(ctx, userID)
	}
	return results.OperationResult[*accountsservice.AccountSummary, error]{}, nil
}

// --- Accessors for assertions ---

func (f *FakeAccountsService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ accountsservice.Service = (*FakeAccountsService)(nil)
