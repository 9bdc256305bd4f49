package accountsservice

import (
	"context"
	"sync"
	"time"

	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Accounts Repo
// ------------------------

type FakeAccountsRepo struct {
	mu    sync.Mutex
	trace []string

	GetUserFunc             func(ctx context.Context, db bun.IDB, userID int64) (*accountsdb.User, error)
	GetOrCreateUserFunc     func(ctx context.Context, db bun.IDB, userID int64, name string) (*accountsdb.User, error)
	UpdateNameFunc          func(ctx context.Context, db bun.IDB, userID int64, name string) error
	AddCurrencyFunc         func(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error)
	RemoveCurrencyFunc      func(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error)
	AddReputationFunc       func(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error)
	ClaimDailyFunc          func(ctx context.Context, db bun.IDB, userID, amount int64, now time.Time, cooldown time.Duration) (int64, error)
	AddExperienceFunc       func(ctx context.Context, db bun.IDB, guildID, userID int64, username string, amount int64) (accountsdb.ExperienceChange, error)
	GetLocalExperienceFunc  func(ctx context.Context, db bun.IDB, guildID, userID int64) (*accountsdb.LocalExperience, error)
	GetLocalRankFunc        func(ctx context.Context, db bun.IDB, guildID, userID int64) (int, error)
	GetGlobalRankFunc       func(ctx context.Context, db bun.IDB, userID int64) (int, bool, error)
	GetLevelRolesFunc       func(ctx context.Context, db bun.IDB, guildID int64, level int) ([]accountsdb.LevelRole, error)
	GetChannelSettingFunc   func(ctx context.Context, db bun.IDB, channelID int64, settingID string) (int, bool, error)
	UnlockAchievementFunc   func(ctx context.Context, db bun.IDB, userID int64, name string, rank int) (bool, error)
	GetAchievementsFunc     func(ctx context.Context, db bun.IDB, userID int64) ([]accountsdb.Achievement, error)
	HasBackgroundFunc       func(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error)
	AddBackgroundFunc       func(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error)
	GetBackgroundsOwnedFunc func(ctx context.Context, db bun.IDB, userID int64) ([]accountsdb.BackgroundOwned, error)
	GetProfileVisualsFunc   func(ctx context.Context, db bun.IDB, userID int64) (*accountsdb.ProfileVisuals, error)
	SetBackgroundFunc       func(ctx context.Context, db bun.IDB, userID int64, backgroundID int) error
	SetColorFunc            func(ctx context.Context, db bun.IDB, userID int64, layer accountsdb.ColorLayer, hex string) error
	MarkProcessedFunc       func(ctx context.Context, db bun.IDB, messageID, operation string) (bool, error)

	processed map[string]bool
}

func NewFakeAccountsRepo() *FakeAccountsRepo {
	return &FakeAccountsRepo{
		trace:     []string{},
		processed: map[string]bool{},
	}
}

func (f *FakeAccountsRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeAccountsRepo) GetUser(ctx context.Context, db bun.IDB, userID int64) (*accountsdb.User, error) {
	f.record("GetUser")
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, db, userID)
	}
	return nil, accountsdb.ErrNotFound
}

func (f *FakeAccountsRepo) GetOrCreateUser(ctx context.Context, db bun.IDB, userID int64, name string) (*accountsdb.User, error) {
	f.record("GetOrCreateUser")
	if f.GetOrCreateUserFunc != nil {
		return f.GetOrCreateUserFunc(ctx, db, userID, name)
	}
	return &accountsdb.User{ID: userID, Name: name}, nil
}

func (f *FakeAccountsRepo) UpdateName(ctx context.Context, db bun.IDB, userID int64, name string) error {
	f.record("UpdateName")
	if f.UpdateNameFunc != nil {
		return f.UpdateNameFunc(ctx, db, userID, name)
	}
	return nil
}

func (f *FakeAccountsRepo) AddCurrency(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error) {
	f.record("AddCurrency")
	if f.AddCurrencyFunc != nil {
		return f.AddCurrencyFunc(ctx, db, userID, amount)
	}
	return amount, nil
}

func (f *FakeAccountsRepo) RemoveCurrency(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error) {
	f.record("RemoveCurrency")
	if f.RemoveCurrencyFunc != nil {
		return f.RemoveCurrencyFunc(ctx, db, userID, amount)
	}
	return 0, nil
}

func (f *FakeAccountsRepo) AddReputation(ctx context.Context, db bun.IDB, userID, amount int64) (int64, error) {
	f.record("AddReputation")
	if f.AddReputationFunc != nil {
		return f.AddReputationFunc(ctx, db, userID, amount)
	}
	return amount, nil
}

func (f *FakeAccountsRepo) ClaimDaily(ctx context.Context, db bun.IDB, userID, amount int64, now time.Time, cooldown time.Duration) (int64, error) {
	f.record("ClaimDaily")
	if f.ClaimDailyFunc != nil {
		return f.ClaimDailyFunc(ctx, db, userID, amount, now, cooldown)
	}
	return amount, nil
}

func (f *FakeAccountsRepo) AddExperience(ctx context.Context, db bun.IDB, guildID, userID int64, username string, amount int64) (accountsdb.ExperienceChange, error) {
	f.record("AddExperience")
	if f.AddExperienceFunc != nil {
		return f.AddExperienceFunc(ctx, db, guildID, userID, username, amount)
	}
	return accountsdb.ExperienceChange{NewLocal: amount, NewTotal: amount}, nil
}

func (f *FakeAccountsRepo) GetLocalExperience(ctx context.Context, db bun.IDB, guildID, userID int64) (*accountsdb.LocalExperience, error) {
	f.record("GetLocalExperience")
	if f.GetLocalExperienceFunc != nil {
		return f.GetLocalExperienceFunc(ctx, db, guildID, userID)
	}
	return nil, accountsdb.ErrNotFound
}

func (f *FakeAccountsRepo) GetLocalRank(ctx context.Context, db bun.IDB, guildID, userID int64) (int, error) {
	f.record("GetLocalRank")
	if f.GetLocalRankFunc != nil {
		return f.GetLocalRankFunc(ctx, db, guildID, userID)
	}
	return 1, nil
}

func (f *FakeAccountsRepo) GetGlobalRank(ctx context.Context, db bun.IDB, userID int64) (int, bool, error) {
	f.record("GetGlobalRank")
	if f.GetGlobalRankFunc != nil {
		return f.GetGlobalRankFunc(ctx, db, userID)
	}
	return 0, false, nil
}

func (f *FakeAccountsRepo) GetLevelRoles(ctx context.Context, db bun.IDB, guildID int64, level int) ([]accountsdb.LevelRole, error) {
	f.record("GetLevelRoles")
	if f.GetLevelRolesFunc != nil {
		return f.GetLevelRolesFunc(ctx, db, guildID, level)
	}
	return nil, nil
}

func (f *FakeAccountsRepo) GetChannelSetting(ctx context.Context, db bun.IDB, channelID int64, settingID string) (int, bool, error) {
	f.record("GetChannelSetting")
	if f.GetChannelSettingFunc != nil {
		return f.GetChannelSettingFunc(ctx, db, channelID, settingID)
	}
	return 0, false, nil
}

func (f *FakeAccountsRepo) UnlockAchievement(ctx context.Context, db bun.IDB, userID int64, name string, rank int) (bool, error) {
	f.record("UnlockAchievement")
	if f.UnlockAchievementFunc != nil {
		return f.UnlockAchievementFunc(ctx, db, userID, name, rank)
	}
	return false, nil
}

func (f *FakeAccountsRepo) GetAchievements(ctx context.Context, db bun.IDB, userID int64) ([]accountsdb.Achievement, error) {
	f.record("GetAchievements")
	if f.GetAchievementsFunc != nil {
		return f.GetAchievementsFunc(ctx, db, userID)
	}
	return nil, nil
}

func (f *FakeAccountsRepo) HasBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error) {
	f.record("HasBackground")
	if f.HasBackgroundFunc != nil {
		return f.HasBackgroundFunc(ctx, db, userID, backgroundID)
	}
	return false, nil
}

func (f *FakeAccountsRepo) AddBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) (bool, error) {
	f.record("AddBackground")
	if f.AddBackgroundFunc != nil {
		return f.AddBackgroundFunc(ctx, db, userID, backgroundID)
	}
	return true, nil
}

func (f *FakeAccountsRepo) GetBackgroundsOwned(ctx context.Context, db bun.IDB, userID int64) ([]accountsdb.BackgroundOwned, error) {
	f.record("GetBackgroundsOwned")
	if f.GetBackgroundsOwnedFunc != nil {
		return f.GetBackgroundsOwnedFunc(ctx, db, userID)
	}
	return nil, nil
}

func (f *FakeAccountsRepo) GetProfileVisuals(ctx context.Context, db bun.IDB, userID int64) (*accountsdb.ProfileVisuals, error) {
	f.record("GetProfileVisuals")
	if f.GetProfileVisualsFunc != nil {
		return f.GetProfileVisualsFunc(ctx, db, userID)
	}
	return accountsdb.DefaultProfileVisuals(userID), nil
}

func (f *FakeAccountsRepo) SetBackground(ctx context.Context, db bun.IDB, userID int64, backgroundID int) error {
	f.record("SetBackground")
	if f.SetBackgroundFunc != nil {
		return f.SetBackgroundFunc(ctx, db, userID, backgroundID)
	}
	return nil
}

func (f *FakeAccountsRepo) SetColor(ctx context.Context, db bun.IDB, userID int64, layer accountsdb.ColorLayer, hex string) error {
	f.record("SetColor")
	if f.SetColorFunc != nil {
		return f.SetColorFunc(ctx, db, userID, layer, hex)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeAccountsRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAccountsRepo) MarkProcessed(ctx context.Context, db bun.IDB, messageID, operation string) (bool, error) {
	f.record("MarkProcessed")
	if f.MarkProcessedFunc != nil {
		return f.MarkProcessedFunc(ctx, db, messageID, operation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := operation + "/" + messageID
	if f.processed[key] {
		return false, nil
	}
	f.processed[key] = true
	return true, nil
}

// Ensure the fake actually satisfies the interface
var _ accountsdb.Repository = (*FakeAccountsRepo)(nil)

// ------------------------
// Fake Platform
// ------------------------

type FakePlatform struct {
	mu sync.Mutex

	Users      map[string]discord.User
	Roles      []discord.Role
	MemberRole []int64
	Emojis     bool
	AddRoleErr map[int64]error

	Added []int64
	Sent  []*discordgo.MessageEmbed
}

func NewFakePlatform(users ...discord.User) *FakePlatform {
	p := &FakePlatform{Users: map[string]discord.User{}, Emojis: true}
	for _, u := range users {
		p.AddUser(u)
	}
	return p
}

// AddUser registers u under its id, its mention and its name.
func (p *FakePlatform) AddUser(u discord.User) {
	id := itoa(u.ID)
	p.Users[id] = u
	p.Users["<@"+id+">"] = u
	p.Users["<@!"+id+">"] = u
	p.Users[u.Username] = u
}

func (p *FakePlatform) ResolveUser(_ context.Context, _ int64, query string) (*discord.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.Users[query]
	if !ok {
		return nil, discord.ErrUserNotFound
	}
	return &u, nil
}

func (p *FakePlatform) GuildMember(_ context.Context, _, userID int64) (*discord.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &discord.Member{User: discord.User{ID: userID}, RoleIDs: p.MemberRole}, nil
}

func (p *FakePlatform) GuildRoles(context.Context, int64) ([]discord.Role, error) {
	return p.Roles, nil
}

func (p *FakePlatform) AddRole(_ context.Context, _, _, roleID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.AddRoleErr[roleID]; err != nil {
		return err
	}
	p.Added = append(p.Added, roleID)
	return nil
}

func (p *FakePlatform) CanUseExternalEmojis(context.Context, int64) (bool, error) {
	return p.Emojis, nil
}

func (p *FakePlatform) SendEmbed(_ context.Context, _ int64, e *discordgo.MessageEmbed, _ ...discord.Attachment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Sent = append(p.Sent, e)
	return nil
}

var _ discord.Platform = (*FakePlatform)(nil)

// ------------------------
// Fake Ranking API
// ------------------------

type FakeRanking struct {
	Page    *mikiapi.LeaderboardPage
	Err     error
	Card    []byte
	LastOpt mikiapi.LeaderboardOptions
}

func (r *FakeRanking) GetPagedLeaderboards(_ context.Context, opts mikiapi.LeaderboardOptions) (*mikiapi.LeaderboardPage, error) {
	r.LastOpt = opts
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Page, nil
}

func (r *FakeRanking) BuildLeaderboardsURL(opts mikiapi.LeaderboardOptions) string {
	return "https://miki.ai/leaderboards?type=" + opts.Type
}

func (r *FakeRanking) GetUserCard(context.Context, int64) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Card, nil
}

var _ RankingAPI = (*FakeRanking)(nil)

// ------------------------
// Fake Notifier
// ------------------------

type FakeNotifier struct {
	mu           sync.Mutex
	LevelUps     []LevelUpNotice
	Achievements []AchievementNotice
}

func (n *FakeNotifier) NotifyLevelUp(_ context.Context, notice LevelUpNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.LevelUps = append(n.LevelUps, notice)
	return nil
}

func (n *FakeNotifier) NotifyAchievement(_ context.Context, notice AchievementNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Achievements = append(n.Achievements, notice)
	return nil
}

var _ Notifier = (*FakeNotifier)(nil)
