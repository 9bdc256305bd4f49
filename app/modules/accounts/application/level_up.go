package accountsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
)

// LevelUpObserver reacts to a guild-local level increase.
type LevelUpObserver struct {
	Name   string
	Handle func(ctx context.Context, ev accountsevents.LevelUpPayloadV1, out *LevelUpOutcome) error
}

// LevelUpObservers run in registration order. Each observer is isolated: an
// error or panic is logged and the next observer still runs.
type LevelUpObservers []LevelUpObserver

// Dispatch runs every observer and returns the errors they produced.
func (o LevelUpObservers) Dispatch(ctx context.Context, logger *slog.Logger, ev accountsevents.LevelUpPayloadV1, out *LevelUpOutcome) []error {
	var errs []error
	for _, observer := range o {
		if err := runObserver(ctx, observer, ev, out); err != nil {
			level := slog.LevelWarn
			if errors.Is(err, ErrInvalidConfiguration) {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "Level-up observer failed",
				observability.CorrelationAttr(ctx),
				slog.String("observer", observer.Name),
				slog.Int64("user_id", ev.UserID),
				slog.Int("level", ev.Level),
				observability.ErrorAttr(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", observer.Name, err))
		}
	}
	return errs
}

func runObserver(ctx context.Context, observer LevelUpObserver, ev accountsevents.LevelUpPayloadV1, out *LevelUpOutcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return observer.Handle(ctx, ev, out)
}

// DispatchLevelUp runs the level-up observers for one event. Observer
// failures are recorded on the outcome and never fail the operation.
func (s *AccountsService) DispatchLevelUp(ctx context.Context, payload accountsevents.LevelUpPayloadV1) (results.OperationResult[*LevelUpOutcome, error], error) {
	return withTelemetry(s, ctx, "DispatchLevelUp", strconv.FormatInt(payload.UserID, 10), func(ctx context.Context) (results.OperationResult[*LevelUpOutcome, error], error) {
		out := &LevelUpOutcome{}
		for _, err := range s.observers.Dispatch(ctx, s.logger, payload, out) {
			out.Errors = append(out.Errors, err.Error())
		}
		return results.SuccessResult[*LevelUpOutcome, error](out), nil
	})
}

// levelRewards grants the automatic roles of the new level, then posts the
// level-up message unless the channel setting suppresses it. Grants happen
// regardless of the setting.
func (s *AccountsService) levelRewards(ctx context.Context, ev accountsevents.LevelUpPayloadV1, out *LevelUpOutcome) error {
	rules, err := s.repo.GetLevelRoles(ctx, nil, ev.GuildID, ev.Level)
	if err != nil {
		return fmt.Errorf("failed to load level roles: %w", err)
	}
	out.MatchedRules = len(rules)

	if len(rules) > 0 {
		out.GrantedRoles = s.grantLevelRoles(ctx, ev, rules)
	}

	value, found, err := s.repo.GetChannelSetting(ctx, nil, ev.ChannelID, accountsdb.SettingLevelUps)
	if err != nil {
		return fmt.Errorf("failed to load notification setting: %w", err)
	}
	setting := accountsdomain.NotifyAll
	if found {
		setting, err = accountsdomain.ParseNotificationSetting(value)
		if err != nil {
			return fmt.Errorf("%w: channel %d: %w", ErrInvalidConfiguration, ev.ChannelID, err)
		}
	}

	notify, err := setting.ShouldNotify(len(rules))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if !notify {
		return nil
	}

	notice := LevelUpNotice{
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		UserID:    ev.UserID,
		Username:  ev.Username,
		Level:     ev.Level,
	}
	for _, r := range out.GrantedRoles {
		notice.RoleNames = append(notice.RoleNames, r.Name)
	}
	if err := s.notifier.NotifyLevelUp(ctx, notice); err != nil {
		return fmt.Errorf("failed to enqueue level-up notification: %w", err)
	}
	out.Notified = true
	return nil
}

// grantLevelRoles adds every rule's role that still exists in the guild.
// Missing roles are skipped silently; failed grants are logged and skipped.
func (s *AccountsService) grantLevelRoles(ctx context.Context, ev accountsevents.LevelUpPayloadV1, rules []accountsdb.LevelRole) []discord.Role {
	guildRoles, err := s.platform.GuildRoles(ctx, ev.GuildID)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not load guild roles",
			observability.CorrelationAttr(ctx),
			slog.Int64("guild_id", ev.GuildID),
			observability.ErrorAttr(err),
		)
		return nil
	}
	byID := make(map[int64]discord.Role, len(guildRoles))
	for _, r := range guildRoles {
		byID[r.ID] = r
	}

	held := map[int64]bool{}
	if member, err := s.platform.GuildMember(ctx, ev.GuildID, ev.UserID); err == nil {
		for _, id := range member.RoleIDs {
			held[id] = true
		}
	}

	var granted []discord.Role
	for _, rule := range rules {
		role, ok := byID[rule.RoleID]
		if !ok {
			continue
		}
		if !held[role.ID] {
			if err := s.platform.AddRole(ctx, ev.GuildID, ev.UserID, role.ID); err != nil {
				s.logger.WarnContext(ctx, "Failed to grant level role",
					observability.CorrelationAttr(ctx),
					slog.Int64("role_id", role.ID),
					slog.Int64("user_id", ev.UserID),
					observability.ErrorAttr(err),
				)
				continue
			}
		}
		granted = append(granted, role)
	}
	return granted
}

// levelAchievements unlocks the level bracket achievement. Reaching a rank
// that is already stored is a no-op.
func (s *AccountsService) levelAchievements(ctx context.Context, ev accountsevents.LevelUpPayloadV1, out *LevelUpOutcome) error {
	rank, ok := accountsdomain.LevelAchievementRank(ev.Level)
	if !ok {
		return nil
	}
	out.AchievementRank = rank

	unlocked, err := s.repo.UnlockAchievement(ctx, nil, ev.UserID, accountsdomain.LevelAchievementName, rank)
	if err != nil {
		return fmt.Errorf("failed to unlock achievement: %w", err)
	}
	if !unlocked {
		return nil
	}
	out.AchievementUnlocked = true

	entry, err := s.content.AchievementEntry(accountsdomain.LevelAchievementName, rank)
	if err != nil {
		return err
	}
	if err := s.notifier.NotifyAchievement(ctx, AchievementNotice{
		ChannelID:    ev.ChannelID,
		UserID:       ev.UserID,
		Username:     ev.Username,
		Icon:         entry.Icon,
		ResourceName: entry.ResourceName,
	}); err != nil {
		return fmt.Errorf("failed to enqueue achievement notification: %w", err)
	}
	return nil
}
