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
	"github.com/Black-And-White-Club/accounts-bot/internal/embed"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
	"github.com/uptrace/bun"
)

// GetProfile builds the profile of the target, or of the author when target is empty.
func (s *AccountsService) GetProfile(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*ProfileView, error], error) {
	profileTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ProfileView, error], error) {
		return s.getProfileLogic(ctx, db, inv, target)
	}

	return withTelemetry(s, ctx, "GetProfile", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*ProfileView, error], error) {
		return runInTx(s, ctx, profileTx)
	})
}

func (s *AccountsService) getProfileLogic(ctx context.Context, db bun.IDB, inv accountsevents.Invocation, target string) (results.OperationResult[*ProfileView, error], error) {
	user, err := s.resolveTarget(ctx, inv, target)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return results.FailureResult[*ProfileView, error](err), nil
		}
		return results.OperationResult[*ProfileView, error]{}, err
	}

	account, err := s.loadAccount(ctx, db, inv, user)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return results.FailureResult[*ProfileView, error](err), nil
		}
		return results.OperationResult[*ProfileView, error]{}, err
	}

	view := &ProfileView{
		User:       *user,
		Title:      account.Title,
		Donator:    account.IsDonator(s.now()),
		Reputation: account.Reputation,
		Currency:   account.Currency,
		Global:     ExperienceView{Progress: accountsdomain.Progress(account.TotalExperience)},
		Local:      ExperienceView{Progress: accountsdomain.Progress(0)},
	}

	local, err := s.repo.GetLocalExperience(ctx, db, inv.GuildID, user.ID)
	switch {
	case err == nil:
		view.Local.Progress = accountsdomain.Progress(local.Experience)
		rank, err := s.repo.GetLocalRank(ctx, db, inv.GuildID, user.ID)
		if err != nil {
			return results.OperationResult[*ProfileView, error]{}, fmt.Errorf("failed to get local rank: %w", err)
		}
		view.Local.Rank, view.Local.Ranked = rank, true
	case !errors.Is(err, accountsdb.ErrNotFound):
		return results.OperationResult[*ProfileView, error]{}, fmt.Errorf("failed to get local experience: %w", err)
	}

	rank, ranked, err := s.repo.GetGlobalRank(ctx, db, user.ID)
	if err != nil {
		return results.OperationResult[*ProfileView, error]{}, fmt.Errorf("failed to get global rank: %w", err)
	}
	view.Global.Rank, view.Global.Ranked = rank, ranked

	rows, err := s.repo.GetAchievements(ctx, db, user.ID)
	if err != nil {
		return results.OperationResult[*ProfileView, error]{}, fmt.Errorf("failed to get achievements: %w", err)
	}
	view.Achievements = s.achievementViews(ctx, rows)

	view.ShowBar, err = s.platform.CanUseExternalEmojis(ctx, inv.ChannelID)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not read channel permissions, hiding progress bar",
			observability.CorrelationAttr(ctx),
			slog.Int64("channel_id", inv.ChannelID),
			observability.ErrorAttr(err),
		)
		view.ShowBar = false
	}

	view.Color = embed.RGBf(accountsdomain.ProfileColor(user.ID))

	return results.SuccessResult[*ProfileView, error](view), nil
}

// loadAccount returns the author's account, creating it lazily. Other users
// must already have one.
func (s *AccountsService) loadAccount(ctx context.Context, db bun.IDB, inv accountsevents.Invocation, user *discord.User) (*accountsdb.User, error) {
	if user.ID == inv.AuthorID {
		account, err := s.repo.GetOrCreateUser(ctx, db, user.ID, user.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		return account, nil
	}

	account, err := s.repo.GetUser(ctx, db, user.ID)
	if err != nil {
		if errors.Is(err, accountsdb.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// achievementViews joins stored ranks with the catalogue. Rows the catalogue
// does not know are skipped.
func (s *AccountsService) achievementViews(ctx context.Context, rows []accountsdb.Achievement) []AchievementView {
	views := make([]AchievementView, 0, len(rows))
	for _, row := range rows {
		entry, err := s.content.AchievementEntry(row.Name, row.Rank)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping unknown achievement",
				slog.String("name", row.Name),
				slog.Int("rank", row.Rank),
			)
			continue
		}
		views = append(views, AchievementView{
			Name:         row.Name,
			Icon:         entry.Icon,
			ResourceName: entry.ResourceName,
			Points:       entry.Points,
			UnlockedAt:   row.UnlockedAt,
		})
	}
	return views
}

// GetAchievements lists the unlocked achievements of the target.
func (s *AccountsService) GetAchievements(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*AchievementsView, error], error) {
	return withTelemetry(s, ctx, "GetAchievements", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*AchievementsView, error], error) {
		user, err := s.resolveTarget(ctx, inv, target)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return results.FailureResult[*AchievementsView, error](err), nil
			}
			return results.OperationResult[*AchievementsView, error]{}, err
		}

		rows, err := s.repo.GetAchievements(ctx, nil, user.ID)
		if err != nil {
			return results.OperationResult[*AchievementsView, error]{}, fmt.Errorf("failed to get achievements: %w", err)
		}

		view := &AchievementsView{User: *user, Items: s.achievementViews(ctx, rows)}
		for _, item := range view.Items {
			view.TotalPoints += item.Points
		}
		return results.SuccessResult[*AchievementsView, error](view), nil
	})
}

// SyncName stores the author's current name.
func (s *AccountsService) SyncName(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*SyncNameView, error], error) {
	return withTelemetry(s, ctx, "SyncName", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*SyncNameView, error], error) {
		err := s.repo.UpdateName(ctx, nil, inv.AuthorID, inv.AuthorName)
		if err != nil {
			if errors.Is(err, accountsdb.ErrNotFound) {
				return results.FailureResult[*SyncNameView, error](ErrUserNotFound), nil
			}
			return results.OperationResult[*SyncNameView, error]{}, fmt.Errorf("failed to sync name: %w", err)
		}
		return results.SuccessResult[*SyncNameView, error](&SyncNameView{Name: inv.AuthorName}), nil
	})
}

// GetExpCard fetches the author's experience card image.
func (s *AccountsService) GetExpCard(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*ExpCardView, error], error) {
	return withTelemetry(s, ctx, "GetExpCard", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*ExpCardView, error], error) {
		image, err := s.ranking.GetUserCard(ctx, inv.AuthorID)
		if err != nil {
			s.logger.WarnContext(ctx, "Image service unavailable",
				observability.CorrelationAttr(ctx),
				observability.ErrorAttr(err),
			)
			return results.FailureResult[*ExpCardView, error](ErrExternalServiceUnavailable), nil
		}
		return results.SuccessResult[*ExpCardView, error](&ExpCardView{Image: image}), nil
	})
}

// GetAccountSummary returns the stored account of userID.
func (s *AccountsService) GetAccountSummary(ctx context.Context, userID int64) (results.OperationResult[*AccountSummary, error], error) {
	return withTelemetry(s, ctx, "GetAccountSummary", strconv.FormatInt(userID, 10), func(ctx context.Context) (results.OperationResult[*AccountSummary, error], error) {
		account, err := s.repo.GetUser(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, accountsdb.ErrNotFound) {
				return results.FailureResult[*AccountSummary, error](ErrUserNotFound), nil
			}
			return results.OperationResult[*AccountSummary, error]{}, fmt.Errorf("failed to get user: %w", err)
		}

		summary := &AccountSummary{
			ID:              account.ID,
			Name:            account.Name,
			Title:           account.Title,
			Currency:        account.Currency,
			Reputation:      account.Reputation,
			TotalExperience: account.TotalExperience,
			Level:           accountsdomain.CalculateLevel(account.TotalExperience),
		}
		rank, ranked, err := s.repo.GetGlobalRank(ctx, nil, userID)
		if err != nil {
			return results.OperationResult[*AccountSummary, error]{}, fmt.Errorf("failed to get global rank: %w", err)
		}
		if ranked {
			summary.GlobalRank = &rank
		}
		return results.SuccessResult[*AccountSummary, error](summary), nil
	})
}
