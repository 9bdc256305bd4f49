package accountsservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
	"github.com/uptrace/bun"
)

// AddExperience adds a gain to the global and guild-local totals.
func (s *AccountsService) AddExperience(ctx context.Context, payload accountsevents.ExperienceGainedPayloadV1) (results.OperationResult[*ExperienceGainView, error], error) {
	addTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ExperienceGainView, error], error) {
		return s.addExperienceLogic(ctx, db, payload)
	}

	return withTelemetry(s, ctx, "AddExperience", strconv.FormatInt(payload.UserID, 10), func(ctx context.Context) (results.OperationResult[*ExperienceGainView, error], error) {
		return runInTx(s, ctx, addTx)
	})
}

func (s *AccountsService) addExperienceLogic(ctx context.Context, db bun.IDB, payload accountsevents.ExperienceGainedPayloadV1) (results.OperationResult[*ExperienceGainView, error], error) {
	if payload.Amount <= 0 {
		return results.FailureResult[*ExperienceGainView, error](ErrInvalidAmount), nil
	}

	if id := observability.MessageID(ctx); id != "" {
		fresh, err := s.repo.MarkProcessed(ctx, db, id, "AddExperience")
		if err != nil {
			return results.OperationResult[*ExperienceGainView, error]{}, fmt.Errorf("failed to mark message processed: %w", err)
		}
		if !fresh {
			s.logger.InfoContext(ctx, "Experience gain already applied",
				observability.CorrelationAttr(ctx),
				slog.String("message_id", id),
			)
			return results.SuccessResult[*ExperienceGainView, error](&ExperienceGainView{
				GuildID:   payload.GuildID,
				ChannelID: payload.ChannelID,
				UserID:    payload.UserID,
				Username:  payload.Username,
			}), nil
		}
	}

	change, err := s.repo.AddExperience(ctx, db, payload.GuildID, payload.UserID, payload.Username, payload.Amount)
	if err != nil {
		return results.OperationResult[*ExperienceGainView, error]{}, fmt.Errorf("failed to add experience: %w", err)
	}

	oldLevel := accountsdomain.CalculateLevel(change.OldLocal)
	newLevel := accountsdomain.CalculateLevel(change.NewLocal)

	return results.SuccessResult[*ExperienceGainView, error](&ExperienceGainView{
		GuildID:   payload.GuildID,
		ChannelID: payload.ChannelID,
		UserID:    payload.UserID,
		Username:  payload.Username,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
		NewLocal:  change.NewLocal,
		NewTotal:  change.NewTotal,
	}), nil
}
