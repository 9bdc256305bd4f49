package accountsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
	"github.com/uptrace/bun"
)

// GetMekos shows the balance of the target, or of the author when target is empty.
func (s *AccountsService) GetMekos(ctx context.Context, inv accountsevents.Invocation, target string) (results.OperationResult[*MekosView, error], error) {
	mekosTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*MekosView, error], error) {
		user, err := s.resolveTarget(ctx, inv, target)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return results.FailureResult[*MekosView, error](err), nil
			}
			return results.OperationResult[*MekosView, error]{}, err
		}

		account, err := s.loadAccount(ctx, db, inv, user)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return results.FailureResult[*MekosView, error](err), nil
			}
			return results.OperationResult[*MekosView, error]{}, err
		}
		return results.SuccessResult[*MekosView, error](&MekosView{User: *user, Balance: account.Currency}), nil
	}

	return withTelemetry(s, ctx, "GetMekos", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*MekosView, error], error) {
		return runInTx(s, ctx, mekosTx)
	})
}

// GiveMekos moves amount mekos from the author to target.
func (s *AccountsService) GiveMekos(ctx context.Context, inv accountsevents.Invocation, target, amount string) (results.OperationResult[*GiveView, error], error) {
	giveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*GiveView, error], error) {
		return s.giveMekosLogic(ctx, db, inv, target, amount)
	}

	return withTelemetry(s, ctx, "GiveMekos", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*GiveView, error], error) {
		return runInTx(s, ctx, giveTx)
	})
}

func (s *AccountsService) giveMekosLogic(ctx context.Context, db bun.IDB, inv accountsevents.Invocation, target, amountArg string) (results.OperationResult[*GiveView, error], error) {
	if strings.TrimSpace(target) == "" {
		return results.FailureResult[*GiveView, error](ErrMissingTarget), nil
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(amountArg), 10, 64)
	if err != nil {
		return results.FailureResult[*GiveView, error](ErrAmountUnparsable), nil
	}
	if amount <= 0 {
		return results.FailureResult[*GiveView, error](ErrInvalidAmount), nil
	}

	receiver, err := s.resolveTarget(ctx, inv, target)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return results.FailureResult[*GiveView, error](err), nil
		}
		return results.OperationResult[*GiveView, error]{}, err
	}

	sender, err := s.repo.GetOrCreateUser(ctx, db, inv.AuthorID, inv.AuthorName)
	if err != nil {
		return results.OperationResult[*GiveView, error]{}, fmt.Errorf("failed to load sender: %w", err)
	}
	receiverAccount, err := s.repo.GetOrCreateUser(ctx, db, receiver.ID, receiver.Username)
	if err != nil {
		return results.OperationResult[*GiveView, error]{}, fmt.Errorf("failed to load receiver: %w", err)
	}
	if receiverAccount.Banned {
		return results.FailureResult[*GiveView, error](ErrUserNotFound), nil
	}

	if _, err := s.repo.RemoveCurrency(ctx, db, sender.ID, amount); err != nil {
		if errors.Is(err, accountsdb.ErrInsufficientFunds) {
			return results.FailureResult[*GiveView, error](&InsufficientFundsError{Balance: sender.Currency}), nil
		}
		return results.OperationResult[*GiveView, error]{}, fmt.Errorf("failed to debit sender: %w", err)
	}
	if _, err := s.repo.AddCurrency(ctx, db, receiver.ID, amount); err != nil {
		return results.OperationResult[*GiveView, error]{}, fmt.Errorf("failed to credit receiver: %w", err)
	}

	return results.SuccessResult[*GiveView, error](&GiveView{
		Sender:   invocationUser(inv),
		Receiver: *receiver,
		Amount:   amount,
	}), nil
}

// ClaimDaily pays the daily reward when the cooldown has passed and extends
// the claim streak.
func (s *AccountsService) ClaimDaily(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*DailyView, error], error) {
	return withTelemetry(s, ctx, "ClaimDaily", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*DailyView, error], error) {
		streakKey := accountsdomain.DailyStreakKey(inv.AuthorID)

		var stored int
		found, err := s.cache.Get(ctx, streakKey, &stored)
		if err != nil {
			return results.OperationResult[*DailyView, error]{}, fmt.Errorf("failed to read daily streak: %w", err)
		}
		streak := 0
		if found {
			streak = stored + 1
		}

		claimTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*DailyView, error], error) {
			return s.claimDailyLogic(ctx, db, inv, streak)
		}
		result, err := runInTx(s, ctx, claimTx)
		if err != nil || result.IsFailure() {
			return result, err
		}

		if err := s.cache.Upsert(ctx, streakKey, streak, accountsdomain.DailyStreakTTL); err != nil {
			s.logger.WarnContext(ctx, "Failed to store daily streak",
				observability.CorrelationAttr(ctx),
				slog.Int64("user_id", inv.AuthorID),
				observability.ErrorAttr(err),
			)
		}
		return result, nil
	})
}

func (s *AccountsService) claimDailyLogic(ctx context.Context, db bun.IDB, inv accountsevents.Invocation, streak int) (results.OperationResult[*DailyView, error], error) {
	account, err := s.repo.GetUser(ctx, db, inv.AuthorID)
	if err != nil {
		if errors.Is(err, accountsdb.ErrNotFound) {
			return results.FailureResult[*DailyView, error](ErrNoAccount), nil
		}
		return results.OperationResult[*DailyView, error]{}, fmt.Errorf("failed to load account: %w", err)
	}

	now := s.now()
	claimed := func() results.OperationResult[*DailyView, error] {
		remaining := accountsdomain.DailyAvailableAt(account.LastDailyTime).Sub(now)
		return results.FailureResult[*DailyView, error](&DailyClaimedError{Remaining: max(remaining, 0)})
	}
	if !account.LastDailyTime.IsZero() && now.Before(accountsdomain.DailyAvailableAt(account.LastDailyTime)) {
		return claimed(), nil
	}

	amount := accountsdomain.DailyReward(streak, account.IsDonator(now))
	balance, err := s.repo.ClaimDaily(ctx, db, account.ID, amount, now, accountsdomain.DailyCooldown)
	if err != nil {
		if errors.Is(err, accountsdb.ErrNoRowsAffected) {
			return claimed(), nil
		}
		return results.OperationResult[*DailyView, error]{}, fmt.Errorf("failed to claim daily: %w", err)
	}

	return results.SuccessResult[*DailyView, error](&DailyView{
		Amount:  amount,
		Balance: balance,
		Streak:  streak,
	}), nil
}
