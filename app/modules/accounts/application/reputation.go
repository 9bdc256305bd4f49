package accountsservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"github.com/Black-And-White-Club/accounts-bot/internal/kvcache"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
	"github.com/uptrace/bun"
)

// maxBudgetAttempts bounds compare-and-swap retries on the reputation budget.
const maxBudgetAttempts = 8

// grantArg is one "user [amount|all]" argument before the user is resolved.
type grantArg struct {
	query  string
	amount int
	all    bool
}

// parseGrantArgs reads a sequence of users, each optionally followed by an
// integer amount or "all". A missing amount is 1.
func parseGrantArgs(args []string) []grantArg {
	var out []grantArg
	for i := 0; i < len(args); i++ {
		g := grantArg{query: args[i], amount: 1}
		if i+1 < len(args) {
			next := args[i+1]
			if strings.EqualFold(next, "all") {
				g.all = true
				i++
			} else if n, err := strconv.Atoi(next); err == nil {
				g.amount = n
				i++
			}
		}
		out = append(out, g)
	}
	return out
}

// Reputation shows the author's budget when args is empty, otherwise gives
// reputation to the mentioned users.
func (s *AccountsService) Reputation(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*ReputationView, error], error) {
	return withTelemetry(s, ctx, "Reputation", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*ReputationView, error], error) {
		if len(args) == 0 {
			return s.reputationInfoLogic(ctx, inv)
		}
		return s.giveReputationLogic(ctx, inv, args)
	})
}

func (s *AccountsService) reputationInfoLogic(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*ReputationView, error], error) {
	account, err := s.repo.GetOrCreateUser(ctx, nil, inv.AuthorID, inv.AuthorName)
	if err != nil {
		return results.OperationResult[*ReputationView, error]{}, fmt.Errorf("failed to load account: %w", err)
	}

	now := s.now()
	budget, _, err := s.readBudget(ctx, inv.AuthorID, now)
	if err != nil {
		return results.OperationResult[*ReputationView, error]{}, err
	}

	return results.SuccessResult[*ReputationView, error](&ReputationView{
		Info: &ReputationInfo{
			TotalReceived: account.Reputation,
			ResetIn:       budget.TTL(now),
			PointsLeft:    budget.PointsLeft,
		},
		PointsLeft: budget.PointsLeft,
	}), nil
}

func (s *AccountsService) giveReputationLogic(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*ReputationView, error], error) {
	parsed := parseGrantArgs(args)
	queries := make([]string, len(parsed))
	for i, p := range parsed {
		queries[i] = p.query
	}

	users, err := s.resolveUsers(ctx, inv.GuildID, queries)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return results.FailureResult[*ReputationView, error](err), nil
		}
		return results.OperationResult[*ReputationView, error]{}, err
	}

	byID := make(map[int64]discord.User, len(users))
	grants := make([]accountsdomain.ReputationGrant, len(parsed))
	for i, p := range parsed {
		byID[users[i].ID] = users[i]
		grants[i] = accountsdomain.ReputationGrant{RecipientID: users[i].ID, Amount: p.amount, All: p.all}
	}

	res, err := s.reserveReputation(ctx, inv.AuthorID, grants)
	if err != nil {
		return results.OperationResult[*ReputationView, error]{}, err
	}
	if res.failure != nil {
		return results.FailureResult[*ReputationView, error](res.failure), nil
	}
	dist, budget := res.dist, res.budget

	view := &ReputationView{PointsLeft: budget.PointsLeft, MentionedSelf: dist.MentionedSelf}
	if dist.Empty() {
		return results.SuccessResult[*ReputationView, error](view), nil
	}

	commitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ReputationView, error], error) {
		if id := observability.MessageID(ctx); id != "" {
			fresh, err := s.repo.MarkProcessed(ctx, db, id, "Reputation")
			if err != nil {
				return results.OperationResult[*ReputationView, error]{}, fmt.Errorf("failed to mark message processed: %w", err)
			}
			if !fresh {
				return results.OperationResult[*ReputationView, error]{}, errAlreadyApplied
			}
		}
		for _, r := range dist.Recipients {
			recipient := byID[r.RecipientID]
			if _, err := s.repo.GetOrCreateUser(ctx, db, recipient.ID, recipient.Username); err != nil {
				return results.OperationResult[*ReputationView, error]{}, fmt.Errorf("failed to load recipient: %w", err)
			}
			total, err := s.repo.AddReputation(ctx, db, recipient.ID, int64(r.Amount))
			if err != nil {
				return results.OperationResult[*ReputationView, error]{}, fmt.Errorf("failed to add reputation: %w", err)
			}
			view.Given = append(view.Given, ReputationChange{
				User:   recipient,
				Old:    total - int64(r.Amount),
				New:    total,
				Amount: r.Amount,
			})
		}
		return results.SuccessResult[*ReputationView, error](view), nil
	}

	result, err := runInTx(s, ctx, commitTx)
	if err != nil {
		s.refundReputation(ctx, inv.AuthorID, budget, dist.Total())
		if errors.Is(err, errAlreadyApplied) {
			s.logger.InfoContext(ctx, "Reputation grant already applied",
				observability.CorrelationAttr(ctx),
				slog.String("message_id", observability.MessageID(ctx)),
			)
			return results.SuccessResult[*ReputationView, error](&ReputationView{
				PointsLeft:    budget.PointsLeft + dist.Total(),
				MentionedSelf: dist.MentionedSelf,
			}), nil
		}
		return results.OperationResult[*ReputationView, error]{}, err
	}
	return result, nil
}

// readBudget returns the live budget of a user, a fresh one when absent or
// expired, together with the cache entry it was read from.
func (s *AccountsService) readBudget(ctx context.Context, userID int64, now time.Time) (accountsdomain.ReputationBudget, kvcache.Entry, error) {
	entry, err := s.cache.GetEntry(ctx, accountsdomain.ReputationKey(userID))
	if err != nil {
		return accountsdomain.ReputationBudget{}, kvcache.Entry{}, fmt.Errorf("failed to read reputation budget: %w", err)
	}
	if !entry.Present {
		return accountsdomain.NewReputationBudget(now), entry, nil
	}

	var budget accountsdomain.ReputationBudget
	if err := entry.Decode(&budget); err != nil {
		return accountsdomain.ReputationBudget{}, kvcache.Entry{}, fmt.Errorf("failed to decode reputation budget: %w", err)
	}
	if !budget.Live(now) {
		return accountsdomain.NewReputationBudget(now), entry, nil
	}
	return budget, entry, nil
}

// writeBudget stores budget with compare-and-swap against entry.
func (s *AccountsService) writeBudget(ctx context.Context, userID int64, entry kvcache.Entry, budget accountsdomain.ReputationBudget, now time.Time) error {
	key := accountsdomain.ReputationKey(userID)
	ttl := budget.TTL(now)
	if entry.Revision == 0 {
		_, err := s.cache.Create(ctx, key, budget, ttl)
		return err
	}
	_, err := s.cache.Update(ctx, key, budget, ttl, entry.Revision)
	return err
}

// reservation is the outcome of reserveReputation. failure is a domain
// rejection; the budget is then unchanged.
type reservation struct {
	dist    accountsdomain.ReputationDistribution
	budget  accountsdomain.ReputationBudget
	failure error
}

// reserveReputation validates grants against the giver's budget and deducts
// the total with compare-and-swap. A lost race retries from a fresh read.
func (s *AccountsService) reserveReputation(ctx context.Context, giverID int64, grants []accountsdomain.ReputationGrant) (reservation, error) {
	for attempt := 0; attempt < maxBudgetAttempts; attempt++ {
		now := s.now()
		budget, entry, err := s.readBudget(ctx, giverID, now)
		if err != nil {
			return reservation{}, err
		}

		dist := accountsdomain.BuildDistribution(giverID, grants, budget.PointsLeft)
		if dist.Empty() {
			return reservation{dist: dist, budget: budget}, nil
		}
		if err := dist.Validate(budget.PointsLeft); err != nil {
			if errors.Is(err, accountsdomain.ErrReputationLimit) {
				err = &ReputationLimitError{
					Recipients: len(dist.Recipients),
					Requested:  dist.Total(),
					PointsLeft: budget.PointsLeft,
				}
			}
			return reservation{dist: dist, budget: budget, failure: err}, nil
		}

		next, err := budget.Spend(dist.Total())
		if err != nil {
			return reservation{dist: dist, budget: budget, failure: err}, nil
		}

		err = s.writeBudget(ctx, giverID, entry, next, now)
		if errors.Is(err, kvcache.ErrConflict) {
			continue
		}
		if err != nil {
			return reservation{}, fmt.Errorf("failed to reserve reputation: %w", err)
		}
		return reservation{dist: dist, budget: next}, nil
	}
	return reservation{}, fmt.Errorf("failed to reserve reputation after %d attempts: %w", maxBudgetAttempts, kvcache.ErrConflict)
}

// refundReputation returns total points to the window they were taken from.
// A window that has already rolled over is left alone.
func (s *AccountsService) refundReputation(ctx context.Context, giverID int64, reserved accountsdomain.ReputationBudget, total int) {
	for attempt := 0; attempt < maxBudgetAttempts; attempt++ {
		now := s.now()
		entry, err := s.cache.GetEntry(ctx, accountsdomain.ReputationKey(giverID))
		if err != nil {
			break
		}
		if !entry.Present {
			return
		}
		var budget accountsdomain.ReputationBudget
		if err := entry.Decode(&budget); err != nil || !budget.WindowStart.Equal(reserved.WindowStart) {
			return
		}

		err = s.writeBudget(ctx, giverID, entry, budget.Refund(total), now)
		if errors.Is(err, kvcache.ErrConflict) {
			continue
		}
		if err == nil {
			return
		}
		break
	}
	s.logger.ErrorContext(ctx, "Failed to refund reputation budget",
		observability.CorrelationAttr(ctx),
		slog.Int64("user_id", giverID),
		slog.Int("points", total),
	)
}
