package accountsservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	accountscontent "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/content"
	accountsdb "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/infrastructure/repositories"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
	"github.com/uptrace/bun"
)

// defaultBackgroundID is selectable without buying it.
const defaultBackgroundID = 0

func (s *AccountsService) lookupBackground(arg string) (accountscontent.Background, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return accountscontent.Background{}, ErrBackgroundNotFound
	}
	bg, err := s.content.Background(id)
	if err != nil {
		return accountscontent.Background{}, ErrBackgroundNotFound
	}
	return bg, nil
}

// BuyBackground previews a background, or buys it when confirm is set.
func (s *AccountsService) BuyBackground(ctx context.Context, inv accountsevents.Invocation, backgroundID string, confirm bool) (results.OperationResult[*BackgroundPurchaseView, error], error) {
	buyTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*BackgroundPurchaseView, error], error) {
		return s.buyBackgroundLogic(ctx, db, inv, backgroundID, confirm)
	}

	return withTelemetry(s, ctx, "BuyBackground", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*BackgroundPurchaseView, error], error) {
		return runInTx(s, ctx, buyTx)
	})
}

func (s *AccountsService) buyBackgroundLogic(ctx context.Context, db bun.IDB, inv accountsevents.Invocation, backgroundID string, confirm bool) (results.OperationResult[*BackgroundPurchaseView, error], error) {
	if strings.TrimSpace(backgroundID) == "" {
		return results.SuccessResult[*BackgroundPurchaseView, error](&BackgroundPurchaseView{MissingID: true}), nil
	}
	bg, err := s.lookupBackground(backgroundID)
	if err != nil {
		return results.FailureResult[*BackgroundPurchaseView, error](err), nil
	}

	view := &BackgroundPurchaseView{Background: bg}
	if !confirm {
		return results.SuccessResult[*BackgroundPurchaseView, error](view), nil
	}
	if bg.Price <= 0 {
		return results.FailureResult[*BackgroundPurchaseView, error](ErrBackgroundNotForSale), nil
	}

	account, err := s.repo.GetOrCreateUser(ctx, db, inv.AuthorID, inv.AuthorName)
	if err != nil {
		return results.OperationResult[*BackgroundPurchaseView, error]{}, fmt.Errorf("failed to load account: %w", err)
	}

	owned, err := s.repo.HasBackground(ctx, db, account.ID, bg.ID)
	if err != nil {
		return results.OperationResult[*BackgroundPurchaseView, error]{}, err
	}
	if owned {
		return results.FailureResult[*BackgroundPurchaseView, error](ErrBackgroundAlreadyOwned), nil
	}

	if _, err := s.repo.RemoveCurrency(ctx, db, account.ID, bg.Price); err != nil {
		if errors.Is(err, accountsdb.ErrInsufficientFunds) {
			return results.FailureResult[*BackgroundPurchaseView, error](&InsufficientFundsError{Balance: account.Currency}), nil
		}
		return results.OperationResult[*BackgroundPurchaseView, error]{}, fmt.Errorf("failed to debit background price: %w", err)
	}

	added, err := s.repo.AddBackground(ctx, db, account.ID, bg.ID)
	if err != nil {
		return results.OperationResult[*BackgroundPurchaseView, error]{}, err
	}
	if !added {
		// A concurrent purchase won; roll back the debit.
		return results.OperationResult[*BackgroundPurchaseView, error]{}, fmt.Errorf("background %d: %w", bg.ID, ErrBackgroundAlreadyOwned)
	}

	view.Purchased = true
	return results.SuccessResult[*BackgroundPurchaseView, error](view), nil
}

// SetBackground selects an owned background for the author's profile.
func (s *AccountsService) SetBackground(ctx context.Context, inv accountsevents.Invocation, backgroundID string) (results.OperationResult[*BackgroundPurchaseView, error], error) {
	setTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*BackgroundPurchaseView, error], error) {
		bg, err := s.lookupBackground(backgroundID)
		if err != nil {
			return results.FailureResult[*BackgroundPurchaseView, error](err), nil
		}

		if bg.ID != defaultBackgroundID {
			owned, err := s.repo.HasBackground(ctx, db, inv.AuthorID, bg.ID)
			if err != nil {
				return results.OperationResult[*BackgroundPurchaseView, error]{}, err
			}
			if !owned {
				return results.FailureResult[*BackgroundPurchaseView, error](ErrBackgroundNotOwned), nil
			}
		}

		if err := s.repo.SetBackground(ctx, db, inv.AuthorID, bg.ID); err != nil {
			return results.OperationResult[*BackgroundPurchaseView, error]{}, err
		}
		return results.SuccessResult[*BackgroundPurchaseView, error](&BackgroundPurchaseView{Background: bg}), nil
	}

	return withTelemetry(s, ctx, "SetBackground", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*BackgroundPurchaseView, error], error) {
		return runInTx(s, ctx, setTx)
	})
}

// GetBackgroundsOwned lists the author's backgrounds.
func (s *AccountsService) GetBackgroundsOwned(ctx context.Context, inv accountsevents.Invocation) (results.OperationResult[*BackgroundsOwnedView, error], error) {
	return withTelemetry(s, ctx, "GetBackgroundsOwned", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*BackgroundsOwnedView, error], error) {
		owned, err := s.repo.GetBackgroundsOwned(ctx, nil, inv.AuthorID)
		if err != nil {
			return results.OperationResult[*BackgroundsOwnedView, error]{}, err
		}
		view := &BackgroundsOwnedView{User: invocationUser(inv), IDs: make([]int, 0, len(owned))}
		for _, o := range owned {
			view.IDs = append(view.IDs, o.BackgroundID)
		}
		return results.SuccessResult[*BackgroundsOwnedView, error](view), nil
	})
}

// SetProfileColor buys a colour change for one profile layer.
func (s *AccountsService) SetProfileColor(ctx context.Context, inv accountsevents.Invocation, layer accountsevents.ColorLayer, input string) (results.OperationResult[*ColorView, error], error) {
	colorTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ColorView, error], error) {
		return s.setProfileColorLogic(ctx, db, inv, layer, input)
	}

	return withTelemetry(s, ctx, "SetProfileColor", strconv.FormatInt(inv.AuthorID, 10), func(ctx context.Context) (results.OperationResult[*ColorView, error], error) {
		return runInTx(s, ctx, colorTx)
	})
}

func (s *AccountsService) setProfileColorLogic(ctx context.Context, db bun.IDB, inv accountsevents.Invocation, layer accountsevents.ColorLayer, input string) (results.OperationResult[*ColorView, error], error) {
	var column accountsdb.ColorLayer
	var name string
	switch layer {
	case accountsevents.ColorLayerBack:
		column, name = accountsdb.ColorLayerBackground, "background"
	case accountsevents.ColorLayerFront:
		column, name = accountsdb.ColorLayerForeground, "foreground"
	default:
		return results.OperationResult[*ColorView, error]{}, fmt.Errorf("unknown colour layer %q", layer)
	}

	hex, err := accountsdomain.ParseHexColor(input)
	if err != nil {
		return results.SuccessResult[*ColorView, error](&ColorView{Layer: name, Help: true}), nil
	}

	account, err := s.repo.GetOrCreateUser(ctx, db, inv.AuthorID, inv.AuthorName)
	if err != nil {
		return results.OperationResult[*ColorView, error]{}, fmt.Errorf("failed to load account: %w", err)
	}
	if _, err := s.repo.RemoveCurrency(ctx, db, account.ID, accountsdomain.ColorChangePrice); err != nil {
		if errors.Is(err, accountsdb.ErrInsufficientFunds) {
			return results.FailureResult[*ColorView, error](&InsufficientFundsError{Balance: account.Currency}), nil
		}
		return results.OperationResult[*ColorView, error]{}, fmt.Errorf("failed to debit colour price: %w", err)
	}
	if err := s.repo.SetColor(ctx, db, account.ID, column, hex); err != nil {
		return results.OperationResult[*ColorView, error]{}, err
	}

	return results.SuccessResult[*ColorView, error](&ColorView{Layer: name, Hex: hex}), nil
}
