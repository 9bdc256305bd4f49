package accountsservice

import (
	"errors"
	"fmt"
	"time"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
)

var (
	ErrUserNotFound               = errors.New("user not found")
	ErrNoAccount                  = errors.New("user has no account")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrReputationLimit            = accountsdomain.ErrReputationLimit
	ErrReputationZero             = accountsdomain.ErrReputationZero
	ErrBackgroundNotOwned         = errors.New("background not owned")
	ErrBackgroundAlreadyOwned     = errors.New("background already owned")
	ErrBackgroundNotFound         = errors.New("background not found")
	ErrBackgroundNotForSale       = errors.New("background not for sale")
	ErrInvalidAmount              = errors.New("invalid amount")
	ErrAmountUnparsable           = errors.New("amount is not a number")
	ErrMissingTarget              = errors.New("no target user given")
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	ErrInvalidConfiguration       = errors.New("invalid configuration")
	ErrDailyAlreadyClaimed        = errors.New("daily already claimed")

	// errAlreadyApplied aborts a transaction for a redelivered message.
	errAlreadyApplied = errors.New("message already applied")
)

// ReputationLimitError carries the rejected request for the user-facing message.
type ReputationLimitError struct {
	Recipients int
	Requested  int
	PointsLeft int
}

func (e *ReputationLimitError) Error() string {
	return fmt.Sprintf("requested %d reputation for %d users with %d left", e.Requested, e.Recipients, e.PointsLeft)
}

func (e *ReputationLimitError) Unwrap() error { return ErrReputationLimit }

// InsufficientFundsError carries the balance the debit was checked against.
type InsufficientFundsError struct {
	Balance int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d", e.Balance)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// DailyClaimedError carries the time left until the next claim.
type DailyClaimedError struct {
	Remaining time.Duration
}

func (e *DailyClaimedError) Error() string {
	return fmt.Sprintf("daily already claimed, available in %s", e.Remaining)
}

func (e *DailyClaimedError) Unwrap() error { return ErrDailyAlreadyClaimed }
