package accountsdomain

import "errors"

var (
	// ErrReputationZero rejects a distribution whose amounts are not all positive.
	ErrReputationZero = errors.New("reputation amount must be positive")
	// ErrReputationLimit rejects a distribution larger than the remaining daily budget.
	ErrReputationLimit = errors.New("reputation budget exceeded")
	// ErrInvalidNotificationSetting is returned for stored values outside the enum.
	ErrInvalidNotificationSetting = errors.New("invalid notification setting")
	// ErrInvalidColor is returned when no hex colour could be read.
	ErrInvalidColor = errors.New("invalid hex colour")
)
