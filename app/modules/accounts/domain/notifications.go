package accountsdomain

import "fmt"

// NotificationSetting controls level-up messages in a channel.
type NotificationSetting int

const (
	NotifyAll         NotificationSetting = 0
	NotifyRewardsOnly NotificationSetting = 1
	NotifyNone        NotificationSetting = 2
)

// ParseNotificationSetting validates a stored setting value.
func ParseNotificationSetting(v int) (NotificationSetting, error) {
	switch s := NotificationSetting(v); s {
	case NotifyAll, NotifyRewardsOnly, NotifyNone:
		return s, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidNotificationSetting, v)
	}
}

// ShouldNotify decides whether a level-up message is posted after rewards were matched.
func (s NotificationSetting) ShouldNotify(matchedRules int) (bool, error) {
	switch s {
	case NotifyNone:
		return false, nil
	case NotifyRewardsOnly:
		return matchedRules > 0, nil
	case NotifyAll:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrInvalidNotificationSetting, int(s))
	}
}
