package accountsqueue

import (
	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
)

// QueueName is the River queue carrying accounts notifications.
const QueueName = "accounts"

// LevelUpNotificationJob posts the level-up embed for one level reached.
type LevelUpNotificationJob struct {
	Notice accountsservice.LevelUpNotice `json:"notice"`
}

// Kind returns the job type identifier for River
func (LevelUpNotificationJob) Kind() string { return "accounts_level_up_notification" }

// AchievementNotificationJob posts the achievement unlocked embed.
type AchievementNotificationJob struct {
	Notice accountsservice.AchievementNotice `json:"notice"`
}

// Kind returns the job type identifier for River
func (AchievementNotificationJob) Kind() string { return "accounts_achievement_notification" }
