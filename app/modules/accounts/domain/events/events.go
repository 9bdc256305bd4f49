package accountsevents

import (
	"github.com/bwmarrin/discordgo"
)

// StreamName is the JetStream stream carrying every accounts subject.
const StreamName = "accounts"

// StreamSubjects is the subject filter of StreamName.
const StreamSubjects = "accounts.>"

// Command requests published by the gateway.
const (
	ProfileRequestedV1          = "accounts.profile.requested.v1"
	LeaderboardRequestedV1      = "accounts.leaderboard.requested.v1"
	ReputationRequestedV1       = "accounts.reputation.requested.v1"
	MekosRequestedV1            = "accounts.mekos.requested.v1"
	GiveRequestedV1             = "accounts.give.requested.v1"
	DailyRequestedV1            = "accounts.daily.requested.v1"
	BackgroundBuyRequestedV1    = "accounts.background.buy.requested.v1"
	BackgroundSetRequestedV1    = "accounts.background.set.requested.v1"
	BackgroundsOwnedRequestedV1 = "accounts.background.owned.requested.v1"
	ColorRequestedV1            = "accounts.color.requested.v1"
	AchievementsRequestedV1     = "accounts.achievements.requested.v1"
	SyncNameRequestedV1         = "accounts.syncname.requested.v1"
	ExpCardRequestedV1          = "accounts.exp.requested.v1"
)

// Domain events.
const (
	ExperienceGainedV1 = "accounts.experience.gained.v1"
	LevelUpV1          = "accounts.level.up.v1"
)

// CommandResponseV1 carries a rendered reply back to the gateway.
const CommandResponseV1 = "accounts.command.response.v1"

// Invocation identifies who ran a command and where.
type Invocation struct {
	GuildID             int64  `json:"guild_id,string"`
	ChannelID           int64  `json:"channel_id,string"`
	MessageID           int64  `json:"message_id,string,omitempty"`
	AuthorID            int64  `json:"author_id,string"`
	AuthorName          string `json:"author_name"`
	AuthorDiscriminator string `json:"author_discriminator,omitempty"`
	Locale              string `json:"locale,omitempty"`
}

// ProfileRequestedPayloadV1 asks for a profile; Target is empty for the author.
type ProfileRequestedPayloadV1 struct {
	Invocation Invocation `json:"invocation"`
	Target     string     `json:"target,omitempty"`
}

// ArgsRequestedPayloadV1 carries free-form command arguments.
type ArgsRequestedPayloadV1 struct {
	Invocation Invocation `json:"invocation"`
	Args       []string   `json:"args,omitempty"`
}

// TargetRequestedPayloadV1 is a command with an optional user argument.
type TargetRequestedPayloadV1 struct {
	Invocation Invocation `json:"invocation"`
	Target     string     `json:"target,omitempty"`
}

// GiveRequestedPayloadV1 transfers mekos.
type GiveRequestedPayloadV1 struct {
	Invocation Invocation `json:"invocation"`
	Target     string     `json:"target,omitempty"`
	Amount     string     `json:"amount,omitempty"`
}

// InvocationPayloadV1 is a command without arguments.
type InvocationPayloadV1 struct {
	Invocation Invocation `json:"invocation"`
}

// BackgroundRequestedPayloadV1 selects a background.
type BackgroundRequestedPayloadV1 struct {
	Invocation   Invocation `json:"invocation"`
	BackgroundID string     `json:"background_id,omitempty"`
	Confirm      string     `json:"confirm,omitempty"`
}

// ColorLayer picks which profile colour a ColorRequested changes.
type ColorLayer string

const (
	ColorLayerBack  ColorLayer = "back"
	ColorLayerFront ColorLayer = "front"
)

// ColorRequestedPayloadV1 changes a profile colour.
type ColorRequestedPayloadV1 struct {
	Invocation Invocation `json:"invocation"`
	Layer      ColorLayer `json:"layer"`
	Input      string     `json:"input,omitempty"`
}

// ExperienceGainedPayloadV1 is emitted by the message tracker for each rewarded message.
type ExperienceGainedPayloadV1 struct {
	GuildID       int64  `json:"guild_id,string"`
	ChannelID     int64  `json:"channel_id,string"`
	UserID        int64  `json:"user_id,string"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator,omitempty"`
	Amount        int64  `json:"amount"`
}

// LevelUpPayloadV1 is published when a guild-local level increases.
type LevelUpPayloadV1 struct {
	GuildID       int64  `json:"guild_id,string"`
	ChannelID     int64  `json:"channel_id,string"`
	UserID        int64  `json:"user_id,string"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator,omitempty"`
	Level         int    `json:"level"`
}

// Attachment is a file sent with a response.
type Attachment struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// CommandResponsePayloadV1 is posted by the gateway to ChannelID.
type CommandResponsePayloadV1 struct {
	GuildID    int64                   `json:"guild_id,string"`
	ChannelID  int64                   `json:"channel_id,string"`
	ReplyTo    int64                   `json:"reply_to,string,omitempty"`
	Embed      *discordgo.MessageEmbed `json:"embed"`
	Attachment *Attachment             `json:"attachment,omitempty"`
}
