// Package discord adapts bwmarrin/discordgo to the narrow chat platform
// operations the accounts module needs.
package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ErrUserNotFound is returned when a mention or name does not resolve to a user.
var ErrUserNotFound = errors.New("discord: user not found")

// User is a chat user.
type User struct {
	ID            int64
	Username      string
	Discriminator string
	AvatarURL     string
	Bot           bool
}

// Tag renders "name#discriminator", or just the name for migrated accounts.
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// Member is a user inside a guild.
type Member struct {
	User     User
	Nickname string
	RoleIDs  []int64
}

// Role is a guild role.
type Role struct {
	ID   int64
	Name string
}

// Attachment is a file posted alongside an embed.
type Attachment struct {
	Name string
	Data []byte
}

// Platform is the chat surface used by the accounts module.
type Platform interface {
	ResolveUser(ctx context.Context, guildID int64, query string) (*User, error)
	GuildMember(ctx context.Context, guildID, userID int64) (*Member, error)
	GuildRoles(ctx context.Context, guildID int64) ([]Role, error)
	AddRole(ctx context.Context, guildID, userID, roleID int64) error
	CanUseExternalEmojis(ctx context.Context, channelID int64) (bool, error)
	SendEmbed(ctx context.Context, channelID int64, e *discordgo.MessageEmbed, files ...Attachment) error
}

// api is the subset of *discordgo.Session used here.
type api interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMembersSearch(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Adapter implements Platform over a discordgo session.
type Adapter struct {
	api    api
	selfID func() string
}

var _ Platform = (*Adapter)(nil)

// NewAdapter wraps an opened session.
func NewAdapter(s *discordgo.Session) *Adapter {
	return &Adapter{
		api: s,
		selfID: func() string {
			if s.State == nil || s.State.User == nil {
				return ""
			}
			return s.State.User.ID
		},
	}
}

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// ResolveUser accepts a mention, a raw snowflake, or a name to search in the guild.
func (a *Adapter) ResolveUser(ctx context.Context, guildID int64, query string) (*User, error) {
	if m := mentionPattern.FindStringSubmatch(query); m != nil {
		query = m[1]
	}

	if _, err := strconv.ParseInt(query, 10, 64); err == nil {
		u, err := a.api.User(query, discordgo.WithContext(ctx))
		if err != nil {
			if isNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to fetch user %s: %w", query, err)
		}
		return toUser(u), nil
	}

	if guildID == 0 || query == "" {
		return nil, ErrUserNotFound
	}
	members, err := a.api.GuildMembersSearch(formatID(guildID), query, 1, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	if len(members) == 0 || members[0].User == nil {
		return nil, ErrUserNotFound
	}
	return toUser(members[0].User), nil
}

func (a *Adapter) GuildMember(ctx context.Context, guildID, userID int64) (*Member, error) {
	m, err := a.api.GuildMember(formatID(guildID), formatID(userID), discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}

	member := &Member{Nickname: m.Nick}
	if m.User != nil {
		member.User = *toUser(m.User)
	}
	for _, r := range m.Roles {
		if id, err := parseID(r); err == nil {
			member.RoleIDs = append(member.RoleIDs, id)
		}
	}
	return member, nil
}

func (a *Adapter) GuildRoles(ctx context.Context, guildID int64) ([]Role, error) {
	roles, err := a.api.GuildRoles(formatID(guildID), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		id, err := parseID(r.ID)
		if err != nil {
			continue
		}
		out = append(out, Role{ID: id, Name: r.Name})
	}
	return out, nil
}

func (a *Adapter) AddRole(ctx context.Context, guildID, userID, roleID int64) error {
	if err := a.api.GuildMemberRoleAdd(formatID(guildID), formatID(userID), formatID(roleID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add role %d: %w", roleID, err)
	}
	return nil
}

// CanUseExternalEmojis reports whether the bot may render custom emoji glyphs in channelID.
func (a *Adapter) CanUseExternalEmojis(ctx context.Context, channelID int64) (bool, error) {
	self := a.selfID()
	if self == "" {
		return false, nil
	}
	perms, err := a.api.UserChannelPermissions(self, formatID(channelID), discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to read channel permissions: %w", err)
	}
	return perms&discordgo.PermissionUseExternalEmojis != 0, nil
}

func (a *Adapter) SendEmbed(ctx context.Context, channelID int64, e *discordgo.MessageEmbed, files ...Attachment) error {
	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{e}}
	for _, f := range files {
		msg.Files = append(msg.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: "image/png",
			Reader:      bytes.NewReader(f.Data),
		})
	}
	if _, err := a.api.ChannelMessageSendComplex(formatID(channelID), msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send embed: %w", err)
	}
	return nil
}

func toUser(u *discordgo.User) *User {
	id, _ := parseID(u.ID)
	return &User{
		ID:            id,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		AvatarURL:     u.AvatarURL(""),
		Bot:           u.Bot,
	}
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == 404
	}
	return false
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func parseID(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
