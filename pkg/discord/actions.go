package discord

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ErrRoleNotFound is returned by FindRoleByName when no role matches
var ErrRoleNotFound = errors.New("rol no encontrado")

// Actions is the set of REST side effects used by handlers and commands.
// SessionActions backs it with a live session; tests provide fakes.
type Actions interface {
	SendMessage(channelID, content string) (*discordgo.Message, error)
	SendComponents(channelID, content string, components []discordgo.MessageComponent) (*discordgo.Message, error)
	DeleteMessage(channelID, messageID string) error
	SendDM(userID, content string) error
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	FindRoleByName(guildID, name string) (*discordgo.Role, error)
	CreatePrivateChannel(guildID, name, userID string) (*discordgo.Channel, error)
	GuildName(guildID string) string
	Respond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
}

// SessionActions implements Actions on top of a discordgo session
type SessionActions struct {
	Session *discordgo.Session
}

// NewSessionActions wraps a session
func NewSessionActions(s *discordgo.Session) *SessionActions {
	return &SessionActions{Session: s}
}

func (a *SessionActions) SendMessage(channelID, content string) (*discordgo.Message, error) {
	return a.Session.ChannelMessageSend(channelID, content)
}

func (a *SessionActions) SendComponents(channelID, content string, components []discordgo.MessageComponent) (*discordgo.Message, error) {
	return a.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: components,
	})
}

func (a *SessionActions) DeleteMessage(channelID, messageID string) error {
	return a.Session.ChannelMessageDelete(channelID, messageID)
}

// SendDM opens a DM channel with the user and posts content there
func (a *SessionActions) SendDM(userID, content string) error {
	ch, err := a.Session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = a.Session.ChannelMessageSend(ch.ID, content)
	return err
}

func (a *SessionActions) AddRole(guildID, userID, roleID string) error {
	return a.Session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (a *SessionActions) RemoveRole(guildID, userID, roleID string) error {
	return a.Session.GuildMemberRoleRemove(guildID, userID, roleID)
}

// FindRoleByName looks the role up case-insensitively, first in the state
// cache and then through the API.
func (a *SessionActions) FindRoleByName(guildID, name string) (*discordgo.Role, error) {
	var roles []*discordgo.Role
	if a.Session.State != nil {
		if g, err := a.Session.State.Guild(guildID); err == nil {
			roles = g.Roles
		}
	}
	if roles == nil {
		var err error
		roles, err = a.Session.GuildRoles(guildID)
		if err != nil {
			return nil, err
		}
	}
	if role := MatchRole(roles, name); role != nil {
		return role, nil
	}
	return nil, ErrRoleNotFound
}

// MatchRole returns the first role whose name equals name ignoring case
func MatchRole(roles []*discordgo.Role, name string) *discordgo.Role {
	for _, r := range roles {
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	return nil
}

// CreatePrivateChannel creates a text channel hidden from @everyone and
// visible to userID only.
func (a *SessionActions) CreatePrivateChannel(guildID, name, userID string) (*discordgo.Channel, error) {
	return a.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: PrivateOverwrites(guildID, userID),
	})
}

// PrivateOverwrites denies ViewChannel to @everyone (whose role ID equals the
// guild ID) and allows ViewChannel and SendMessages to the user.
func PrivateOverwrites(guildID, userID string) []*discordgo.PermissionOverwrite {
	return []*discordgo.PermissionOverwrite{
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
}

// GuildName resolves the guild name from the state, falling back to the API
func (a *SessionActions) GuildName(guildID string) string {
	if a.Session.State != nil {
		if g, err := a.Session.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}
	g, err := a.Session.Guild(guildID)
	if err != nil {
		return ""
	}
	return g.Name
}

func (a *SessionActions) Respond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return a.Session.InteractionRespond(interaction, resp)
}
