// Package discordtest provides an in-memory discord.Actions for tests.
package discordtest

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// SentMessage is a message posted through the fake
type SentMessage struct {
	ChannelID  string
	Content    string
	Components []discordgo.MessageComponent
}

// RoleChange is a role added to or removed from a member
type RoleChange struct {
	GuildID string
	UserID  string
	RoleID  string
}

// CreatedChannel is a private channel created through the fake
type CreatedChannel struct {
	GuildID string
	Name    string
	UserID  string
}

// Actions records every call. Set the Fail fields to make a call return an error.
type Actions struct {
	mu sync.Mutex

	Messages     []SentMessage
	Deleted      []string
	DMs          []SentMessage
	RolesAdded   []RoleChange
	RolesRemoved []RoleChange
	Channels     []CreatedChannel
	Responses    []*discordgo.InteractionResponse

	GuildRoles map[string][]*discordgo.Role
	GuildNames map[string]string

	FailSend    error
	FailDelete  error
	FailDM      error
	FailAddRole error
	FailChannel error
}

var _ discord.Actions = (*Actions)(nil)

// New returns an empty fake
func New() *Actions {
	return &Actions{
		GuildRoles: make(map[string][]*discordgo.Role),
		GuildNames: make(map[string]string),
	}
}

func (a *Actions) SendMessage(channelID, content string) (*discordgo.Message, error) {
	return a.SendComponents(channelID, content, nil)
}

func (a *Actions) SendComponents(channelID, content string, components []discordgo.MessageComponent) (*discordgo.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailSend != nil {
		return nil, a.FailSend
	}
	a.Messages = append(a.Messages, SentMessage{ChannelID: channelID, Content: content, Components: components})
	return &discordgo.Message{
		ID:        fmt.Sprintf("m%d", len(a.Messages)),
		ChannelID: channelID,
		Content:   content,
	}, nil
}

func (a *Actions) DeleteMessage(channelID, messageID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailDelete != nil {
		return a.FailDelete
	}
	a.Deleted = append(a.Deleted, messageID)
	return nil
}

func (a *Actions) SendDM(userID, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailDM != nil {
		return a.FailDM
	}
	a.DMs = append(a.DMs, SentMessage{ChannelID: userID, Content: content})
	return nil
}

func (a *Actions) AddRole(guildID, userID, roleID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailAddRole != nil {
		return a.FailAddRole
	}
	a.RolesAdded = append(a.RolesAdded, RoleChange{GuildID: guildID, UserID: userID, RoleID: roleID})
	return nil
}

func (a *Actions) RemoveRole(guildID, userID, roleID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.RolesRemoved = append(a.RolesRemoved, RoleChange{GuildID: guildID, UserID: userID, RoleID: roleID})
	return nil
}

func (a *Actions) FindRoleByName(guildID, name string) (*discordgo.Role, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if role := discord.MatchRole(a.GuildRoles[guildID], name); role != nil {
		return role, nil
	}
	return nil, discord.ErrRoleNotFound
}

func (a *Actions) CreatePrivateChannel(guildID, name, userID string) (*discordgo.Channel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailChannel != nil {
		return nil, a.FailChannel
	}
	a.Channels = append(a.Channels, CreatedChannel{GuildID: guildID, Name: name, UserID: userID})
	return &discordgo.Channel{
		ID:      fmt.Sprintf("c%d", len(a.Channels)),
		GuildID: guildID,
		Name:    name,
	}, nil
}

func (a *Actions) GuildName(guildID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.GuildNames[guildID]
}

func (a *Actions) Respond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Responses = append(a.Responses, resp)
	return nil
}

// LastResponse returns the most recent interaction response, nil if none
func (a *Actions) LastResponse() *discordgo.InteractionResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.Responses) == 0 {
		return nil
	}
	return a.Responses[len(a.Responses)-1]
}

// LastReply returns the content of the most recent response and whether it was ephemeral
func (a *Actions) LastReply() (string, bool) {
	resp := a.LastResponse()
	if resp == nil || resp.Data == nil {
		return "", false
	}
	return resp.Data.Content, resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}
