// Package events provides the gateway event handlers of the bot.
package events

import (
	"time"

	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/internal/leveling"
	"github.com/PancyStudios/PancyCommunityGo/internal/moderation"
	"github.com/PancyStudios/PancyCommunityGo/internal/panels"
	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// Deps are the services shared by the handlers
type Deps struct {
	Actions    discord.Actions
	Guild      *config.GuildConfig
	Economy    *economy.Service
	Leveling   *leveling.Service
	Moderation *moderation.Pipeline
	Publisher  mqtt.Publisher
	Now        func() time.Time
}

// Handlers holds the event and component handlers
type Handlers struct {
	Deps
}

// NewHandlers fills unset optional dependencies
func NewHandlers(d Deps) *Handlers {
	if d.Publisher == nil {
		d.Publisher = mqtt.Nop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handlers{Deps: d}
}

// RegisterAll registers every event and component handler with the client
func RegisterAll(client *discord.ExtendedClient, d Deps) *Handlers {
	logger.System("📋 Registrando eventos del bot...", "Events")

	if d.Actions == nil {
		d.Actions = client.Actions
	}
	h := NewHandlers(d)

	client.EventHandler.OnReady(h.onReady)

	client.EventHandler.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		h.HandleMemberJoin(m.Member)
	})
	client.EventHandler.OnGuildMemberRemove(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		h.HandleMemberLeave(m.Member)
	})

	client.EventHandler.OnMessageCreate(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		h.HandleMessage(m.Message)
	})
	client.EventHandler.OnMessageDelete(func(s *discordgo.Session, m *discordgo.MessageDelete) {
		h.HandleMessageDelete(m)
	})
	client.EventHandler.OnMessageUpdate(func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		h.HandleMessageUpdate(m)
	})

	client.Components.Handle(panels.RoleSelectID, h.HandleRoleSelect)
	client.Components.HandlePrefix(panels.TicketPrefix, h.HandleTicket)
	client.Components.Handle(panels.VerifyID, h.HandleVerify)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
	return h
}

// logChannel posts to the configured log channel, best effort
func (h *Handlers) logChannel(content string) {
	if h.Guild.Channels.Log == "" {
		return
	}
	_, err := h.Actions.SendMessage(h.Guild.Channels.Log, content)
	errors.LogAction("enviar log", err, "Events")
}
