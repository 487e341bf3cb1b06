package events

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// MemberEvent is published on community/events/member
type MemberEvent struct {
	Action  string `json:"action"`
	GuildID string `json:"guildId"`
	UserID  string `json:"userId"`
	Tag     string `json:"tag"`
}

// HandleMemberJoin gives the auto role, greets the member in the welcome
// channel and by DM, and logs the join. Each step is independent.
func (h *Handlers) HandleMemberJoin(m *discordgo.Member) {
	if m == nil || m.User == nil {
		return
	}
	tag := m.User.String()
	guildName := h.Actions.GuildName(m.GuildID)
	logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", tag, m.GuildID), "Member")

	if roleID := h.Guild.Roles.Auto; roleID != "" {
		errors.LogAction("asignar rol automático", h.Actions.AddRole(m.GuildID, m.User.ID, roleID), "Member")
	}

	if ch := h.Guild.Channels.Welcome; ch != "" {
		_, err := h.Actions.SendMessage(ch, fmt.Sprintf("👋 ¡Bienvenido/a **%s** a **%s**!", tag, guildName))
		errors.LogAction("enviar bienvenida", err, "Member")
	}

	if err := h.Actions.SendDM(m.User.ID, fmt.Sprintf("¡Bienvenido/a a %s! Lee las reglas :)", guildName)); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo enviar DM a %s: %v", tag, err), "Member")
	}

	h.logChannel(fmt.Sprintf("📥 **Entrada**: %s (%s)", tag, m.User.ID))
	h.Publisher.PublishEvent(mqtt.EventMember, MemberEvent{Action: "join", GuildID: m.GuildID, UserID: m.User.ID, Tag: tag})
}

// HandleMemberLeave logs the departure
func (h *Handlers) HandleMemberLeave(m *discordgo.Member) {
	if m == nil || m.User == nil {
		return
	}
	tag := m.User.String()
	logger.Info(fmt.Sprintf("👋 Miembro salió: %s del servidor %s", tag, m.GuildID), "Member")

	h.logChannel(fmt.Sprintf("📤 **Salida**: %s (%s)", tag, m.User.ID))
	h.Publisher.PublishEvent(mqtt.EventMember, MemberEvent{Action: "leave", GuildID: m.GuildID, UserID: m.User.ID, Tag: tag})
}
