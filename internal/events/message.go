package events

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/internal/moderation"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// ModerationEvent is published on community/events/moderation
type ModerationEvent struct {
	Verdict   string `json:"verdict"`
	GuildID   string `json:"guildId"`
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Match     string `json:"match,omitempty"`
	Muted     bool   `json:"muted,omitempty"`
}

// LevelUpEvent is published on community/events/levelup
type LevelUpEvent struct {
	GuildID      string `json:"guildId"`
	UserID       string `json:"userId"`
	Level        int    `json:"level"`
	RewardRoleID string `json:"rewardRoleId,omitempty"`
}

// HandleMessage runs moderation on a guild message and, unless the message
// was removed, awards experience.
func (h *Handlers) HandleMessage(m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	decision := h.Moderation.Evaluate(m.Author.ID, m.Content, h.Now())
	switch decision.Verdict {
	case moderation.VerdictBannedWord:
		h.removeMessage(m, decision,
			fmt.Sprintf("⚠️ **%s**, ese lenguaje no está permitido.", m.Author.Username),
			fmt.Sprintf("🚨 Mensaje con lenguaje prohibido de %s eliminado: %s", m.Author.String(), m.Content))
		return
	case moderation.VerdictLink:
		h.removeMessage(m, decision,
			"🔗 No se permiten enlaces aquí.",
			fmt.Sprintf("🚨 Mensaje con enlace de %s eliminado: %s", m.Author.String(), m.Content))
		return
	case moderation.VerdictSpam:
		h.muteSpammer(m, decision)
	}

	h.awardXP(m)
}

func (h *Handlers) removeMessage(m *discordgo.Message, decision moderation.Decision, warning, logLine string) {
	errors.LogAction("eliminar mensaje", h.Actions.DeleteMessage(m.ChannelID, m.ID), "Moderation")

	_, err := h.Actions.SendMessage(m.ChannelID, warning)
	errors.LogAction("enviar advertencia", err, "Moderation")

	h.logChannel(logLine)
	logger.Info(fmt.Sprintf("Mensaje de %s eliminado (%s)", m.Author.ID, decision.Verdict), "Moderation")

	h.Publisher.PublishEvent(mqtt.EventModeration, ModerationEvent{
		Verdict:   decision.Verdict.String(),
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Match:     decision.Match,
	})
}

// muteSpammer adds the muted role and warns the channel. Without a muted role
// nothing is posted; a failed grant is logged and the warning still goes out.
// The message is processed for experience either way.
func (h *Handlers) muteSpammer(m *discordgo.Message, decision moderation.Decision) {
	role, err := h.Actions.FindRoleByName(m.GuildID, h.Guild.Roles.Muted)
	if err != nil {
		errors.LogAction("buscar rol muted", err, "Moderation")
		return
	}
	muted := errors.LogAction("silenciar usuario", h.Actions.AddRole(m.GuildID, m.Author.ID, role.ID), "Moderation")

	_, err = h.Actions.SendMessage(m.ChannelID, fmt.Sprintf("🔇 %s ha sido silenciado por spam.", m.Author.Username))
	errors.LogAction("enviar advertencia", err, "Moderation")
	h.logChannel(fmt.Sprintf("🔇 %s silenciado por spam.", m.Author.String()))

	h.Publisher.PublishEvent(mqtt.EventModeration, ModerationEvent{
		Verdict:   decision.Verdict.String(),
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Muted:     muted,
	})
}

func (h *Handlers) awardXP(m *discordgo.Message) {
	res := h.Leveling.AddMessageXP(m.Author.ID)
	if !res.LeveledUp {
		return
	}

	_, err := h.Actions.SendMessage(m.ChannelID, fmt.Sprintf("🎉 **%s** subió al nivel **%d**!", m.Author.Username, res.Level))
	errors.LogAction("anunciar nivel", err, "Leveling")

	if res.RewardRoleID != "" {
		errors.LogAction("asignar recompensa de nivel", h.Actions.AddRole(m.GuildID, m.Author.ID, res.RewardRoleID), "Leveling")
	}

	h.Publisher.PublishEvent(mqtt.EventLevelUp, LevelUpEvent{
		GuildID:      m.GuildID,
		UserID:       m.Author.ID,
		Level:        res.Level,
		RewardRoleID: res.RewardRoleID,
	})
}

// HandleMessageDelete logs a deleted message with whatever the cache kept
func (h *Handlers) HandleMessageDelete(m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	author, content := "Desconocido", ""
	if before := m.BeforeDelete; before != nil {
		if before.Author != nil {
			author = before.Author.String()
		}
		content = before.Content
	}
	if content == "" {
		content = "[embed/adjunto]"
	}
	h.logChannel(fmt.Sprintf("🗑️ Mensaje eliminado de %s: %s", author, content))
}

// HandleMessageUpdate logs edits of user messages. Updates that keep the
// content, such as link embeds resolving, are ignored.
func (h *Handlers) HandleMessageUpdate(m *discordgo.MessageUpdate) {
	if m.Message == nil || m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}
	before := "[no disponible]"
	if m.BeforeUpdate != nil {
		if m.BeforeUpdate.Content == m.Content {
			return
		}
		before = m.BeforeUpdate.Content
	}
	h.logChannel(fmt.Sprintf("✏️ Mensaje editado por %s en <#%s>\n**Antes:** %s\n**Después:** %s",
		m.Author.String(), m.ChannelID, before, m.Content))
}
