package events

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/internal/panels"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/google/uuid"
)

var errNoMember = errors.New("interacción sin miembro")

// HandleRoleSelect replaces the member's reaction roles with the selection.
// Every candidate is removed first, then each selected role is added; a
// failure part way leaves whatever was applied.
func (h *Handlers) HandleRoleSelect(ctx *discord.CommandContext) error {
	member := ctx.Member()
	if member == nil || member.User == nil {
		return errors.Reject("❌ Ocurrió un error.", errNoMember)
	}
	guildID, userID := ctx.Interaction.GuildID, member.User.ID

	for _, roleID := range h.Guild.ReactionRoleIDs() {
		errors.LogAction("quitar rol de reacción", h.Actions.RemoveRole(guildID, userID, roleID), "Roles")
	}
	for _, roleID := range ctx.Values() {
		errors.LogAction("asignar rol de reacción", h.Actions.AddRole(guildID, userID, roleID), "Roles")
	}

	logger.Debug(fmt.Sprintf("Roles de %s actualizados: %v", userID, ctx.Values()), "Roles")
	return ctx.ReplyEphemeral("✅ Roles actualizados.")
}

// HandleTicket opens a private channel for the member. Every click opens a
// new ticket.
func (h *Handlers) HandleTicket(ctx *discord.CommandContext) error {
	user := ctx.User()
	if user == nil {
		return errors.Reject("❌ Ocurrió un error.", errNoMember)
	}
	category := panels.TicketCategory(ctx.CustomID())

	ch, err := h.Actions.CreatePrivateChannel(ctx.Interaction.GuildID, "ticket-"+user.Username, user.ID)
	if err != nil {
		errors.LogAction("crear ticket", err, "Tickets")
		return errors.Reject("❌ No se pudo crear el ticket.", err)
	}

	ref := uuid.NewString()[:8]
	_, err = h.Actions.SendMessage(ch.ID, fmt.Sprintf("🎫 Ticket **%s** abierto por <@%s>\nCategoría: **%s**", ref, user.ID, category))
	errors.LogAction("anunciar ticket", err, "Tickets")

	logger.Info(fmt.Sprintf("🎫 Ticket %s (%s) creado para %s", ref, category, user.ID), "Tickets")
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Ticket creado: <#%s>", ch.ID))
}

// HandleVerify gives the member the verified role
func (h *Handlers) HandleVerify(ctx *discord.CommandContext) error {
	member := ctx.Member()
	if member == nil || member.User == nil {
		return ctx.ReplyEphemeral("❌ Ocurrió un error.")
	}
	errors.LogAction("asignar rol verificado",
		h.Actions.AddRole(ctx.Interaction.GuildID, member.User.ID, h.Guild.Roles.Verified), "Verify")
	return ctx.ReplyEphemeral("✅ ¡Verificado!")
}
