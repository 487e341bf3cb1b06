// Package admin provides the commands that post the interactive panels
package admin

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/internal/panels"
	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const category = "admin"

// Commands builds the panel commands for the given guild layout
func Commands(guild *config.GuildConfig) []*discord.Command {
	return []*discord.Command{
		discord.NewCommand("postreactionpanel", "Publica el panel de roles", category, func(ctx *discord.CommandContext) error {
			channelID := guild.Channels.ReactionRole
			_, err := ctx.Actions.SendComponents(channelID, "Elige tus roles abajo:", panels.ReactionRoles(guild.Roles.Reaction))
			if err != nil {
				errors.LogAction("publicar panel de roles", err, "Panels")
				return errors.Reject("❌ No se pudo publicar el panel de roles.", err)
			}
			logger.Info(fmt.Sprintf("Panel de roles publicado en %s", channelID), "Panels")
			return ctx.ReplyEphemeral("✅ Panel de roles publicado")
		}).WithUserPermissions(discordgo.PermissionManageGuild),

		discord.NewCommand("postticketpanel", "Publica el panel de tickets", category, func(ctx *discord.CommandContext) error {
			return ctx.ReplyComponents("Pulsa un botón para abrir un ticket:", panels.Tickets(guild.Tickets)...)
		}).WithUserPermissions(discordgo.PermissionManageGuild),

		discord.NewCommand("postverifypanel", "Publica el panel de verificación", category, func(ctx *discord.CommandContext) error {
			return ctx.ReplyComponents("Pulsa Verificar para obtener acceso al servidor", panels.Verify()...)
		}).WithUserPermissions(discordgo.PermissionManageGuild),
	}
}

// RegisterAdminCommands registers the panel commands with the client
func RegisterAdminCommands(client *discord.ExtendedClient, guild *config.GuildConfig) {
	for _, cmd := range Commands(guild) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}
