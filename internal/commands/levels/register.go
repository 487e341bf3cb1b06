// Package levels provides the leveling slash commands
package levels

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/internal/leveling"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const category = "levels"

// Commands builds the leveling commands
func Commands(svc *leveling.Service) []*discord.Command {
	return []*discord.Command{
		discord.NewCommand("level", "Muestra tu nivel", category, func(ctx *discord.CommandContext) error {
			p := svc.Get(ctx.User().ID)
			return ctx.Reply(fmt.Sprintf("📊 Nivel: **%d** | XP: **%d/%d**", p.Level, p.XP, p.Needed))
		}),

		discord.NewCommand("setlevelreward", "Asigna un rol de recompensa a un nivel", category, func(ctx *discord.CommandContext) error {
			level := ctx.GetIntOption("level")
			role := ctx.GetRoleOption("role")
			if role == nil {
				return errors.Reject("Uso: /setlevelreward level:<número> role:<rol>", nil)
			}
			if err := svc.SetReward(int(level), role.ID); err != nil {
				return errors.Reject("❌ El nivel debe ser 1 o mayor.", err)
			}

			logger.Info(fmt.Sprintf("🏅 Recompensa de nivel %d -> %s", level, role.ID), "Levels")
			return ctx.ReplyEphemeral(fmt.Sprintf("✅ Rol de recompensa %s asignado al nivel %d", roleName(role), level))
		}).
			WithOptions(
				&discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Nivel",
					Required:    true,
				},
				&discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Rol de recompensa",
					Required:    true,
				},
			).
			WithUserPermissions(discordgo.PermissionManageRoles),
	}
}

// RegisterLevelCommands registers the leveling commands with the client
func RegisterLevelCommands(client *discord.ExtendedClient, svc *leveling.Service) {
	for _, cmd := range Commands(svc) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}

func roleName(r *discordgo.Role) string {
	if r.Name != "" {
		return "**" + r.Name + "**"
	}
	return "<@&" + r.ID + ">"
}
