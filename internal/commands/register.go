// Package commands wires every slash command category into the client.
// Commands are organized in subdirectories by category.
package commands

import (
	"github.com/PancyStudios/PancyCommunityGo/internal/commands/admin"
	"github.com/PancyStudios/PancyCommunityGo/internal/commands/eco"
	"github.com/PancyStudios/PancyCommunityGo/internal/commands/levels"
	"github.com/PancyStudios/PancyCommunityGo/internal/commands/utils"
	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/internal/leveling"
	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
)

// Services are the dependencies the commands run against
type Services struct {
	Economy   *economy.Service
	Leveling  *leveling.Service
	Guild     *config.GuildConfig
	Publisher mqtt.Publisher
	Info      utils.Info
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, s Services) {
	utils.RegisterUtilsCommands(client, s.Info)
	eco.RegisterEconomyCommands(client, s.Economy, s.Publisher)
	levels.RegisterLevelCommands(client, s.Leveling)
	admin.RegisterAdminCommands(client, s.Guild)

	logger.Info("📋 Comandos registrados en la tabla local", "Commands")
}
