// Package utils provides the utility slash commands
package utils

import (
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
)

const category = "utils"

// Info exposes the runtime state shown by /stats and /status.
// Nil functions are reported as disabled.
type Info struct {
	StoreStats     func() store.Stats
	DatabaseStatus func() string
	MQTTConnected  func() bool
}

// Commands builds the utility commands
func Commands(info Info) []*discord.Command {
	return []*discord.Command{
		createPingCommand(),
		createHelpCommand(),
		createStatsCommand(info),
		createStatusCommand(info),
	}
}

// RegisterUtilsCommands registers the utility commands with the client
func RegisterUtilsCommands(client *discord.ExtendedClient, info Info) {
	for _, cmd := range Commands(info) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}
