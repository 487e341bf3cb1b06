package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
)

// createStatusCommand creates the /status command
func createStatusCommand(info Info) *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		category,
		func(ctx *discord.CommandContext) error {
			guilds := 0
			if ctx.Client != nil {
				guilds = ctx.Client.GuildCount()
			}
			return ctx.Reply(fmt.Sprintf(
				"📊 **Estado del Bot**\n"+
					"• Bot: 🟢 Online\n"+
					"• Base de datos: %s\n"+
					"• MQTT: %s\n"+
					"• Servidores: %d",
				info.databaseStatus(),
				info.mqttStatus(),
				guilds,
			))
		},
	)
}

func (i Info) databaseStatus() string {
	if i.DatabaseStatus == nil {
		return "⚪ Solo memoria"
	}
	return i.DatabaseStatus()
}

func (i Info) mqttStatus() string {
	switch {
	case i.MQTTConnected == nil:
		return "⚪ Deshabilitado"
	case i.MQTTConnected():
		return "🟢 Conectado"
	default:
		return "🔴 Desconectado"
	}
}
