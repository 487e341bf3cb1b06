package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
)

var categoryTitles = map[string]string{
	"economy": "💰 Economía",
	"levels":  "📊 Niveles",
	"admin":   "🛠️ Administración",
	"utils":   "🔧 Utilidades",
}

// createHelpCommand creates the /help command
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		category,
		helpHandler,
	)
}

// helpHandler lists the registered commands grouped by category
func helpHandler(ctx *discord.CommandContext) error {
	if ctx.Client == nil {
		return ctx.ReplyEphemeral("📖 No hay comandos registrados.")
	}

	groups := make(map[string][]*discord.Command)
	for _, name := range ctx.Client.Commands.Names() {
		cmd, _ := ctx.Client.Commands.Get(name)
		groups[cmd.Category] = append(groups[cmd.Category], cmd)
	}

	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("📖 **Ayuda de PancyCommunity**\n")
	for _, c := range categories {
		title, ok := categoryTitles[c]
		if !ok {
			title = c
		}
		fmt.Fprintf(&sb, "\n**%s**\n", title)
		for _, cmd := range groups[c] {
			fmt.Fprintf(&sb, "• `/%s` - %s\n", cmd.Name, cmd.Description)
		}
	}
	return ctx.ReplyEphemeral(sb.String())
}
