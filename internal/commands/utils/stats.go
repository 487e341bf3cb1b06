package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /stats command
func createStatsCommand(info Info) *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		category,
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEmbed(statsEmbed(ctx.Client, info))
		},
	)
}

// statsEmbed builds the /stats embed. client may be nil.
func statsEmbed(client *discord.ExtendedClient, info Info) *discordgo.MessageEmbed {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	guildCount, memberCount := 0, 0
	var uptime time.Duration
	footer := &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"}
	if client != nil {
		guildCount = client.GuildCount()
		uptime = client.Uptime()
		if state := client.Session.State; state != nil {
			for _, guild := range state.Guilds {
				memberCount += guild.MemberCount
			}
			if state.User != nil {
				footer.IconURL = state.User.AvatarURL("")
			}
		}
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "🤖 Versión del Bot", Value: config.Version, Inline: true},
		{Name: "🐹 Versión de Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
		{Name: "📚 Versión de DiscordGo", Value: discordgo.VERSION, Inline: true},
		{Name: "🖥 Uso de RAM", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
		{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d Goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
		{Name: "⏱ Uptime", Value: formatDuration(uptime), Inline: true},
		{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", guildCount), Inline: true},
		{Name: "👥 Miembros", Value: fmt.Sprintf("%d", memberCount), Inline: true},
	}
	if info.StoreStats != nil {
		st := info.StoreStats()
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "💰 Cuentas", Value: fmt.Sprintf("%d", st.Accounts), Inline: true},
			&discordgo.MessageEmbedField{Name: "📊 Usuarios con nivel", Value: fmt.Sprintf("%d", st.Levels), Inline: true},
			&discordgo.MessageEmbedField{Name: "🏅 Recompensas", Value: fmt.Sprintf("%d", st.Rewards), Inline: true},
		)
	}

	return &discordgo.MessageEmbed{
		Title:     "📊 Estadísticas del Bot",
		Color:     0x5865F2,
		Fields:    fields,
		Footer:    footer,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
