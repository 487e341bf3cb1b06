package eco

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) balanceCommand() *discord.Command {
	return discord.NewCommand("balance", "Muestra tu saldo", category, h.balance)
}

func (h *handlers) balance(ctx *discord.CommandContext) error {
	return ctx.Reply(fmt.Sprintf("💰 Saldo: **%d monedas**", h.svc.Balance(ctx.User().ID)))
}

func (h *handlers) inventoryCommand() *discord.Command {
	return discord.NewCommand("inventory", "Muestra tu inventario", category, h.inventory)
}

func (h *handlers) inventory(ctx *discord.CommandContext) error {
	items := h.svc.Inventory(ctx.User().ID)
	if len(items) == 0 {
		return ctx.Reply("📦 Inventario: Vacío")
	}
	return ctx.Reply("📦 Inventario: " + strings.Join(items, ", "))
}

func (h *handlers) leaderboardCommand() *discord.Command {
	return discord.NewCommand("leaderboard", "Top 10 de la economía", category, h.leaderboard)
}

func (h *handlers) leaderboard(ctx *discord.CommandContext) error {
	top := h.svc.Leaderboard()
	if len(top) == 0 {
		return ctx.Reply("📉 Todavía no hay datos en el leaderboard.")
	}

	var sb strings.Builder
	for i, acc := range top {
		fmt.Fprintf(&sb, "**%d.** <@%s> • **%d** monedas\n", i+1, acc.UserID, acc.Coins)
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🏆 Top 10 Economía",
		Description: sb.String(),
		Color:       0xF1C40F,
	})
}
