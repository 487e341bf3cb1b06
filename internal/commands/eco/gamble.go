package eco

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) gambleCommand() *discord.Command {
	return discord.NewCommand("gamble", "Apuesta monedas a cara o cruz", category, h.gamble).
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "Cantidad a apostar",
			Required:    true,
		})
}

func (h *handlers) gamble(ctx *discord.CommandContext) error {
	res, err := h.svc.Gamble(ctx.User().ID, ctx.GetIntOption("amount"))
	if err != nil {
		return reject(err)
	}
	if res.Won {
		return ctx.Reply(fmt.Sprintf("🎉 ¡Ganaste! +%d monedas", res.Amount))
	}
	return ctx.Reply(fmt.Sprintf("😢 ¡Perdiste! -%d monedas", res.Amount))
}
