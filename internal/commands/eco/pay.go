package eco

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

const payUsage = "Uso: /pay user:<usuario> amount:<cantidad>"

func (h *handlers) payCommand() *discord.Command {
	return discord.NewCommand("pay", "Transfiere monedas a otro usuario", category, h.pay).
		WithOptions(
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Destinatario",
				Required:    true,
			},
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Cantidad de monedas",
				Required:    true,
			},
		)
}

func (h *handlers) pay(ctx *discord.CommandContext) error {
	target := ctx.GetUserOption("user")
	amount := ctx.GetIntOption("amount")
	if target == nil || amount == 0 {
		return errors.Reject(payUsage, nil)
	}

	if _, err := h.svc.Pay(ctx.User().ID, target.ID, amount); err != nil {
		return reject(err)
	}

	name := target.Username
	if name == "" {
		name = "<@" + target.ID + ">"
	}
	return ctx.Reply(fmt.Sprintf("✅ Transferiste **%d monedas** a %s", amount, name))
}
