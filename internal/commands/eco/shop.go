package eco

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// PurchaseEvent is published on community/events/purchase
type PurchaseEvent struct {
	GuildID string `json:"guildId"`
	UserID  string `json:"userId"`
	ItemID  string `json:"itemId"`
	Price   int64  `json:"price"`
	Balance int64  `json:"balance"`
}

// maxChoices is the autocomplete limit imposed by Discord
const maxChoices = 25

func (h *handlers) shopCommand() *discord.Command {
	return discord.NewCommand("shop", "Muestra la tienda", category, h.shop)
}

func (h *handlers) shop(ctx *discord.CommandContext) error {
	var sb strings.Builder
	sb.WriteString("**Tienda:**\n")
	for _, item := range h.svc.Shop() {
		fmt.Fprintf(&sb, "• **%s** • %d monedas (id: %s)\n", item.Name, item.Price, item.ID)
	}
	return ctx.Reply(sb.String())
}

func (h *handlers) buyCommand() *discord.Command {
	return discord.NewCommand("buy", "Compra un item de la tienda", category, h.buy).
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "item",
			Description:  "ID del item",
			Required:     true,
			Autocomplete: true,
		}).
		WithAutoComplete(h.buyAutocomplete)
}

func (h *handlers) buy(ctx *discord.CommandContext) error {
	user := ctx.User()
	item, balance, err := h.svc.Buy(user.ID, ctx.GetStringOption("item"))
	if err != nil {
		return reject(err)
	}

	if item.GrantsRole() && ctx.Interaction.GuildID != "" {
		errors.LogAction("asignar rol comprado", ctx.Actions.AddRole(ctx.Interaction.GuildID, user.ID, item.RoleID), "Shop")
	}
	logger.Info(fmt.Sprintf("🛒 %s compró %s", user.ID, item.ID), "Shop")

	h.pub.PublishEvent(mqtt.EventPurchase, PurchaseEvent{
		GuildID: ctx.Interaction.GuildID,
		UserID:  user.ID,
		ItemID:  item.ID,
		Price:   item.Price,
		Balance: balance,
	})
	return ctx.Reply(fmt.Sprintf("✅ Compraste **%s**", item.Name))
}

func (h *handlers) buyAutocomplete(ctx *discord.CommandContext) {
	query := ""
	if opt := ctx.FocusedOption(); opt != nil {
		query = opt.StringValue()
	}

	items := h.svc.SearchItems(query)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(items))
	for _, item := range items {
		if len(choices) == maxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%d monedas)", item.Name, item.Price),
			Value: item.ID,
		})
	}
	errors.LogAction("responder autocompletado", ctx.RespondChoices(choices), "Shop")
}
