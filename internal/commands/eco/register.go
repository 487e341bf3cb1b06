// Package eco provides the economy slash commands
package eco

import (
	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
)

const category = "economy"

type handlers struct {
	svc *economy.Service
	pub mqtt.Publisher
}

// Commands builds the economy commands
func Commands(svc *economy.Service, pub mqtt.Publisher) []*discord.Command {
	if pub == nil {
		pub = mqtt.Nop{}
	}
	h := &handlers{svc: svc, pub: pub}
	return []*discord.Command{
		h.balanceCommand(),
		h.dailyCommand(),
		h.workCommand(),
		h.payCommand(),
		h.leaderboardCommand(),
		h.shopCommand(),
		h.buyCommand(),
		h.inventoryCommand(),
		h.gambleCommand(),
	}
}

// RegisterEconomyCommands registers the economy commands with the client
func RegisterEconomyCommands(client *discord.ExtendedClient, svc *economy.Service, pub mqtt.Publisher) {
	for _, cmd := range Commands(svc, pub) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}

// reject turns a domain error into the message shown to the user
func reject(err error) error {
	switch {
	case errors.Is(err, economy.ErrInvalidAmount):
		return errors.Reject("❌ La cantidad debe ser mayor que 0.", err)
	case errors.Is(err, economy.ErrInsufficientFunds):
		return errors.Reject("❌ Saldo insuficiente.", err)
	case errors.Is(err, economy.ErrUnknownItem):
		return errors.Reject("❌ Item no encontrado.", err)
	}
	return err
}
