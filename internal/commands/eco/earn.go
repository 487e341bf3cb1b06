package eco

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
)

func (h *handlers) dailyCommand() *discord.Command {
	return discord.NewCommand("daily", "Reclama tu recompensa diaria", category, h.daily)
}

func (h *handlers) daily(ctx *discord.CommandContext) error {
	reward, _, err := h.svc.ClaimDaily(ctx.User().ID)
	if err != nil {
		var cooldown *economy.CooldownError
		if errors.As(err, &cooldown) {
			return errors.Reject(fmt.Sprintf("⏳ Ya reclamaste tu daily hoy. Vuelve en %s.", cooldown.Remaining.Round(time.Minute)), err)
		}
		return err
	}
	return ctx.Reply(fmt.Sprintf("🎁 ¡Recibiste %d monedas del daily!", reward))
}

func (h *handlers) workCommand() *discord.Command {
	return discord.NewCommand("work", "Trabaja para ganar monedas", category, h.work)
}

func (h *handlers) work(ctx *discord.CommandContext) error {
	earned, _ := h.svc.Work(ctx.User().ID)
	return ctx.Reply(fmt.Sprintf("💼 Trabajaste y ganaste **%d monedas**!", earned))
}
