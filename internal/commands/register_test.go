package commands_test

import (
	"strings"
	"testing"

	"github.com/PancyStudios/PancyCommunityGo/internal/commands"
	"github.com/PancyStudios/PancyCommunityGo/internal/commands/utils"
	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/internal/leveling"
	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord/discordtest"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

// lastRand always returns the highest value: work pays WorkMax and every
// coin flip is lost.
type lastRand struct{}

func (lastRand) IntN(n int) int { return n - 1 }

type publisher struct{ kinds []string }

func (p *publisher) PublishEvent(kind string, _ interface{}) { p.kinds = append(p.kinds, kind) }

type harness struct {
	client *discord.ExtendedClient
	fake   *discordtest.Actions
	store  *store.Store
	eco    *economy.Service
	levels *leveling.Service
	pub    *publisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := discord.NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	fake := discordtest.New()
	c.Actions = fake

	gc := config.DefaultGuildConfig()
	st := store.New()
	h := &harness{
		client: c,
		fake:   fake,
		store:  st,
		eco:    economy.NewService(st, economy.WithCatalog(gc.Shop), economy.WithRand(lastRand{})),
		levels: leveling.NewService(st, lastRand{}),
		pub:    &publisher{},
	}
	commands.RegisterAll(c, commands.Services{
		Economy:   h.eco,
		Leveling:  h.levels,
		Guild:     &gc,
		Publisher: h.pub,
		Info:      utils.Info{StoreStats: st.Stats},
	})
	return h
}

func (h *harness) run(member *discordgo.Member, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) (string, bool) {
	ic := discordtest.Command("g1", member, discordgo.ApplicationCommandInteractionData{Name: name, Options: opts})
	ctx := discordtest.Context(ic, h.fake)
	ctx.Client = h.client
	h.client.HandleInteraction(ctx)
	return h.fake.LastReply()
}

var alice = discordtest.Member("u1", "alice", 0)

func TestCommandSurface(t *testing.T) {
	h := newHarness(t)
	want := []string{
		"balance", "buy", "daily", "gamble", "help", "inventory", "leaderboard", "level",
		"pay", "ping", "postreactionpanel", "postticketpanel", "postverifypanel",
		"setlevelreward", "shop", "stats", "status", "work",
	}
	got := h.client.Commands.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("commands = %v\nwant %v", got, want)
	}
	if n := len(h.client.CommandHandler.GlobalCommands()); n != len(want) {
		t.Fatalf("schema has %d commands, want %d", n, len(want))
	}
}

func TestDailyOnce(t *testing.T) {
	h := newHarness(t)
	if content, _ := h.run(alice, "daily"); !strings.Contains(content, "300") {
		t.Fatalf("first daily = %q", content)
	}
	content, ephemeral := h.run(alice, "daily")
	if !ephemeral || !strings.Contains(content, "Ya reclamaste") {
		t.Fatalf("second daily = %q ephemeral=%v", content, ephemeral)
	}
	if got := h.eco.Balance("u1"); got != 300 {
		t.Fatalf("balance = %d, want 300", got)
	}
}

func TestWorkAndBalance(t *testing.T) {
	h := newHarness(t)
	if content, _ := h.run(alice, "work"); !strings.Contains(content, "199") {
		t.Fatalf("work = %q", content)
	}
	if content, _ := h.run(alice, "balance"); !strings.Contains(content, "199") {
		t.Fatalf("balance = %q", content)
	}
}

func TestPay(t *testing.T) {
	h := newHarness(t)
	h.eco.Credit("u1", 100)

	content, ephemeral := h.run(alice, "pay", discordtest.UserOption("user", "u2"), discordtest.IntOption("amount", 150))
	if !ephemeral || !strings.Contains(content, "Saldo insuficiente") {
		t.Fatalf("overdraft = %q ephemeral=%v", content, ephemeral)
	}
	content, ephemeral = h.run(alice, "pay", discordtest.UserOption("user", "u2"), discordtest.IntOption("amount", 0))
	if !ephemeral || !strings.Contains(content, "Uso: /pay") {
		t.Fatalf("zero amount = %q ephemeral=%v", content, ephemeral)
	}
	content, ephemeral = h.run(alice, "pay", discordtest.UserOption("user", "u2"))
	if !ephemeral || !strings.Contains(content, "Uso: /pay") {
		t.Fatalf("missing amount = %q ephemeral=%v", content, ephemeral)
	}
	content, ephemeral = h.run(alice, "pay", discordtest.UserOption("user", "u2"), discordtest.IntOption("amount", -5))
	if !ephemeral || !strings.Contains(content, "mayor que 0") {
		t.Fatalf("negative amount = %q ephemeral=%v", content, ephemeral)
	}
	if h.eco.Balance("u1") != 100 || h.eco.Balance("u2") != 0 {
		t.Fatal("rejected payment changed balances")
	}

	if content, _ := h.run(alice, "pay", discordtest.UserOption("user", "u2"), discordtest.IntOption("amount", 40)); !strings.Contains(content, "40") {
		t.Fatalf("pay = %q", content)
	}
	if h.eco.Balance("u1") != 60 || h.eco.Balance("u2") != 40 {
		t.Fatalf("balances = %d/%d, want 60/40", h.eco.Balance("u1"), h.eco.Balance("u2"))
	}
}

func TestBuyRoleItem(t *testing.T) {
	h := newHarness(t)
	h.eco.Credit("u1", 500)

	if content, _ := h.run(alice, "buy", discordtest.StringOption("item", "role_vip")); !strings.Contains(content, "VIP Role") {
		t.Fatalf("buy = %q", content)
	}
	if h.eco.Balance("u1") != 0 {
		t.Fatalf("balance = %d, want 0", h.eco.Balance("u1"))
	}
	if inv := h.eco.Inventory("u1"); len(inv) != 1 || inv[0] != "role_vip" {
		t.Fatalf("inventory = %v", inv)
	}
	if len(h.fake.RolesAdded) != 1 || h.fake.RolesAdded[0].RoleID != "VIP_ROLE_ID" {
		t.Fatalf("roles = %+v", h.fake.RolesAdded)
	}
	if len(h.pub.kinds) != 1 || h.pub.kinds[0] != "purchase" {
		t.Fatalf("published %v", h.pub.kinds)
	}

	if content, _ := h.run(alice, "inventory"); !strings.Contains(content, "role_vip") {
		t.Fatalf("inventory = %q", content)
	}
}

func TestBuyRejections(t *testing.T) {
	h := newHarness(t)
	content, ephemeral := h.run(alice, "buy", discordtest.StringOption("item", "nope"))
	if !ephemeral || !strings.Contains(content, "no encontrado") {
		t.Fatalf("unknown item = %q", content)
	}
	content, ephemeral = h.run(alice, "buy", discordtest.StringOption("item", "custom_name"))
	if !ephemeral || !strings.Contains(content, "Saldo insuficiente") {
		t.Fatalf("poor buyer = %q", content)
	}
	if len(h.eco.Inventory("u1")) != 0 {
		t.Fatal("rejected purchase changed the inventory")
	}
}

func TestBuyAutocomplete(t *testing.T) {
	h := newHarness(t)
	opt := discordtest.StringOption("item", "vip")
	opt.Focused = true
	ic := discordtest.Autocomplete("g1", alice, discordgo.ApplicationCommandInteractionData{
		Name:    "buy",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{opt},
	})
	ctx := discordtest.Context(ic, h.fake)
	ctx.Client = h.client
	h.client.HandleInteraction(ctx)

	resp := h.fake.LastResponse()
	if resp == nil || resp.Type != discordgo.InteractionApplicationCommandAutocompleteResult {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Data.Choices) != 1 || resp.Data.Choices[0].Value != "role_vip" {
		t.Fatalf("choices = %+v", resp.Data.Choices)
	}
}

func TestGamble(t *testing.T) {
	h := newHarness(t)
	h.eco.Credit("u1", 50)

	content, ephemeral := h.run(alice, "gamble", discordtest.IntOption("amount", 100))
	if !ephemeral || !strings.Contains(content, "Saldo insuficiente") {
		t.Fatalf("gamble over balance = %q", content)
	}
	if h.eco.Balance("u1") != 50 {
		t.Fatal("rejected gamble changed the balance")
	}

	if content, _ := h.run(alice, "gamble", discordtest.IntOption("amount", 20)); !strings.Contains(content, "Perdiste") {
		t.Fatalf("gamble = %q", content)
	}
	if h.eco.Balance("u1") != 30 {
		t.Fatalf("balance = %d, want 30", h.eco.Balance("u1"))
	}
}

func TestLeaderboard(t *testing.T) {
	h := newHarness(t)
	if content, _ := h.run(alice, "leaderboard"); !strings.Contains(content, "Todavía no hay datos") {
		t.Fatalf("empty leaderboard = %q", content)
	}

	h.eco.Credit("u1", 10)
	h.eco.Credit("u2", 30)
	h.run(alice, "leaderboard")
	resp := h.fake.LastResponse()
	if len(resp.Data.Embeds) != 1 {
		t.Fatalf("response = %+v", resp.Data)
	}
	desc := resp.Data.Embeds[0].Description
	if strings.Index(desc, "<@u2>") > strings.Index(desc, "<@u1>") {
		t.Fatalf("leaderboard order wrong:\n%s", desc)
	}
}

func TestShop(t *testing.T) {
	h := newHarness(t)
	content, _ := h.run(alice, "shop")
	if !strings.Contains(content, "role_vip") || !strings.Contains(content, "custom_name") {
		t.Fatalf("shop = %q", content)
	}
}

func TestLevelCommands(t *testing.T) {
	h := newHarness(t)
	if content, _ := h.run(alice, "level"); !strings.Contains(content, "**1**") || !strings.Contains(content, "0/100") {
		t.Fatalf("level = %q", content)
	}

	content, ephemeral := h.run(alice, "setlevelreward", discordtest.IntOption("level", 5), discordtest.RoleOption("role", "r5"))
	if !ephemeral || !strings.Contains(content, "permisos") {
		t.Fatalf("unprivileged setlevelreward = %q", content)
	}
	if len(h.levels.Rewards()) != 0 {
		t.Fatal("reward set without permission")
	}

	mod := discordtest.Member("u9", "mod", discordgo.PermissionManageRoles)
	content, _ = h.run(mod, "setlevelreward", discordtest.IntOption("level", 0), discordtest.RoleOption("role", "r5"))
	if !strings.Contains(content, "1 o mayor") {
		t.Fatalf("level 0 = %q", content)
	}

	h.run(mod, "setlevelreward", discordtest.IntOption("level", 5), discordtest.RoleOption("role", "r5"))
	if rewards := h.levels.Rewards(); len(rewards) != 1 || rewards[0].RoleID != "r5" {
		t.Fatalf("rewards = %+v", rewards)
	}
}

func TestPanelCommands(t *testing.T) {
	h := newHarness(t)
	if content, ephemeral := h.run(alice, "postticketpanel"); !ephemeral || !strings.Contains(content, "permisos") {
		t.Fatalf("unprivileged panel = %q", content)
	}

	admin := discordtest.Member("u9", "admin", discordgo.PermissionAdministrator)
	h.run(admin, "postreactionpanel")
	if len(h.fake.Messages) != 1 || h.fake.Messages[0].ChannelID != "REACTION_ROLE_CHANNEL_ID" {
		t.Fatalf("messages = %+v", h.fake.Messages)
	}

	h.run(admin, "postticketpanel")
	if resp := h.fake.LastResponse(); len(resp.Data.Components) != 1 {
		t.Fatalf("ticket panel = %+v", resp.Data)
	}
	h.run(admin, "postverifypanel")
	if resp := h.fake.LastResponse(); len(resp.Data.Components) != 1 {
		t.Fatalf("verify panel = %+v", resp.Data)
	}
}

func TestUtilityCommands(t *testing.T) {
	h := newHarness(t)
	if content, _ := h.run(alice, "ping"); !strings.Contains(content, "Pong") {
		t.Fatalf("ping = %q", content)
	}
	if content, _ := h.run(alice, "help"); !strings.Contains(content, "/daily") || !strings.Contains(content, "/postverifypanel") {
		t.Fatalf("help = %q", content)
	}
	if content, _ := h.run(alice, "status"); !strings.Contains(content, "Solo memoria") || !strings.Contains(content, "Deshabilitado") {
		t.Fatalf("status = %q", content)
	}
	h.run(alice, "stats")
	if resp := h.fake.LastResponse(); len(resp.Data.Embeds) != 1 {
		t.Fatalf("stats = %+v", resp.Data)
	}
}
