package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestGuardCountsAndRecovers(t *testing.T) {
	c, err := NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	eh := c.EventHandler

	calls := 0
	fn := guard[*discordgo.MessageCreate](eh, "MessageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		calls++
		if m.Content == "panic" {
			panic("boom")
		}
	})

	fn(nil, &discordgo.MessageCreate{Message: &discordgo.Message{Content: "hola"}})
	fn(nil, &discordgo.MessageCreate{Message: &discordgo.Message{Content: "panic"}})

	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if got := eh.Dispatched()["MessageCreate"]; got != 2 {
		t.Fatalf("Dispatched()[MessageCreate] = %d, want 2", got)
	}
}

func TestEventRegistration(t *testing.T) {
	c, err := NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	eh := c.EventHandler
	eh.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {})
	eh.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {})
	eh.OnMessageDelete(func(s *discordgo.Session, m *discordgo.MessageDelete) {})

	if eh.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", eh.Count())
	}
	want := []string{"GuildMemberAdd", "MessageDelete", "Ready"}
	got := eh.Events()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Events() = %v, want %v", got, want)
		}
	}
	if n := eh.Dispatched()["Ready"]; n != 0 {
		t.Fatalf("Ready dispatched %d times before any event", n)
	}
}

func TestReadySyncsSchemaOnce(t *testing.T) {
	c, err := NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	syncs := 0
	c.syncSchema = func() { syncs++ }

	ready := &discordgo.Ready{User: &discordgo.User{Username: "bot"}}
	c.markReady(ready)
	c.markReady(ready)

	if !c.IsReady() {
		t.Fatal("client should be ready")
	}
	if syncs != 1 {
		t.Fatalf("schema synced %d times, want 1", syncs)
	}
}
