package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler)
	
	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}

	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}

	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	if cmd.Options == nil {
		t.Fatal("Options is nil")
	}

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}

	if cmd.Options[0].Name != "test-option" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "test-option")
	}
}

// TestCommandWithPermissions verifies the permission builder methods
func TestCommandWithPermissions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithUserPermissions(discordgo.PermissionManageRoles)

	if cmd.UserPermissions != discordgo.PermissionManageRoles {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionManageRoles)
	}

	appCmd := cmd.ToApplicationCommand()
	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != discordgo.PermissionManageRoles {
		t.Errorf("DefaultMemberPermissions = %v, want %v", appCmd.DefaultMemberPermissions, discordgo.PermissionManageRoles)
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	appCmd := cmd.ToApplicationCommand()

	if appCmd == nil {
		t.Fatal("ToApplicationCommand returned nil")
	}

	if appCmd.Name != "test" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "test")
	}

	if appCmd.Description != "Test command" {
		t.Errorf("ApplicationCommand Description = %v, want %v", appCmd.Description, "Test command")
	}

	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}

	if appCmd.DefaultMemberPermissions != nil {
		t.Error("DefaultMemberPermissions should be nil without user permissions")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name   string
		member *discordgo.Member
		perms  int64
		want   bool
	}{
		{"no requirement", nil, 0, true},
		{"no member", nil, discordgo.PermissionManageGuild, false},
		{"missing bit", &discordgo.Member{Permissions: discordgo.PermissionManageRoles}, discordgo.PermissionManageGuild, false},
		{"has bit", &discordgo.Member{Permissions: discordgo.PermissionManageGuild | discordgo.PermissionSendMessages}, discordgo.PermissionManageGuild, true},
		{"administrator", &discordgo.Member{Permissions: discordgo.PermissionAdministrator}, discordgo.PermissionManageRoles, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &CommandContext{Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: tt.member}}}
			if got := ctx.HasPermission(tt.perms); got != tt.want {
				t.Errorf("HasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentCollectionMatch(t *testing.T) {
	cc := NewComponentCollection()
	var hit string
	cc.Handle("verify_me", func(ctx *CommandContext) error { hit = "verify"; return nil })
	cc.HandlePrefix("ticket_", func(ctx *CommandContext) error { hit = "ticket"; return nil })
	cc.HandlePrefix("ticket_vip_", func(ctx *CommandContext) error { hit = "vip"; return nil })

	tests := []struct {
		id   string
		want string
		ok   bool
	}{
		{"verify_me", "verify", true},
		{"ticket_billing", "ticket", true},
		{"ticket_vip_gold", "vip", true},
		{"role_select", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			hit = ""
			fn, ok := cc.Match(tt.id)
			if ok != tt.ok {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.id, ok, tt.ok)
			}
			if ok {
				_ = fn(nil)
			}
			if hit != tt.want {
				t.Errorf("Match(%q) routed to %q, want %q", tt.id, hit, tt.want)
			}
		})
	}

	if cc.Size() != 3 {
		t.Errorf("Size() = %d, want 3", cc.Size())
	}
}

func TestMatchRole(t *testing.T) {
	roles := []*discordgo.Role{{ID: "1", Name: "Admin"}, {ID: "2", Name: "Muted"}}
	if r := MatchRole(roles, "muted"); r == nil || r.ID != "2" {
		t.Errorf("MatchRole(muted) = %v", r)
	}
	if r := MatchRole(roles, "vip"); r != nil {
		t.Errorf("MatchRole(vip) = %v, want nil", r)
	}
}

func TestPrivateOverwrites(t *testing.T) {
	ow := PrivateOverwrites("g1", "u1")
	if len(ow) != 2 {
		t.Fatalf("got %d overwrites, want 2", len(ow))
	}
	if ow[0].ID != "g1" || ow[0].Deny != discordgo.PermissionViewChannel {
		t.Errorf("everyone overwrite = %+v", ow[0])
	}
	if ow[1].ID != "u1" || ow[1].Allow != discordgo.PermissionViewChannel|discordgo.PermissionSendMessages {
		t.Errorf("member overwrite = %+v", ow[1])
	}
}
