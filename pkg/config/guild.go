package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
	"gopkg.in/yaml.v3"
)

// GuildConfig describes the layout of the community server
type GuildConfig struct {
	Channels   ChannelsConfig    `yaml:"channels"`
	Roles      RolesConfig       `yaml:"roles"`
	Moderation ModerationConfig  `yaml:"moderation"`
	Economy    EconomyConfig     `yaml:"economy"`
	Tickets    []TicketCategory  `yaml:"tickets"`
	Shop       []models.ShopItem `yaml:"shop"`
}

type ChannelsConfig struct {
	Welcome      string `yaml:"welcome"`
	Log          string `yaml:"log"`
	ReactionRole string `yaml:"reaction_role"`
	Verification string `yaml:"verification"`
}

type RolesConfig struct {
	Auto     string           `yaml:"auto"`
	Verified string           `yaml:"verified"`
	Muted    string           `yaml:"muted_name"`
	Reaction []ReactionOption `yaml:"reaction"`
}

// ReactionOption is one entry of the role select menu
type ReactionOption struct {
	Label       string `yaml:"label"`
	RoleID      string `yaml:"role_id"`
	Description string `yaml:"description"`
}

type ModerationConfig struct {
	BannedWords         []string `yaml:"banned_words"`
	LinkWhitelist       []string `yaml:"link_whitelist"`
	SpamLimit           int      `yaml:"spam_limit"`
	SpamIntervalSeconds int      `yaml:"spam_interval_seconds"`
}

// SpamInterval returns the spam window as a duration
func (m ModerationConfig) SpamInterval() time.Duration {
	return time.Duration(m.SpamIntervalSeconds) * time.Second
}

type EconomyConfig struct {
	DailyReward int64 `yaml:"daily_reward"`
}

// TicketCategory is one button of the ticket panel
type TicketCategory struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Style string `yaml:"style"`
}

var (
	guild     *GuildConfig
	guildOnce sync.Once
	guildErr  error
)

// DefaultGuildConfig returns the placeholder layout used when no file exists
func DefaultGuildConfig() GuildConfig {
	return GuildConfig{
		Channels: ChannelsConfig{
			Welcome:      "WELCOME_CHANNEL_ID",
			Log:          "LOG_CHANNEL_ID",
			ReactionRole: "REACTION_ROLE_CHANNEL_ID",
			Verification: "VERIFICATION_CHANNEL_ID",
		},
		Roles: RolesConfig{
			Auto:     "AUTO_ROLE_ID",
			Verified: "VERIFIED_ROLE_ID",
			Muted:    "muted",
			Reaction: []ReactionOption{
				{Label: "Role A", RoleID: "ROLE_A_ID", Description: "Rol de ejemplo A"},
				{Label: "Role B", RoleID: "ROLE_B_ID", Description: "Rol de ejemplo B"},
			},
		},
		Moderation: ModerationConfig{
			BannedWords:         []string{"anjing", "bangsat", "kontol", "memek"},
			LinkWhitelist:       []string{"discord.gg", "discord.com", "yourdomain.com"},
			SpamLimit:           5,
			SpamIntervalSeconds: 8,
		},
		Economy: EconomyConfig{DailyReward: 300},
		Tickets: []TicketCategory{
			{ID: "billing", Label: "Billing", Style: "primary"},
			{ID: "support", Label: "Support", Style: "success"},
			{ID: "other", Label: "Other", Style: "secondary"},
		},
		Shop: []models.ShopItem{
			{ID: "role_vip", Name: "VIP Role", Price: 500, Type: models.ShopItemRole, RoleID: "VIP_ROLE_ID"},
			{ID: "custom_name", Name: "Custom Name (demo)", Price: 300, Type: models.ShopItemItem},
		},
	}
}

// LoadGuildConfig reads the YAML layout at path over the defaults.
// A missing file is not an error.
func LoadGuildConfig(path string) (*GuildConfig, error) {
	gc := DefaultGuildConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &gc, nil
		}
		return nil, fmt.Errorf("error leyendo %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &gc); err != nil {
		return nil, fmt.Errorf("error parseando %s: %w", path, err)
	}

	if gc.Moderation.SpamLimit <= 0 {
		gc.Moderation.SpamLimit = 5
	}
	if gc.Moderation.SpamIntervalSeconds <= 0 {
		gc.Moderation.SpamIntervalSeconds = 8
	}
	if gc.Economy.DailyReward <= 0 {
		gc.Economy.DailyReward = 300
	}
	if gc.Roles.Muted == "" {
		gc.Roles.Muted = "muted"
	}
	return &gc, nil
}

// Guild returns the guild layout, loading it once from GuildConfigPath
func Guild() (*GuildConfig, error) {
	guildOnce.Do(func() {
		guild, guildErr = LoadGuildConfig(Get().GuildConfigPath)
	})
	return guild, guildErr
}

// ReactionRoleIDs returns the candidate roles of the select menu
func (g *GuildConfig) ReactionRoleIDs() []string {
	ids := make([]string, 0, len(g.Roles.Reaction))
	for _, opt := range g.Roles.Reaction {
		ids = append(ids, opt.RoleID)
	}
	return ids
}
