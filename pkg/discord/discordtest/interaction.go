package discordtest

import (
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// Member returns a guild member with the given permission bits
func Member(userID, username string, perms int64) *discordgo.Member {
	return &discordgo.Member{
		User:        &discordgo.User{ID: userID, Username: username},
		Permissions: perms,
	}
}

// Command builds a slash command interaction
func Command(guildID string, member *discordgo.Member, data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: "chan",
		Member:    member,
		Data:      data,
	}}
}

// Autocomplete builds an autocomplete interaction
func Autocomplete(guildID string, member *discordgo.Member, data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	ic := Command(guildID, member, data)
	ic.Type = discordgo.InteractionApplicationCommandAutocomplete
	return ic
}

// Component builds a button or select menu interaction
func Component(guildID string, member *discordgo.Member, customID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i1",
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   guildID,
		ChannelID: "chan",
		Member:    member,
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}}
}

// IntOption builds an integer option; the gateway sends numbers as float64
func IntOption(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

// StringOption builds a string option
func StringOption(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: v,
	}
}

// UserOption builds a user option carrying the user ID
func UserOption(name, userID string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: userID,
	}
}

// RoleOption builds a role option carrying the role ID
func RoleOption(name, roleID string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionRole,
		Value: roleID,
	}
}

// Context wires an interaction to the fake actions
func Context(i *discordgo.InteractionCreate, actions *Actions) *discord.CommandContext {
	return &discord.CommandContext{Interaction: i, Actions: actions}
}
