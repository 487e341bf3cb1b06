// Package panels builds the component messages posted by admins and names
// the custom IDs their interactions are routed by.
package panels

import (
	"strings"

	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/bwmarrin/discordgo"
)

const (
	RoleSelectID = "role_select"
	TicketPrefix = "ticket_"
	VerifyID     = "verify_me"
)

// TicketCategory extracts the category from a ticket button ID
func TicketCategory(customID string) string {
	return strings.TrimPrefix(customID, TicketPrefix)
}

// ReactionRoles builds the role select menu from the configured candidates
func ReactionRoles(roles []config.ReactionOption) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(roles))
	for _, r := range roles {
		options = append(options, discordgo.SelectMenuOption{
			Label:       r.Label,
			Value:       r.RoleID,
			Description: r.Description,
		})
	}
	minValues := 0
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    RoleSelectID,
				Placeholder: "Elige tus roles...",
				MinValues:   &minValues,
				MaxValues:   len(options),
				Options:     options,
			},
		}},
	}
}

// Tickets builds one button per ticket category
func Tickets(categories []config.TicketCategory) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, discordgo.Button{
			CustomID: TicketPrefix + c.ID,
			Label:    c.Label,
			Style:    buttonStyle(c.Style),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// Verify builds the verification button
func Verify() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: VerifyID, Label: "Verificar", Style: discordgo.SuccessButton},
		}},
	}
}

func buttonStyle(name string) discordgo.ButtonStyle {
	switch strings.ToLower(name) {
	case "success":
		return discordgo.SuccessButton
	case "secondary":
		return discordgo.SecondaryButton
	case "danger":
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}
