// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command registration with Discord
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())

	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// GlobalCommands returns the schema sent to Discord for global commands
func (ch *CommandHandler) GlobalCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand(nil), ch.slashCommands...)
}

// applicationID prefers the configured client ID over the session user
func (ch *CommandHandler) applicationID() string {
	if id := config.Get().ClientID; id != "" {
		return id
	}
	if ch.client.Session.State != nil && ch.client.Session.State.User != nil {
		return ch.client.Session.State.User.ID
	}
	return ""
}

// RegisterCommands overwrites the command schema on Discord. With a
// development guild configured every command goes to that guild, which
// applies instantly; otherwise commands are registered globally.
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()

	if cfg.DevGuildID != "" {
		all := ch.GlobalCommands()
		logger.Info("🔄 Registrando comandos en el servidor de desarrollo "+cfg.DevGuildID+"...", "CommandHandler")
		if _, err := ch.Overwrite(cfg.DevGuildID, all); err != nil {
			logger.Error("Error registrando comandos de desarrollo: "+err.Error(), "CommandHandler")
			return
		}
		logger.Success(fmt.Sprintf("✅ %d comandos registrados en el servidor de desarrollo.", len(all)), "CommandHandler")
		return
	}

	logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	if _, err := ch.Overwrite("", ch.slashCommands); err != nil {
		logger.Error("Error registrando comandos globales: "+err.Error(), "CommandHandler")
		return
	}
	logger.Success(fmt.Sprintf("✅ %d comandos globales registrados.", len(ch.slashCommands)), "CommandHandler")
}

// Overwrite replaces every command of the scope (global when guildID is empty)
// with cmds in a single request.
func (ch *CommandHandler) Overwrite(guildID string, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommandBulkOverwrite(ch.applicationID(), guildID, cmds)
}

// SyncCommands registers the current schema in the given scope, dropping
// stale commands along the way.
func (ch *CommandHandler) SyncCommands(guildID string) error {
	created, err := ch.Overwrite(guildID, ch.GlobalCommands())
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Comandos sincronizados: %d", len(created)), "CommandHandler")
	return nil
}

// ListGlobalCommands returns the global commands registered on Discord
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.applicationID(), "")
}

// ListGuildCommands returns the commands registered on a guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.applicationID(), guildID)
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	if _, err := ch.Overwrite("", []*discordgo.ApplicationCommand{}); err != nil {
		return err
	}
	logger.Success("Comandos globales eliminados.", "CommandHandler")
	return nil
}

// UnregisterGuildCommands removes all commands from a guild
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	if _, err := ch.Overwrite(guildID, []*discordgo.ApplicationCommand{}); err != nil {
		return err
	}
	logger.Success("Comandos del servidor "+guildID+" eliminados.", "CommandHandler")
	return nil
}
