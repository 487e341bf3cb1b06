// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// messageCacheSize keeps recent messages in the state so delete and edit
// logs can show the previous content.
const messageCacheSize = 500

// discordgo.Logger is a function, route it through the bot logger
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Actions        Actions
	Commands       *CommandCollection
	Components     *ComponentCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool

	// syncSchema uploads the command schema; it runs on the first Ready only
	syncSchema func()
	syncOnce   sync.Once
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// Names returns the registered command names in order
func (cc *CommandCollection) Names() []string {
	cc.mu.RLock()
	names := make([]string, 0, len(cc.commands))
	for name := range cc.commands {
		names = append(names, name)
	}
	cc.mu.RUnlock()
	sort.Strings(names)
	return names
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient. No connection is opened until Start.
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions

	// Configure session
	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.State.MaxMessageCount = messageCacheSize
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:    session,
		Actions:    NewSessionActions(session),
		Commands:   NewCommandCollection(),
		Components: NewComponentCollection(),
		isReady:    false,
	}

	// Initialize handlers
	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)
	c.syncSchema = c.CommandHandler.RegisterCommands

	return c, nil
}

// Start opens the gateway connection. Commands are synced the first time the
// session is ready; later Ready events after a re-identify skip the upload.
func (c *ExtendedClient) Start() error {
	logger.System(fmt.Sprintf("Comandos cargados: %d, componentes: %d", c.Commands.Size(), c.Components.Size()), "Client")

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.markReady(r)
	})

	c.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		c.HandleInteraction(&CommandContext{
			Session:     s,
			Interaction: i,
			Client:      c,
			Actions:     c.Actions,
		})
	})

	c.StartTime = time.Now()

	return c.Session.Open()
}

func (c *ExtendedClient) markReady(r *discordgo.Ready) {
	c.mu.Lock()
	c.isReady = true
	c.mu.Unlock()

	if r.User != nil {
		logger.Success("Bot conectado como: "+r.User.Username, "Client")
	}
	c.syncOnce.Do(c.syncSchema)
}

// HandleInteraction routes an interaction to its command, autocomplete or
// component handler.
func (c *ExtendedClient) HandleInteraction(ctx *CommandContext) {
	defer errors.RecoverMiddleware()()

	switch ctx.Interaction.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		cmd, ok := c.Commands.Get(commandName(ctx.Interaction.ApplicationCommandData()))
		if ok && cmd.AutoComplete != nil {
			cmd.AutoComplete(ctx)
		}

	case discordgo.InteractionApplicationCommand:
		name := commandName(ctx.Interaction.ApplicationCommandData())
		cmd, ok := c.Commands.Get(name)
		if !ok {
			logger.Warn("Comando no encontrado: "+name, "Client")
			return
		}
		if !ctx.HasPermission(cmd.UserPermissions) {
			errors.LogAction("responder", ctx.ReplyEphemeral("❌ No tienes permisos suficientes para usar este comando."), "Client")
			return
		}
		c.finish("/"+name, ctx, cmd.Run(ctx))

	case discordgo.InteractionMessageComponent:
		customID := ctx.CustomID()
		fn, ok := c.Components.Match(customID)
		if !ok {
			logger.Debug("Componente sin handler: "+customID, "Client")
			return
		}
		c.finish(customID, ctx, fn(ctx))
	}
}

// finish turns a handler error into a user reply: rejections are shown as
// they are, anything else is logged and answered with a generic message.
func (c *ExtendedClient) finish(name string, ctx *CommandContext, err error) {
	if err == nil {
		return
	}
	if rej, ok := errors.AsRejection(err); ok {
		errors.LogAction("responder", ctx.ReplyEphemeral(rej.Message), "Client")
		return
	}
	logger.Error("Error ejecutando "+name+": "+err.Error(), "Client")
	errors.LogAction("responder", ctx.ReplyEphemeral("❌ Ocurrió un error inesperado."), "Client")
}

// commandName builds the full command name for subcommands
func commandName(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) > 0 {
		opt := data.Options[0]
		if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			if len(opt.Options) > 0 {
				name = data.Name + "." + opt.Name + "." + opt.Options[0].Name
			}
		} else if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			name = data.Name + "." + opt.Name
		}
	}
	return name
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// Uptime returns how long the client has been running
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// BotUser returns the bot account, nil before the first Ready
func (c *ExtendedClient) BotUser() *discordgo.User {
	if c.Session == nil || c.Session.State == nil {
		return nil
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return c.Session.State.User
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
