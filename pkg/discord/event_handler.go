// Package discord provides the event handler for managing Discord events.
package discord

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler registers gateway handlers on the session. Every handler is
// wrapped so a panic is recovered at the boundary and each dispatch is
// counted under the event name.
type EventHandler struct {
	client *ExtendedClient

	mu     sync.RWMutex
	counts map[string]*atomic.Uint64
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		counts: make(map[string]*atomic.Uint64),
	}
}

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// MessageCreateHandler is called when a message is created
type MessageCreateHandler func(s *discordgo.Session, m *discordgo.MessageCreate)

// MessageUpdateHandler is called when a message is edited
type MessageUpdateHandler func(s *discordgo.Session, m *discordgo.MessageUpdate)

// MessageDeleteHandler is called when a message is deleted
type MessageDeleteHandler func(s *discordgo.Session, m *discordgo.MessageDelete)

// GuildMemberAddHandler is called when a member joins the guild
type GuildMemberAddHandler func(s *discordgo.Session, m *discordgo.GuildMemberAdd)

// GuildMemberRemoveHandler is called when a member leaves the guild
type GuildMemberRemoveHandler func(s *discordgo.Session, m *discordgo.GuildMemberRemove)

// counter returns the dispatch counter of an event, creating it
func (eh *EventHandler) counter(name string) *atomic.Uint64 {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	c, ok := eh.counts[name]
	if !ok {
		c = new(atomic.Uint64)
		eh.counts[name] = c
	}
	return c
}

// guard wraps fn with panic recovery and the dispatch counter. The returned
// value has the plain func type discordgo switches on; the named handler
// types above would not match it.
func guard[E any](eh *EventHandler, name string, fn func(*discordgo.Session, E)) func(*discordgo.Session, E) {
	c := eh.counter(name)
	return func(s *discordgo.Session, e E) {
		defer errors.RecoverMiddleware()()
		c.Add(1)
		fn(s, e)
	}
}

func (eh *EventHandler) add(name string, handler interface{}) {
	eh.client.Session.AddHandler(handler)
	logger.Debug("Evento '"+name+"' registrado", "EventHandler")
}

// Count returns the number of distinct events with a handler
func (eh *EventHandler) Count() int {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return len(eh.counts)
}

// Dispatched returns how many times each event has been handled
func (eh *EventHandler) Dispatched() map[string]uint64 {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	out := make(map[string]uint64, len(eh.counts))
	for name, c := range eh.counts {
		out[name] = c.Load()
	}
	return out
}

// Events returns the registered event names in order
func (eh *EventHandler) Events() []string {
	eh.mu.RLock()
	names := make([]string, 0, len(eh.counts))
	for name := range eh.counts {
		names = append(names, name)
	}
	eh.mu.RUnlock()
	sort.Strings(names)
	return names
}

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.add("Ready", guard[*discordgo.Ready](eh, "Ready", handler))
}

// OnMessageCreate registers a message create event handler
func (eh *EventHandler) OnMessageCreate(handler MessageCreateHandler) {
	eh.add("MessageCreate", guard[*discordgo.MessageCreate](eh, "MessageCreate", handler))
}

// OnMessageUpdate registers a message update event handler
func (eh *EventHandler) OnMessageUpdate(handler MessageUpdateHandler) {
	eh.add("MessageUpdate", guard[*discordgo.MessageUpdate](eh, "MessageUpdate", handler))
}

// OnMessageDelete registers a message delete event handler
func (eh *EventHandler) OnMessageDelete(handler MessageDeleteHandler) {
	eh.add("MessageDelete", guard[*discordgo.MessageDelete](eh, "MessageDelete", handler))
}

// OnGuildMemberAdd registers a guild member add event handler
func (eh *EventHandler) OnGuildMemberAdd(handler GuildMemberAddHandler) {
	eh.add("GuildMemberAdd", guard[*discordgo.GuildMemberAdd](eh, "GuildMemberAdd", handler))
}

// OnGuildMemberRemove registers a guild member remove event handler
func (eh *EventHandler) OnGuildMemberRemove(handler GuildMemberRemoveHandler) {
	eh.add("GuildMemberRemove", guard[*discordgo.GuildMemberRemove](eh, "GuildMemberRemove", handler))
}
