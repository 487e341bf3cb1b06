package discord

import (
	"sort"
	"strings"
	"sync"
)

// ComponentHandlerFunc handles a button or select menu interaction
type ComponentHandlerFunc func(ctx *CommandContext) error

type prefixRoute struct {
	prefix  string
	handler ComponentHandlerFunc
}

// ComponentCollection routes component custom IDs to handlers, first by
// exact match and then by the longest registered prefix.
type ComponentCollection struct {
	mu       sync.RWMutex
	exact    map[string]ComponentHandlerFunc
	prefixes []prefixRoute
}

// NewComponentCollection creates an empty ComponentCollection
func NewComponentCollection() *ComponentCollection {
	return &ComponentCollection{
		exact: make(map[string]ComponentHandlerFunc),
	}
}

// Handle registers a handler for an exact custom ID
func (cc *ComponentCollection) Handle(customID string, fn ComponentHandlerFunc) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.exact[customID] = fn
}

// HandlePrefix registers a handler for every custom ID starting with prefix
func (cc *ComponentCollection) HandlePrefix(prefix string, fn ComponentHandlerFunc) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.prefixes = append(cc.prefixes, prefixRoute{prefix: prefix, handler: fn})
	sort.SliceStable(cc.prefixes, func(i, j int) bool {
		return len(cc.prefixes[i].prefix) > len(cc.prefixes[j].prefix)
	})
}

// Match returns the handler for customID
func (cc *ComponentCollection) Match(customID string) (ComponentHandlerFunc, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	if fn, ok := cc.exact[customID]; ok {
		return fn, true
	}
	for _, route := range cc.prefixes {
		if strings.HasPrefix(customID, route.prefix) {
			return route.handler, true
		}
	}
	return nil, false
}

// Size returns the number of registered routes
func (cc *ComponentCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.exact) + len(cc.prefixes)
}
