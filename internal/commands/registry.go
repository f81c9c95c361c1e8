package commands

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	primary []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds c under its name and aliases. Any clash is an error and
// leaves the registry unchanged.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, k := range keys {
		if prev, ok := r.byName[k]; ok {
			return fmt.Errorf("command name %q already taken by %s", k, prev.Name())
		}
	}
	for _, k := range keys {
		r.byName[k] = c
	}
	r.primary = append(r.primary, c.Name())
	slices.Sort(r.primary)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All returns each command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.primary))
	for i, name := range r.primary {
		out[i] = r.byName[name]
	}
	return out
}

// DefaultRegistry holds every command registered from init.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
