package command

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/tern-ai/tern/internal/event"
	"github.com/tern-ai/tern/internal/logging"
)

// Registry owns the name-to-command map shared between executor calls
// and the background watcher. Reads proceed concurrently; a reload
// rebuilds the map under one write lock acquisition so no reader ever
// observes a mix of old and new entries.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command

	dir    string
	loader *Loader
}

// NewRegistry creates the commands directory if needed and performs
// one initial load. An unusable directory is a fatal error.
func NewRegistry(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create commands directory %s: %w", dir, err)
	}

	r := &Registry{
		commands: make(map[string]*Command),
		dir:      dir,
		loader:   NewLoader(dir),
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Dir returns the commands directory this registry scans.
func (r *Registry) Dir() string {
	return r.dir
}

// Reload re-scans the commands directory and swaps in a fresh map.
// Built-in commands registered via Register survive reloads; file
// commands removed from disk disappear.
func (r *Registry) Reload() error {
	loaded, err := r.loader.Scan()
	if err != nil {
		return err
	}

	r.mu.Lock()
	builtins := make([]*Command, 0)
	for _, cmd := range r.commands {
		if cmd.Source == SourceBuiltin {
			builtins = append(builtins, cmd)
		}
	}

	r.commands = make(map[string]*Command, len(loaded)+len(builtins))
	for _, cmd := range builtins {
		r.commands[cmd.Meta.Name] = cmd
	}
	for _, cmd := range loaded {
		r.commands[cmd.Meta.Name] = cmd
	}
	count := len(r.commands)
	r.mu.Unlock()

	logging.Debug().Int("count", count).Str("dir", r.dir).Msg("command registry reloaded")

	event.Publish(event.New(event.RegistryReloaded, event.RegistryReloadedData{Count: count}))
	return nil
}

// Register adds or overwrites a single command without a full rescan.
func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	r.commands[cmd.Meta.Name] = cmd
	r.mu.Unlock()

	event.Publish(event.New(event.CommandRegistered, event.CommandRegisteredData{
		Command: cmd.Meta.Name,
		Source:  string(cmd.Source),
	}))
}

// Get returns a clone of the named command, safe to use independently
// of subsequent reloads.
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	if !ok {
		return nil, false
	}
	return cmd.Clone(), true
}

// List returns a snapshot of all commands sorted by name.
func (r *Registry) List() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		list = append(list, cmd.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Meta.Name < list[j].Meta.Name
	})
	return list
}

// FilterByCategory returns a snapshot of the commands in a category,
// sorted by name.
func (r *Registry) FilterByCategory(category string) []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*Command
	for _, cmd := range r.commands {
		if cmd.Meta.Category == category {
			list = append(list, cmd.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Meta.Name < list[j].Meta.Name
	})
	return list
}

// Names returns the sorted registered command names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maxSuggestionDistance caps how far a "did you mean" candidate may be
// from the requested name.
const maxSuggestionDistance = 3

// Nearest returns the registered name closest to the given one, or ""
// when nothing is close enough to suggest.
func (r *Registry) Nearest(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	bestDist := maxSuggestionDistance + 1
	for candidate := range r.commands {
		dist := levenshtein.ComputeDistance(name, candidate)
		if dist < bestDist || (dist == bestDist && candidate < best) {
			best = candidate
			bestDist = dist
		}
	}
	if bestDist > maxSuggestionDistance {
		return ""
	}
	return best
}
