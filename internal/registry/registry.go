// Package registry provides a global registry for level factories.
// Level packs register themselves in init() functions, allowing the platform
// to discover and load levels without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-probot/internal/probot/levels"
)

// LevelInfo contains metadata about a registered level.
type LevelInfo struct {
	ID    string
	Title string
	Order int
}

// Factory builds a fresh copy of a level.
type Factory func() (levels.Level, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]LevelInfo)
	mu        sync.RWMutex
)

// Register adds a level factory to the registry.
// Typically called from a level pack's init() function.
// Panics if the ID is taken or the level does not load.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: level %q already registered", id))
	}

	lvl, err := f()
	if err != nil {
		panic(fmt.Sprintf("registry: level %q: %v", id, err))
	}

	factories[id] = f
	infos[id] = LevelInfo{ID: id, Title: lvl.Name, Order: lvl.Order}
}

// List returns information about all registered levels in play order.
func List() []LevelInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LevelInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Create loads a level by its ID.
// Returns an error if the level ID is not registered.
func Create(id string) (levels.Level, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return levels.Level{}, fmt.Errorf("registry: unknown level %q", id)
	}
	return f()
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
