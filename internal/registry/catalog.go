package registry

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-probot/internal/probot/levels"
)

// Catalog lists the registered levels plus any found in a level directory.
// A directory level with the ID of a registered one replaces it.
type Catalog struct {
	loader *levels.Loader
}

// NewCatalog creates a catalog. An empty dir means registered levels only.
func NewCatalog(dir string) *Catalog {
	c := &Catalog{}
	if dir != "" {
		c.loader = levels.NewLoader(dir)
	}
	return c
}

// List returns every level in play order.
func (c *Catalog) List() ([]LevelInfo, error) {
	byID := make(map[string]LevelInfo)
	for _, info := range List() {
		byID[info.ID] = info
	}
	if c.loader != nil {
		lvls, err := c.loader.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, l := range lvls {
			byID[l.ID] = LevelInfo{ID: l.ID, Title: l.Name, Order: l.Order}
		}
	}

	result := make([]LevelInfo, 0, len(byID))
	for _, info := range byID {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Load returns a level by ID, preferring the level directory.
func (c *Catalog) Load(id string) (levels.Level, error) {
	if c.loader != nil {
		if lvl, err := c.loader.LoadByID(id); err == nil {
			return lvl, nil
		}
	}
	if Exists(id) {
		return Create(id)
	}
	return levels.Level{}, fmt.Errorf("registry: unknown level %q", id)
}
