// Package builtin registers the levels that ship with the game.
package builtin

import (
	"embed"
	"path"
	"strings"

	"github.com/vovakirdan/tui-probot/internal/probot/levels"
	"github.com/vovakirdan/tui-probot/internal/registry"
)

//go:embed data/*.yaml
var files embed.FS

func init() {
	entries, err := files.ReadDir("data")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		data, err := files.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			panic(err)
		}
		id := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		registry.Register(id, func() (levels.Level, error) {
			lvl, err := levels.Parse(data)
			if err != nil {
				return levels.Level{}, err
			}
			lvl.FilePath = "builtin:" + id
			return lvl, nil
		})
	}
}
