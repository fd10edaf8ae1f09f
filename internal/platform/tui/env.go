package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-probot/internal/config"
	"github.com/vovakirdan/tui-probot/internal/probot/engine"
	"github.com/vovakirdan/tui-probot/internal/probot/layout"
	"github.com/vovakirdan/tui-probot/internal/registry"
	"github.com/vovakirdan/tui-probot/internal/storage"
)

// Publisher receives frames for spectators.
type Publisher interface {
	SetLevel(id string)
	Publish(f engine.Frame)
}

// Env is what every screen of a session shares. Store, Spectate and
// LayoutRoot are optional.
type Env struct {
	Config     config.ProBotConfig
	Catalog    *registry.Catalog
	Store      *storage.Store
	LayoutRoot string // already expanded
	Player     string
	Logger     *log.Logger
	Spectate   Publisher
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

func (e Env) player() string {
	if e.Player == "" {
		return "player"
	}
	return e.Player
}

// layouts returns the player's layout store, or nil when layouts are off.
func (e Env) layouts() *layout.Store {
	if e.LayoutRoot == "" {
		return nil
	}
	return layout.ForPlayer(e.LayoutRoot, e.player(), e.Config.Layout.MaxRecords)
}

func (e Env) catalog() *registry.Catalog {
	if e.Catalog == nil {
		return registry.NewCatalog("")
	}
	return e.Catalog
}
