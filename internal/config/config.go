// Package config provides YAML-based configuration loading for ProBot.
package config

import (
	"errors"
	"fmt"
)

// ProBotConfig contains all tunables of the game.
type ProBotConfig struct {
	Board    BoardConfig    `yaml:"board"`
	Engine   EngineConfig   `yaml:"engine"`
	Editor   EditorConfig   `yaml:"editor"`
	Layout   LayoutConfig   `yaml:"layout"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Spectate SpectateConfig `yaml:"spectate"`
}

// BoardConfig defines the level board.
type BoardConfig struct {
	TileSize int `yaml:"tile_size"` // pixels per tile; the bot walks one pixel per tick
}

// EngineConfig defines interpreter timing.
type EngineConfig struct {
	TickRate     int `yaml:"tick_rate"`
	MessageTicks int `yaml:"message_ticks"` // how long advisories stay on screen
}

// EditorConfig defines the block canvas geometry, in canvas pixels.
type EditorConfig struct {
	BlockWidth  int           `yaml:"block_width"`
	BlockHeight int           `yaml:"block_height"`
	SnapX       int           `yaml:"snap_tolerance_x"`
	SnapY       int           `yaml:"snap_tolerance_y"`
	Start       PointConfig   `yaml:"start"`
	Palette     PaletteConfig `yaml:"palette"`
	Trash       RectConfig    `yaml:"trash"`
}

// PointConfig is a canvas position.
type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// RectConfig is a canvas rectangle.
type RectConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// PaletteConfig places the block templates on a grid.
type PaletteConfig struct {
	X        int `yaml:"x"`
	Y        int `yaml:"y"`
	SpacingX int `yaml:"spacing_x"`
	SpacingY int `yaml:"spacing_y"`
	PerRow   int `yaml:"per_row"`
}

// LayoutConfig defines where saved block layouts go.
type LayoutConfig struct {
	Dir        string `yaml:"dir"`
	MaxRecords int    `yaml:"max_records"`
}

// ScoringConfig defines level scoring.
type ScoringConfig struct {
	DefaultPoints int `yaml:"default_points"` // score of an unsolved level; lower is better
}

// SpectateConfig defines the websocket spectator stream.
type SpectateConfig struct {
	Addr       string `yaml:"addr"`
	EveryTicks int    `yaml:"every_ticks"`
}

// Validate rejects configurations the game cannot run with.
func (c ProBotConfig) Validate() error {
	var errs []error
	if c.Board.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("board.tile_size must be positive, got %d", c.Board.TileSize))
	}
	if c.Engine.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("engine.tick_rate must be positive, got %d", c.Engine.TickRate))
	}
	if c.Editor.BlockWidth <= 0 || c.Editor.BlockHeight <= 0 {
		errs = append(errs, fmt.Errorf("editor block size must be positive, got %dx%d", c.Editor.BlockWidth, c.Editor.BlockHeight))
	}
	if c.Editor.SnapY < 0 || c.Editor.SnapY >= c.Editor.BlockHeight {
		errs = append(errs, fmt.Errorf("editor.snap_tolerance_y must be in [0, block_height), got %d", c.Editor.SnapY))
	}
	if c.Editor.SnapX < 0 {
		errs = append(errs, fmt.Errorf("editor.snap_tolerance_x must not be negative, got %d", c.Editor.SnapX))
	}
	if c.Editor.Palette.PerRow <= 0 {
		errs = append(errs, fmt.Errorf("editor.palette.per_row must be positive, got %d", c.Editor.Palette.PerRow))
	}
	if c.Layout.MaxRecords <= 0 {
		errs = append(errs, fmt.Errorf("layout.max_records must be positive, got %d", c.Layout.MaxRecords))
	}
	if c.Spectate.EveryTicks <= 0 {
		errs = append(errs, fmt.Errorf("spectate.every_ticks must be positive, got %d", c.Spectate.EveryTicks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
