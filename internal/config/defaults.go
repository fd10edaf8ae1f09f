package config

import (
	_ "embed"
)

//go:embed defaults/probot.yaml
var defaultProBotYAML []byte

// DefaultProBotConfig returns the built-in configuration.
func DefaultProBotConfig() ProBotConfig {
	return ProBotConfig{
		Board: BoardConfig{
			TileSize: 41,
		},
		Engine: EngineConfig{
			TickRate:     120,
			MessageTicks: 180,
		},
		Editor: EditorConfig{
			BlockWidth:  120,
			BlockHeight: 40,
			SnapX:       50,
			SnapY:       20,
			Start:       PointConfig{X: 830, Y: 240},
			Palette: PaletteConfig{
				X:        60,
				Y:        475,
				SpacingX: 125,
				SpacingY: 45,
				PerRow:   6,
			},
			Trash: RectConfig{X: 1100, Y: 520, W: 80, H: 80},
		},
		Layout: LayoutConfig{
			Dir:        "~/.probot/layouts",
			MaxRecords: 200,
		},
		Scoring: ScoringConfig{
			DefaultPoints: 100,
		},
		Spectate: SpectateConfig{
			Addr:       "",
			EveryTicks: 4,
		},
	}
}
