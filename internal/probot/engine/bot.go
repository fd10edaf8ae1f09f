package engine

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// Pose is a tile position and facing.
type Pose struct {
	At     world.Coord
	Facing world.Dir
}

// Bot is the robot on the board. Offset is how many pixels it has walked
// from At toward Facing and stays within [0, tileSize).
type Bot struct {
	At     world.Coord
	Offset int
	Facing world.Dir
	// Phase runs from 0 to 1 across each tile and drives the walk sprite.
	Phase float32

	tileSize int
	walk     *gween.Tween
}

func newBot(p Pose, tileSize int) Bot {
	return Bot{
		At:       p.At,
		Facing:   p.Facing,
		tileSize: tileSize,
		walk:     gween.New(0, 1, float32(tileSize), ease.Linear),
	}
}

// Pose returns the bot's tile and facing.
func (b *Bot) Pose() Pose {
	return Pose{At: b.At, Facing: b.Facing}
}

// Turn rotates the bot by n quarter turns.
func (b *Bot) Turn(n int) {
	b.Facing = b.Facing.Turn(n)
}

// PixelPos returns the bot's top-left position on the board in pixels.
func (b *Bot) PixelPos() (x, y int) {
	dr, dc := b.Facing.Delta()
	return b.At.Col*b.tileSize + dc*b.Offset, b.At.Row*b.tileSize + dr*b.Offset
}

// Frame returns the walk animation frame out of n.
func (b *Bot) Frame(n int) int {
	if n <= 0 {
		return 0
	}
	f := int(b.Phase * float32(n))
	if f >= n {
		f = n - 1
	}
	return f
}

// advancePixel walks one pixel. It reports true when the bot crossed into
// the next tile, at which point Offset is back to zero.
func (b *Bot) advancePixel() bool {
	b.Offset++
	b.Phase, _ = b.walk.Update(1)
	if b.Offset < b.tileSize {
		return false
	}
	b.At = b.At.Step(b.Facing)
	b.settle()
	return true
}

// teleport puts the bot on c at the start of the tile.
func (b *Bot) teleport(c world.Coord) {
	b.At = c
	b.settle()
}

func (b *Bot) settle() {
	b.Offset = 0
	b.Phase = 0
	b.walk.Reset()
}
