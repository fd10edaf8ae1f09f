package probot

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot/engine"
	"github.com/vovakirdan/tui-probot/internal/probot/program"
	"github.com/vovakirdan/tui-probot/internal/probot/world"
)

// Screen layout, in cells.
const (
	boardX     = 1
	boardY     = 2
	tileW      = 2
	panelGap   = 3
	programW   = 30
	paletteW   = 16
	panelTop   = 2
	panelLines = 22
)

var botGlyphs = [...]rune{world.DirUp: '▲', world.DirRight: '▶', world.DirDown: '▼', world.DirLeft: '◀'}

// Render draws the board, the program, the palette and the status line.
func (g *Game) Render(dst *core.Screen) {
	status := g.engine.Status()
	dst.DrawTextColored(1, 0, fmt.Sprintf("ProBot - %s", g.level.Name), core.ColorBrightWhite)
	dst.DrawTextColored(dst.Width()-len(status.String())-2, 0, status.String(), statusColor(status))

	g.renderBoard(dst)
	px := boardX + g.level.Cols*tileW + 2 + panelGap
	g.renderProgram(dst, px)
	g.renderPalette(dst, px+programW+panelGap)

	y := boardY + g.level.Rows + 3
	if g.message != "" {
		dst.DrawTextColored(boardX, y, g.message, messageColor(status))
	}
	if g.state.Solved {
		dst.DrawTextColored(boardX, y+1, fmt.Sprintf("solved with %d blocks in %d ticks", g.state.Score, g.state.Ticks), core.ColorBrightGreen)
	}

	help := "tab focus  enter place  K/J order  x trash  c cycle  e edit  r run  s stop  h hint  esc back"
	dst.DrawTextColored(1, dst.Height()-1, help, core.ColorGray)
}

func (g *Game) renderBoard(dst *core.Screen) {
	w := g.engine.World()
	frame := core.NewRect(boardX, boardY, g.level.Cols*tileW+2, g.level.Rows+2)
	dst.DrawBox(frame, core.ColorBlue)

	for r := 0; r < w.Rows(); r++ {
		for c := 0; c < w.Cols(); c++ {
			at := world.C(r, c)
			ch, color, fill := tileGlyph(w, at)
			x, y := boardX+1+c*tileW, boardY+1+r
			dst.SetColored(x, y, ch, color)
			if fill {
				dst.SetColored(x+1, y, ch, color)
			}
		}
	}

	bot := g.engine.Bot()
	at := bot.At
	if bot.Offset*2 >= g.cfg.Board.TileSize {
		if next, ok := w.Ahead(bot.At, bot.Facing); ok {
			at = next
		}
	}
	color := core.ColorCyan
	if bot.Frame(2) == 1 {
		color = core.ColorBrightCyan
	}
	dst.SetColored(boardX+1+at.Col*tileW, boardY+1+at.Row, botGlyphs[bot.Facing], color)
}

// tileGlyph picks a cell's look. Filled glyphs cover both columns of a tile.
func tileGlyph(w *world.World, at world.Coord) (ch rune, c core.Color, fill bool) {
	if o, ok := w.ObstacleAt(at); ok {
		switch o.Kind {
		case world.ObstacleDoor:
			if w.DoorOpen(o.ID) {
				return '·', core.ColorGreen, false
			}
			return '▒', core.ColorRed, true
		case world.ObstacleButton:
			if w.ButtonPressed(o.ID) {
				return '●', core.ColorBrightYellow, false
			}
			return '○', core.ColorYellow, false
		case world.ObstacleWormhole:
			return '@', core.ColorMagenta, false
		}
	}
	t, _ := w.TileAt(at)
	switch t {
	case world.TileWall:
		return '█', core.ColorGray, true
	case world.TileGoal:
		return '*', core.ColorBrightYellow, false
	}
	return ' ', core.ColorDefault, false
}

func (g *Game) renderProgram(dst *core.Screen, x int) {
	color := core.ColorGray
	if g.focus == FocusProgram {
		color = core.ColorBrightWhite
	}
	dst.DrawBox(core.NewRect(x, panelTop, programW, panelLines), color)
	dst.DrawTextColored(x+2, panelTop, " Program ", color)
	dst.DrawTextColored(x+2, panelTop+1, "start", core.ColorGreen)

	chain := g.canvas.Chain()
	running := g.engine.CurrentBlock()
	depth := 0
	visible := panelLines - 3
	first := 0
	if g.programSel >= visible {
		first = g.programSel - visible + 1
	}
	for i, b := range chain {
		if _, closes := closer(b.Kind); closes {
			depth = core.Max(depth-1, 0)
		}
		if i >= first && i-first < visible {
			marker := "  "
			if g.focus == FocusProgram && i == g.programSel {
				marker = "> "
			}
			line := marker + strings.Repeat("  ", depth) + blockLabel(b)
			c := kindColor(b.Kind)
			if b.ID == running {
				c = core.ColorBrightWhite
				line = truncate(line, programW-5) + " ◆"
			}
			dst.DrawTextColored(x+1, panelTop+2+i-first, truncate(line, programW-2), c)
		}
		if b.Kind.IsOpener() {
			depth++
		}
	}
	dst.DrawTextColored(x+2, panelTop+panelLines-1, fmt.Sprintf(" %d blocks ", len(chain)), core.ColorGray)
}

func (g *Game) renderPalette(dst *core.Screen, x int) {
	color := core.ColorGray
	if g.focus == FocusPalette {
		color = core.ColorBrightWhite
	}
	dst.DrawBox(core.NewRect(x, panelTop, paletteW, len(program.PaletteKinds)+2), color)
	dst.DrawTextColored(x+2, panelTop, " Blocks ", color)
	for i, k := range program.PaletteKinds {
		marker := "  "
		if g.focus == FocusPalette && i == g.paletteSel {
			marker = "> "
		}
		dst.DrawTextColored(x+1, panelTop+1+i, marker+k.String(), kindColor(k))
	}
}

// closer reports whether k ends a body.
func closer(k program.Kind) (program.Kind, bool) {
	for _, op := range program.PaletteKinds {
		if t, ok := op.Terminator(); ok && t == k {
			return op, true
		}
	}
	return 0, false
}

func blockLabel(b program.Placed) string {
	switch {
	case b.Kind.HasCount(), b.Kind.HasPredicate():
		return fmt.Sprintf("%s %s", b.Kind, b.Param)
	}
	return b.Kind.String()
}

func kindColor(k program.Kind) core.Color {
	switch k {
	case program.KindMove, program.KindTurn:
		return core.ColorBrightBlue
	case program.KindIf, program.KindEndIf, program.KindElse, program.KindEndElse:
		return core.ColorOrange
	case program.KindWhile, program.KindEndWhile, program.KindFor, program.KindEndFor:
		return core.ColorBrightMagenta
	}
	return core.ColorDefault
}

func statusColor(s engine.Status) core.Color {
	switch s {
	case engine.StatusRunning:
		return core.ColorBrightGreen
	case engine.StatusCompleted:
		return core.ColorBrightYellow
	case engine.StatusFaulted:
		return core.ColorBrightRed
	}
	return core.ColorGray
}

func messageColor(s engine.Status) core.Color {
	if s == engine.StatusFaulted {
		return core.ColorBrightRed
	}
	return core.ColorBrightYellow
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
