// Package editor holds the block canvas: the locked palette, the start
// block and the blocks the player has placed. Drops are normalised so that
// every slot under a block holds at most one follower.
package editor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-probot/internal/config"
	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot/layout"
	"github.com/vovakirdan/tui-probot/internal/probot/program"
)

// StartID is the ID of the start block.
const StartID = 0

var (
	ErrUnknownBlock = errors.New("editor: unknown block")
	ErrLocked       = errors.New("editor: block is locked")
)

// DropResult describes what a drop did.
type DropResult struct {
	Trashed bool
	Snapped bool
	Anchor  int   // block the drop snapped under
	Shifted []int // blocks pushed down to make room
}

// Canvas is the editing surface.
type Canvas struct {
	cfg     config.EditorConfig
	tol     program.Tolerance
	start   program.Placed
	palette []program.Placed
	blocks  []program.Placed
	nextID  int
}

// NewCanvas lays out the palette and the start block.
func NewCanvas(cfg config.EditorConfig) *Canvas {
	c := &Canvas{
		cfg: cfg,
		tol: program.Tolerance{X: cfg.SnapX, Y: cfg.SnapY},
		start: program.Placed{
			ID:     StartID,
			Kind:   program.KindStart,
			Rect:   core.NewRect(cfg.Start.X, cfg.Start.Y, cfg.BlockWidth, cfg.BlockHeight),
			Locked: true,
		},
	}

	perRow := core.Max(cfg.Palette.PerRow, 1)
	for i, k := range program.PaletteKinds {
		x := cfg.Palette.X + (i%perRow)*cfg.Palette.SpacingX
		y := cfg.Palette.Y + (i/perRow)*cfg.Palette.SpacingY
		c.palette = append(c.palette, program.Placed{
			ID:     i + 1,
			Kind:   k,
			Rect:   core.NewRect(x, y, cfg.BlockWidth, cfg.BlockHeight),
			Param:  k.DefaultParam(),
			Locked: true,
		})
	}
	c.nextID = len(c.palette) + 1
	return c
}

// Tolerance returns the snapping distances.
func (c *Canvas) Tolerance() program.Tolerance {
	return c.tol
}

// Start returns the start block.
func (c *Canvas) Start() program.Placed {
	return c.start
}

// Palette returns the locked templates.
func (c *Canvas) Palette() []program.Placed {
	return append([]program.Placed(nil), c.palette...)
}

// Template returns the palette template for kind.
func (c *Canvas) Template(kind program.Kind) (program.Placed, bool) {
	for _, p := range c.palette {
		if p.Kind == kind {
			return p, true
		}
	}
	return program.Placed{}, false
}

// Blocks returns the placed blocks in creation order.
func (c *Canvas) Blocks() []program.Placed {
	return append([]program.Placed(nil), c.blocks...)
}

// Block looks up any block by ID.
func (c *Canvas) Block(id int) (program.Placed, bool) {
	if id == StartID {
		return c.start, true
	}
	for _, p := range c.palette {
		if p.ID == id {
			return p, true
		}
	}
	if i := c.indexOf(id); i >= 0 {
		return c.blocks[i], true
	}
	return program.Placed{}, false
}

func (c *Canvas) indexOf(id int) int {
	for i, b := range c.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Points is the level score of the current layout: the number of placed
// blocks. Lower is better.
func (c *Canvas) Points() int {
	return len(c.blocks)
}

// Grab picks a block up. Grabbing a palette template clones it into a new
// placed block at the template's position and returns the clone's ID.
func (c *Canvas) Grab(id int) (int, error) {
	if id == StartID {
		return 0, fmt.Errorf("%w: start block cannot move", ErrLocked)
	}
	if c.indexOf(id) >= 0 {
		return id, nil
	}
	for _, p := range c.palette {
		if p.ID == id {
			clone := p
			clone.ID = c.nextID
			clone.Locked = false
			c.nextID++
			c.blocks = append(c.blocks, clone)
			return clone.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
}

// MoveTo puts a placed block's top-left corner at (x, y).
func (c *Canvas) MoveTo(id, x, y int) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.notPlaced(id)
	}
	c.blocks[i].Rect.X, c.blocks[i].Rect.Y = x, y
	return nil
}

// MoveBy drags a placed block by (dx, dy).
func (c *Canvas) MoveBy(id, dx, dy int) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.notPlaced(id)
	}
	c.blocks[i].Rect = c.blocks[i].Rect.Translate(dx, dy)
	return nil
}

// Drop releases a held block. Over the trash the block is deleted. Within
// snapping distance of the start block or another placed block it snaps
// into the slot under it, and whatever already hung in that slot is pushed
// down one block height together with the blocks under it.
func (c *Canvas) Drop(id int) (DropResult, error) {
	i := c.indexOf(id)
	if i < 0 {
		return DropResult{}, c.notPlaced(id)
	}
	trash := core.NewRect(c.cfg.Trash.X, c.cfg.Trash.Y, c.cfg.Trash.W, c.cfg.Trash.H)
	if c.blocks[i].Rect.Intersects(trash) {
		c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
		return DropResult{Trashed: true}, nil
	}

	anchor, ok := c.nearestAnchor(id)
	if !ok {
		return DropResult{}, nil
	}
	res := DropResult{Snapped: true, Anchor: anchor.ID}
	c.blocks[i].Rect = c.blocks[i].Rect.PlaceUnder(anchor.Rect)

	if occupant, taken := c.follower(anchor.Rect, id); taken {
		shift := c.blocks[i].Rect.H
		for _, sid := range c.chainFrom(occupant, id) {
			j := c.indexOf(sid)
			c.blocks[j].Rect = c.blocks[j].Rect.Translate(0, shift)
			res.Shifted = append(res.Shifted, sid)
		}
	}
	return res, nil
}

// nearestAnchor finds the block the dropped block would follow.
func (c *Canvas) nearestAnchor(id int) (program.Placed, bool) {
	b := c.blocks[c.indexOf(id)]
	anchors := append([]program.Placed{c.start}, c.blocks...)

	var best program.Placed
	found := false
	bestDist := 0
	for _, a := range anchors {
		if a.ID == id || !program.Follows(a.Rect, b.Rect, c.tol) {
			continue
		}
		d := core.Abs(b.Rect.Y-a.Rect.Bottom()) + core.Abs(b.Rect.CenterX()-a.Rect.CenterX())
		if !found || d < bestDist {
			best, bestDist, found = a, d, true
		}
	}
	return best, found
}

// follower returns the placed block in the slot under r, ignoring skip.
func (c *Canvas) follower(r core.Rect, skip int) (int, bool) {
	snap := program.Snapshot{Start: program.Placed{ID: -1, Rect: r}}
	for _, b := range c.blocks {
		if b.ID != skip {
			snap.Blocks = append(snap.Blocks, b)
		}
	}
	chain := program.Chain(snap, c.tol)
	if len(chain) == 0 {
		return 0, false
	}
	return chain[0].ID, true
}

// chainFrom returns id and every block hanging under it, ignoring skip.
func (c *Canvas) chainFrom(id, skip int) []int {
	head := c.blocks[c.indexOf(id)]
	snap := program.Snapshot{Start: head}
	for _, b := range c.blocks {
		if b.ID != skip {
			snap.Blocks = append(snap.Blocks, b)
		}
	}
	ids := []int{id}
	for _, b := range program.Chain(snap, c.tol) {
		ids = append(ids, b.ID)
	}
	return ids
}

// Place clones the palette template for kind and drops it under block
// after, inserting it into the program at that point.
func (c *Canvas) Place(kind program.Kind, after int) (int, error) {
	tpl, ok := c.Template(kind)
	if !ok {
		return 0, fmt.Errorf("%w: no template for %s", ErrUnknownBlock, kind)
	}
	anchor, ok := c.Block(after)
	if !ok || (anchor.Locked && anchor.ID != StartID) {
		return 0, fmt.Errorf("%w: cannot place under %d", ErrUnknownBlock, after)
	}
	id, err := c.Grab(tpl.ID)
	if err != nil {
		return 0, err
	}
	under := c.blocks[c.indexOf(id)].Rect.PlaceUnder(anchor.Rect)
	if err := c.MoveTo(id, under.X, under.Y); err != nil {
		return 0, err
	}
	if _, err := c.Drop(id); err != nil {
		return 0, err
	}
	return id, nil
}

// Remove deletes a placed block. Blocks under it close the gap.
func (c *Canvas) Remove(id int) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.notPlaced(id)
	}
	below := c.chainFrom(id, -1)[1:]
	h := c.blocks[i].Rect.H
	c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
	for _, sid := range below {
		j := c.indexOf(sid)
		c.blocks[j].Rect = c.blocks[j].Rect.Translate(0, -h)
	}
	return nil
}

// Swap exchanges the positions of two placed blocks.
func (c *Canvas) Swap(a, b int) error {
	i, j := c.indexOf(a), c.indexOf(b)
	if i < 0 {
		return c.notPlaced(a)
	}
	if j < 0 {
		return c.notPlaced(b)
	}
	c.blocks[i].Rect, c.blocks[j].Rect = c.blocks[j].Rect, c.blocks[i].Rect
	return nil
}

// SetParam sets a placed block's parameter text.
func (c *Canvas) SetParam(id int, text string) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.notPlaced(id)
	}
	c.blocks[i].Param = text
	return nil
}

// ResetAll removes every placed block.
func (c *Canvas) ResetAll() {
	c.blocks = nil
}

// Chain returns the placed blocks attached under the start block, in
// program order.
func (c *Canvas) Chain() []program.Placed {
	return program.Chain(c.Snapshot(), c.tol)
}

// Snapshot is the compile input: the start block and every placed block.
func (c *Canvas) Snapshot() program.Snapshot {
	return program.Snapshot{Start: c.start, Blocks: c.Blocks()}
}

// Records returns the placed blocks as layout records, top to bottom.
func (c *Canvas) Records() []layout.Record {
	blocks := c.Blocks()
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Rect.Y != blocks[j].Rect.Y {
			return blocks[i].Rect.Y < blocks[j].Rect.Y
		}
		return blocks[i].Rect.X < blocks[j].Rect.X
	})
	out := make([]layout.Record, len(blocks))
	for i, b := range blocks {
		out[i] = layout.Record{Kind: b.Kind.String(), X: b.Rect.X, Y: b.Rect.Y, Param: b.Param}
	}
	return out
}

// Restore replaces the placed blocks with records. Records naming the start
// block or an unknown kind are rejected and leave the canvas unchanged.
func (c *Canvas) Restore(records []layout.Record) error {
	blocks := make([]program.Placed, 0, len(records))
	next := len(c.palette) + 1
	for i, r := range records {
		kind, err := program.ParseKind(r.Kind)
		if err != nil {
			return fmt.Errorf("editor: record %d: %w", i, err)
		}
		if kind == program.KindStart {
			return fmt.Errorf("editor: record %d: start block cannot be placed", i)
		}
		blocks = append(blocks, program.Placed{
			ID:    next,
			Kind:  kind,
			Rect:  core.NewRect(r.X, r.Y, c.cfg.BlockWidth, c.cfg.BlockHeight),
			Param: r.Param,
		})
		next++
	}
	c.blocks = blocks
	c.nextID = next
	return nil
}

func (c *Canvas) notPlaced(id int) error {
	if _, ok := c.Block(id); ok {
		return fmt.Errorf("%w: %d", ErrLocked, id)
	}
	return fmt.Errorf("%w: %d", ErrUnknownBlock, id)
}
