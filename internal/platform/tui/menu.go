package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/registry"
)

// MenuItem is one level in the selector.
type MenuItem struct {
	LevelID string
	Title   string
	Best    int  // fewest blocks the player solved it with
	Solved  bool // Best is set
}

// MenuModel is the Bubble Tea model for the level selector.
type MenuModel struct {
	env            Env
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	err            error
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	solvedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// NewMenuModel lists the catalog's levels with the player's progress.
func NewMenuModel(env Env, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		env:       env,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}

	infos, err := env.catalog().List()
	if err != nil {
		env.logger().Error("cannot list levels", "error", err)
		m.err = err
	}
	progress := map[string]int{}
	if env.Store != nil {
		if p, perr := env.Store.Progress(env.player()); perr == nil {
			progress = p
		} else {
			env.logger().Warn("cannot read progress", "player", env.player(), "error", perr)
		}
	}
	for _, info := range infos {
		best, solved := progress[info.ID]
		m.items = append(m.items, MenuItem{LevelID: info.ID, Title: info.Title, Best: best, Solved: solved})
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  P R O B O T  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Program the bot to reach the goal", m.width))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(centerText(warnStyle.Render("levels could not be loaded: "+m.err.Error()), m.width))
		b.WriteString("\n\n")
	}
	if len(m.items) == 0 {
		b.WriteString(centerText(noticeStyle.Render("no levels available"), m.width))
		b.WriteString("\n")
	}

	solved := 0
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = menuCursorStyle.Render("> ")
		}
		mark := "[ ]"
		best := "     "
		if item.Solved {
			solved++
			mark = solvedStyle.Render("[x]")
			best = fmt.Sprintf("%3d b", item.Best)
		}
		line := fmt.Sprintf("%s%s %-24s %s", cursor, mark, item.Title, best)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("%s: %d of %d solved", m.env.player(), solved, len(m.items)), m.width))
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(noticeStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Items returns the listed levels.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// levelInfos is the catalog's level list, or nothing when it cannot be read.
func levelInfos(env Env) []registry.LevelInfo {
	infos, err := env.catalog().List()
	if err != nil {
		env.logger().Error("cannot list levels", "error", err)
		return nil
	}
	return infos
}
