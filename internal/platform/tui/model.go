package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot"
	"github.com/vovakirdan/tui-probot/internal/storage"
)

// Smallest terminal the editor screen fits in. The last row is kept for
// the parameter prompt and notices.
const (
	MinWidth  = 92
	MinHeight = 27

	// GameTickRate is how often the TUI steps the game. It matches the
	// default engine rate, so every step is one engine tick.
	GameTickRate = 120
)

// GameModel is the Bubble Tea model for one level session.
type GameModel struct {
	env        Env
	game       *probot.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	param      textinput.Model
	editing    bool
	notice     string
	steps      int
	quitting   bool
	backToMenu bool
}

// NewGameModel creates the model and restores the player's saved layout
// for the level.
func NewGameModel(env Env, game *probot.Game, cfg core.RuntimeConfig) GameModel {
	if cfg.TickRate <= 0 {
		cfg.TickRate = GameTickRate
	}
	ti := textinput.New()
	ti.Prompt = "param> "
	ti.CharLimit = 24
	ti.Width = 30

	m := GameModel{
		env:        env,
		game:       game,
		screen:     core.NewScreen(core.Max(cfg.ScreenW, 0), core.Max(cfg.ScreenH-1, 0)),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		param:      ti,
	}
	game.Reset(cfg)
	m.gameState = game.State()

	if store := env.layouts(); store != nil {
		ok, err := game.LoadLayout(store)
		switch {
		case err != nil:
			env.logger().Warn("cannot restore layout", "level", game.ID(), "error", err)
			m.notice = "saved layout could not be restored"
		case ok:
			m.notice = "layout restored"
		}
	}
	if env.Spectate != nil {
		env.Spectate.SetLevel(game.ID())
	}
	env.logger().Info("level opened", "level", game.ID(), "player", env.player())
	return m
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(core.Max(msg.Width, 0), core.Max(msg.Height-1, 0))
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	if m.editing {
		var cmd tea.Cmd
		m.param, cmd = m.param.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKey(msg)
	}

	switch {
	case m.keyMapper.IsScreenshotKey(msg):
		m.saveScreenshot()
		return m, nil
	case m.keyMapper.IsEditKey(msg):
		m.startEdit()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		// let the game stop its run before leaving
		m.game.Step(m.inputFrame)
		m.inputFrame.Clear()
		m.saveLayout()
		m.quitting = true
		return m, tea.Quit
	}
	m.notice = ""
	return m, nil
}

func (m *GameModel) startEdit() {
	if m.game.Focus() != probot.FocusProgram || m.gameState.Running {
		m.notice = "select a program block to edit its parameter"
		return
	}
	sel, ok := m.game.Selected()
	if !ok || (!sel.Kind.HasCount() && !sel.Kind.HasPredicate()) {
		m.notice = "this block takes no parameter"
		return
	}
	m.editing = true
	m.param.SetValue(sel.Param)
	m.param.CursorEnd()
	m.param.Focus()
}

func (m GameModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.game.SetSelectedParam(strings.TrimSpace(m.param.Value())); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = ""
		}
		m.stopEdit()
		return m, nil
	case "esc":
		m.stopEdit()
		return m, nil
	case "ctrl+c":
		m.stopEdit()
		m.saveLayout()
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.param, cmd = m.param.Update(msg)
	return m, cmd
}

func (m *GameModel) stopEdit() {
	m.editing = false
	m.param.Blur()
	m.param.Reset()
}

// handleTick steps the game and reacts to what the step changed.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	prev := m.gameState
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	m.gameState = result.State
	m.steps++

	log := m.env.logger()
	if m.gameState.Running && !prev.Running {
		log.Info("run started", "level", m.game.ID(), "run", m.game.Engine().RunID(), "blocks", m.game.Canvas().Points())
	}
	if m.gameState.RunFaults > prev.RunFaults {
		log.Warn("run faulted", "level", m.game.ID(), "run", m.game.Engine().RunID(), "reason", m.game.Message())
	}
	if result.Solved {
		log.Info("level solved", "level", m.game.ID(), "player", m.env.player(), "blocks", m.gameState.Score, "ticks", m.gameState.Ticks)
		m.saveScore()
	}

	if m.env.Spectate != nil {
		every := m.env.Config.Spectate.EveryTicks
		if every <= 0 || m.steps%every == 0 || m.gameState.Running != prev.Running || result.Solved {
			m.env.Spectate.Publish(m.game.Frame())
		}
	}

	if m.gameState.GameOver {
		m.saveLayout()
		m.backToMenu = true
		return m, nil
	}
	return m, tickCmd(m.config.TickRate)
}

func (m *GameModel) saveScore() {
	if m.env.Store == nil {
		return
	}
	_, err := m.env.Store.SaveScore(storage.ScoreEntry{
		Player:  m.env.player(),
		LevelID: m.game.ID(),
		RunID:   m.game.Engine().RunID(),
		Blocks:  m.gameState.Score,
		Ticks:   m.gameState.Ticks,
	})
	if err != nil {
		m.env.logger().Error("cannot save score", "level", m.game.ID(), "error", err)
		m.notice = "score could not be saved"
	}
}

func (m *GameModel) saveLayout() {
	store := m.env.layouts()
	if store == nil {
		return
	}
	if err := m.game.SaveLayout(store); err != nil {
		m.env.logger().Error("cannot save layout", "level", m.game.ID(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.notice = "screenshot failed"
		return
	}
	dir := filepath.Join(home, ".probot", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.notice = "screenshot failed"
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.notice = "screenshot failed"
		return
	}
	m.notice = "screenshot saved to " + path
}

// View renders the game and the prompt row.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.config.ScreenW < MinWidth || m.config.ScreenH < MinHeight {
		return renderTooSmall(m.config.ScreenW, m.config.ScreenH, MinWidth, MinHeight)
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	var bottom string
	switch {
	case m.editing:
		bottom = m.param.View()
	case m.notice != "":
		bottom = noticeStyle.Render(" " + m.notice)
	}
	return RenderScreen(m.screen) + "\n" + bottom
}

// State returns the last observed session state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsEditing reports whether the parameter prompt is open.
func (m GameModel) IsEditing() bool {
	return m.editing
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
