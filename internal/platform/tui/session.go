package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-probot/internal/core"
	"github.com/vovakirdan/tui-probot/internal/probot"
)

type screen uint8

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// SessionModel is the top-level model: menu -> level -> menu, with the
// scoreboard one key away. Local play and SSH sessions both use it.
type SessionModel struct {
	env        Env
	config     core.RuntimeConfig
	screen     screen
	menu       MenuModel
	gameModel  *GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a session showing the level selector.
func NewSessionModel(env Env, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		env:    env,
		config: cfg,
		menu:   NewMenuModel(env, cfg),
	}
}

// NewSessionModelAt creates a session that opens levelID straight away.
func NewSessionModelAt(env Env, cfg core.RuntimeConfig, levelID string) (SessionModel, error) {
	m := NewSessionModel(env, cfg)
	if err := m.openLevel(levelID); err != nil {
		return m, err
	}
	return m, nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenGame && m.gameModel != nil {
		return m.gameModel.Init()
	}
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.env, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		if err := m.openLevel(m.menu.Selected().LevelID); err != nil {
			m.env.logger().Error("cannot open level", "level", m.menu.Selected().LevelID, "error", err)
			m.backToMenu()
			return m, nil
		}
		return m, m.gameModel.Init()
	}
	return m, cmd
}

func (m *SessionModel) openLevel(id string) error {
	lvl, err := m.env.catalog().Load(id)
	if err != nil {
		return err
	}
	game, err := probot.New(lvl, m.env.Config)
	if err != nil {
		return err
	}
	cfg := m.config
	cfg.TickRate = GameTickRate
	gm := NewGameModel(m.env, game, cfg)
	m.gameModel = &gm
	m.screen = screenGame
	return nil
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.gameModel.BackToMenu() {
		m.backToMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

// backToMenu rebuilds the menu so progress marks are current.
func (m *SessionModel) backToMenu() {
	m.gameModel = nil
	m.menu = NewMenuModel(m.env, m.config)
	m.screen = screenMenu
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// Run plays a local session until the player quits. A non-empty levelID
// opens that level first.
func Run(env Env, cfg core.RuntimeConfig, levelID string) error {
	model := NewSessionModel(env, cfg)
	if levelID != "" {
		var err error
		if model, err = NewSessionModelAt(env, cfg, levelID); err != nil {
			return err
		}
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
