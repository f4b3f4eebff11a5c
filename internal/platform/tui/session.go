package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akarpov/slideaway/internal/config"
	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/pregen"
	"github.com/akarpov/slideaway/internal/storage"
)

// sessionScreen identifies which screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPlay
	screenProgress
)

// SessionModel manages the full session flow: menu -> play -> menu, with
// the progress screen reachable from the menu. It is the top-level model
// for both local runs and SSH sessions.
type SessionModel struct {
	appCfg *config.Config
	store  *storage.Store
	boards *pregen.Service
	config core.RuntimeConfig

	screen   sessionScreen
	menu     MenuModel
	play     *PlayModel
	progress *ProgressModel
	quitting bool
}

// NewSessionModel creates a session starting at the menu.
// The store and the pregen service may be nil.
func NewSessionModel(appCfg *config.Config, store *storage.Store, boards *pregen.Service, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		appCfg: appCfg,
		store:  store,
		boards: boards,
		config: cfg,
		menu:   NewMenuModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally so screen switches keep the dimensions.
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenProgress:
		return m.updateProgress(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when the menu is showing.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Choice() {
	case MenuChoicePlay:
		cfg := m.menu.Config()
		cfg.Level = m.menu.PickedLevel()
		play := NewPlayModel(m.appCfg, m.store, m.boards, cfg)
		m.play = &play
		m.screen = screenPlay
		return m, m.play.Init()

	case MenuChoiceProgress:
		progress := NewProgressModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.progress = &progress
		m.screen = screenProgress
		return m, m.progress.Init()
	}

	return m, cmd
}

// updatePlay handles updates during play.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	if m.play.BackToMenu() {
		m.play = nil
		m.screen = screenMenu
		// Rebuild the menu so Continue reflects the new progress.
		m.menu = NewMenuModel(m.store, m.config)
		return m, m.menu.Init()
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateProgress handles updates on the progress screen.
func (m SessionModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.progress.Update(msg)
	if progressModel, ok := newModel.(ProgressModel); ok {
		m.progress = &progressModel
	}

	if m.progress.IsGoingBack() {
		m.progress = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.store, m.config)
		return m, m.menu.Init()
	}

	if m.progress.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenProgress:
		return m.progress.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the full menu-driven session locally.
func RunSession(appCfg *config.Config, store *storage.Store, boards *pregen.Service, cfg core.RuntimeConfig) error {
	model := NewSessionModel(appCfg, store, boards, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
