package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/storage"
)

// menuMode distinguishes the main list from the level picker.
type menuMode int

const (
	menuModeMain menuMode = iota
	menuModeLevelPick
)

// MenuChoice is what the user selected in the menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceProgress
	MenuChoiceQuit
)

// MenuModel is the Bubble Tea model for the title menu. It offers to
// continue from the highest cleared level, pick an earlier level to replay,
// or open the progress screen.
type MenuModel struct {
	width  int
	height int
	store  *storage.Store
	config core.RuntimeConfig
	keys   *KeyMapper

	mode       menuMode
	cursor     int
	nextLevel  int // highest cleared level + 1
	pickLevel  int // level picker position
	choice     MenuChoice
	pickedLvl  int
	quitting   bool
}

var menuEntries = []string{"Continue", "Select level", "Progress", "Quit"}

// NewMenuModel creates a menu model. The store may be nil; the menu then
// starts from level 1 with no progress entry data.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	next := 1
	if store != nil {
		if high, err := store.HighestWon(); err == nil {
			next = high + 1
		}
	}
	return MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keys:      NewKeyMapper(),
		nextLevel: next,
		pickLevel: next,
	}
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

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKeyToMenuAction(msg)

	if m.mode == menuModeLevelPick {
		return m.handlePickKey(action)
	}

	switch action {
	case MenuActionQuit:
		m.quitting = true
		m.choice = MenuChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}

	case MenuActionProgress:
		m.choice = MenuChoiceProgress
		return m, tea.Quit

	case MenuActionSelect:
		switch m.cursor {
		case 0: // Continue
			m.choice = MenuChoicePlay
			m.pickedLvl = m.nextLevel
			return m, tea.Quit
		case 1: // Select level
			m.mode = menuModeLevelPick
			m.pickLevel = m.nextLevel
		case 2: // Progress
			m.choice = MenuChoiceProgress
			return m, tea.Quit
		case 3: // Quit
			m.quitting = true
			m.choice = MenuChoiceQuit
			return m, tea.Quit
		}
	}
	return m, nil
}

// handlePickKey adjusts the level picker. Left/right step by one,
// up/down by ten, clamped to the unlocked range.
func (m MenuModel) handlePickKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		m.choice = MenuChoiceQuit
		return m, tea.Quit
	case MenuActionBack:
		m.mode = menuModeMain
	case MenuActionLeft:
		m.pickLevel = core.Clamp(m.pickLevel-1, 1, m.nextLevel)
	case MenuActionRight:
		m.pickLevel = core.Clamp(m.pickLevel+1, 1, m.nextLevel)
	case MenuActionUp:
		m.pickLevel = core.Clamp(m.pickLevel+10, 1, m.nextLevel)
	case MenuActionDown:
		m.pickLevel = core.Clamp(m.pickLevel-10, 1, m.nextLevel)
	case MenuActionSelect:
		m.choice = MenuChoicePlay
		m.pickedLvl = m.pickLevel
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
	b.WriteString(centerText("S L I D E A W A Y", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Clear the board, one sliding piece at a time", m.width))
	b.WriteString("\n\n")

	if m.mode == menuModeLevelPick {
		b.WriteString(centerText(fmt.Sprintf("Level:  < %d >  (max %d)", m.pickLevel, m.nextLevel), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Left/Right: +-1  |  Up/Down: +-10  |  Enter: Play  |  Esc: Back", m.width))
		b.WriteString("\n")
		return b.String()
	}

	for i, entry := range menuEntries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		label := entry
		if i == 0 {
			label = fmt.Sprintf("%s (level %d)", entry, m.nextLevel)
		}
		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: Progress  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Choice returns what the user picked, MenuChoiceNone when still deciding.
func (m MenuModel) Choice() MenuChoice { return m.choice }

// PickedLevel returns the level chosen for play.
func (m MenuModel) PickedLevel() int { return m.pickedLvl }

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool { return m.quitting }

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig { return m.config }

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
