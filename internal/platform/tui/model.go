package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akarpov/slideaway/internal/config"
	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/game"
	"github.com/akarpov/slideaway/internal/pregen"
	"github.com/akarpov/slideaway/internal/puzzle"
	"github.com/akarpov/slideaway/internal/storage"
)

// PlayModel is the Bubble Tea model for a run of consecutive levels. It
// feeds key presses to the game adapter at a fixed tick rate, saves each
// finished round, and pulls prefetched boards so level changes are instant.
type PlayModel struct {
	game   *game.Game
	screen *core.Screen
	store  *storage.Store
	boards *pregen.Service
	appCfg *config.Config

	cfg       core.RuntimeConfig
	keys      *KeyMapper
	frame     core.InputFrame
	state     core.GameState
	startedAt time.Time
	saved     bool

	standalone bool // quit the program on Back instead of deferring to a session
	quitting   bool
	backToMenu bool
}

// NewPlayModel creates a play model and starts the first round.
// The pregen service and the store may be nil.
func NewPlayModel(appCfg *config.Config, store *storage.Store, boards *pregen.Service, cfg core.RuntimeConfig) PlayModel {
	cfg.Hammers, cfg.Shuffles = appCfg.Charges()
	if cfg.Level < 1 {
		cfg.Level = 1
	}

	m := PlayModel{
		game:      game.New(appCfg.BoardSpec(), appCfg.ParamsForLevel),
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		boards:    boards,
		appCfg:    appCfg,
		cfg:       cfg,
		keys:      NewKeyMapper(),
		frame:     core.NewInputFrame(),
		startedAt: time.Now(),
	}
	m.beginRound(cfg.Level)
	return m
}

// beginRound resets the game for a level, consuming a prefetched board when
// one is ready and queueing the next level behind it.
func (m *PlayModel) beginRound(level int) {
	m.cfg.Level = level
	m.game.Reset(m.cfg)

	// An explicit seed applies to the first round only; later rounds get
	// fresh ones from the adapter, and seeded rounds skip the prefetch
	// cache so the requested board is the one played.
	seeded := m.cfg.Seed != 0
	m.cfg.Seed = 0
	if m.boards != nil && !seeded {
		if r := m.boards.Take(level); r != nil {
			m.game.SetBoard(r)
		}
		m.boards.Prefetch(level + 1)
	}
	m.saved = false
	m.startedAt = time.Now()
	m.state = m.game.State()
}

// Init starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.cfg.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// The board is resolution independent; a resize only needs a
		// bigger buffer, never a regenerated level.
		m.cfg.ScreenW = msg.Width
		m.cfg.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.frame) {
		m.quitting = true
		return m, tea.Quit
	}

	if action, _ := m.keys.MapKey(msg); action == core.ActionBack {
		if m.state.Over() || m.state.Paused || m.state.Generating {
			m.backToMenu = true
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// handleTick runs one simulation step.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if m.frame.Has(core.ActionNext) && m.state.Won {
		m.frame.Clear()
		m.beginRound(m.cfg.Level + 1)
		return m, tickCmd(m.cfg.TickRate)
	}

	wasGenerating := m.state.Generating
	result := m.game.Step(m.frame)
	m.state = result.State

	// A round begins once generation hands over the board; restarts pass
	// through here too.
	if wasGenerating && !m.state.Generating {
		m.saved = false
		m.startedAt = time.Now()
	}

	if m.state.Over() && !m.saved {
		m.saveRound()
		m.saved = true
	}

	m.frame.Clear()
	return m, tickCmd(m.cfg.TickRate)
}

// saveRound persists the finished round. Best effort: a failed save never
// interrupts play.
func (m *PlayModel) saveRound() {
	if m.store == nil {
		return
	}
	play, res := m.game.Play(), m.game.Result()
	if play == nil || res == nil || res.Empty() {
		return
	}
	hammers, shuffles := play.PowerUpsUsed()
	//nolint:errcheck // Best-effort save, play continues regardless
	m.store.SaveResult(storage.LevelResult{
		Level:        m.cfg.Level,
		Seed:         res.Seed,
		Won:          play.Status() == puzzle.StatusWon,
		Moves:        play.Moves(),
		HammersUsed:  hammers,
		ShufflesUsed: shuffles,
		Duration:     int(time.Since(m.startedAt).Seconds()),
		PieceCount:   res.Count,
		Difficulty:   res.Difficulty,
	})
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// BackToMenu reports whether the user asked to return to the menu.
func (m PlayModel) BackToMenu() bool { return m.backToMenu }

// IsQuitting reports whether the user asked to exit entirely.
func (m PlayModel) IsQuitting() bool { return m.quitting }

// Level returns the level currently in play.
func (m PlayModel) Level() int { return m.cfg.Level }

// RunGame runs a standalone play session starting at cfg.Level.
func RunGame(appCfg *config.Config, store *storage.Store, boards *pregen.Service, cfg core.RuntimeConfig) error {
	model := NewPlayModel(appCfg, store, boards, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
