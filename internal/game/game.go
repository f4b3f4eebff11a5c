// Package game adapts the puzzle engine to the platform's fixed-tick loop.
// It owns cursor navigation, power-up dispatch and level generation sliced
// across ticks; the puzzle package stays free of input and rendering
// concerns, and this package stays free of Bubble Tea.
package game

import (
	"errors"
	"time"

	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/puzzle"
)

// ParamsFunc maps a level index to generation parameters.
type ParamsFunc func(level int) puzzle.Parameters

// genStepsPerTick bounds how many generation attempts run inside one
// simulation tick, keeping the loop responsive while a level builds.
const genStepsPerTick = 6

// messageDuration is how long a transient status message stays visible.
const messageDuration = 3 * time.Second

// Game implements the Slideaway round: one generated board played to a win
// or a deadlock. The platform calls Reset, then Step once per tick and
// Render once per frame.
type Game struct {
	board  puzzle.BoardSpec
	params ParamsFunc

	cfg core.RuntimeConfig
	rng *puzzle.RNG // drives shuffles and restart seeds

	stepper *puzzle.Stepper
	result  *puzzle.Result
	play    *puzzle.State

	cursorID int
	hintID   int
	paused   bool
	tick     uint64

	message      string
	messageUntil uint64
}

// New creates a game bound to a board geometry and a difficulty curve.
// Call Reset before stepping.
func New(board puzzle.BoardSpec, params ParamsFunc) *Game {
	if params == nil {
		params = puzzle.ForLevel
	}
	return &Game{board: board, params: params, cursorID: -1, hintID: -1}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "slideaway" }

// Title returns the display name.
func (g *Game) Title() string { return "Slideaway" }

// Reset starts a fresh round for cfg.Level. Generation runs incrementally
// inside Step; State reports Generating until the board is ready.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	cfg.Seed = seed

	g.cfg = cfg
	g.rng = puzzle.NewRNG(seed).Fork(1)
	g.stepper = puzzle.NewStepper(g.params(cfg.Level), g.board, seed)
	g.result = nil
	g.play = nil
	g.cursorID = -1
	g.hintID = -1
	g.paused = false
	g.message = ""
	g.messageUntil = 0
}

// SetBoard installs a pregenerated board, skipping the in-loop generation.
// The platform uses this when the prefetch cache already holds the level.
// Reset must have been called first so the round carries its config.
func (g *Game) SetBoard(r *puzzle.Result) {
	g.stepper = nil
	g.install(r)
}

// install wraps a result in a play state and seats the cursor.
func (g *Game) install(r *puzzle.Result) {
	g.result = r
	g.play = puzzle.NewState(r, g.cfg.Hammers, g.cfg.Shuffles)
	g.cursorID = -1
	g.hintID = -1
	for _, p := range r.Pieces {
		if !g.play.Removed(p.ID) {
			g.cursorID = p.ID
			break
		}
	}
}

// Result returns the generated board, nil while generation runs.
func (g *Game) Result() *puzzle.Result { return g.result }

// Play returns the live play state, nil while generation runs. The platform
// reads it when persisting a finished round.
func (g *Game) Play() *puzzle.State { return g.play }

// CursorID returns the selected piece ID, -1 when nothing is selected.
func (g *Game) CursorID() int { return g.cursorID }

// SelectPiece moves the cursor to the piece with the given ID; a negative
// ID clears the selection. Returns false when the piece does not exist or
// already left the board.
func (g *Game) SelectPiece(id int) bool {
	if g.play == nil {
		return false
	}
	if id < 0 {
		g.cursorID = -1
		return true
	}
	if g.play.Removed(id) {
		return false
	}
	g.cursorID = id
	return true
}

// Step advances the round by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.play == nil {
		if g.stepper != nil {
			for i := 0; i < genStepsPerTick; i++ {
				if g.stepper.Step() {
					break
				}
			}
			if g.stepper.Done() {
				g.install(g.stepper.Result())
				g.stepper = nil
			}
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.over() {
		g.paused = !g.paused
	}
	if g.paused || g.over() {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(0, -1)
	case in.Has(core.ActionDown):
		g.moveCursor(0, 1)
	case in.Has(core.ActionLeft):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionRight):
		g.moveCursor(1, 0)
	}

	if in.Has(core.ActionHint) {
		if id, ok := g.play.Hint(); ok {
			g.hintID = id
			g.say("hint: the marked piece is free to go")
		}
	}
	if in.Has(core.ActionConfirm) {
		g.removeSelected()
	}
	if in.Has(core.ActionHammer) {
		g.hammerSelected()
	}
	if in.Has(core.ActionShuffle) {
		g.shuffleBoard()
	}

	return core.StepResult{State: g.State()}
}

// restart regenerates the current level with a fresh seed.
func (g *Game) restart() {
	cfg := g.cfg
	cfg.Seed = g.rng.Next()
	g.Reset(cfg)
}

func (g *Game) removeSelected() {
	if g.cursorID < 0 {
		return
	}
	id := g.cursorID
	_, err := g.play.Remove(id)
	switch {
	case errors.Is(err, puzzle.ErrNotRemovable):
		g.say("blocked: clear the pieces in its path first")
		return
	case err != nil:
		return
	}
	g.afterRemoval(id)
}

func (g *Game) hammerSelected() {
	if g.cursorID < 0 {
		return
	}
	id := g.cursorID
	_, err := g.play.UseHammer(id)
	switch {
	case errors.Is(err, puzzle.ErrNoCharges):
		g.say("no hammers left")
		return
	case err != nil:
		return
	}
	g.say("hammered")
	g.afterRemoval(id)
}

func (g *Game) shuffleBoard() {
	err := g.play.UseShuffle(g.rng)
	switch {
	case errors.Is(err, puzzle.ErrNoCharges):
		g.say("no shuffles left")
	case err != nil:
		g.say("shuffle failed, board unchanged")
	default:
		g.hintID = -1
		g.say("shuffled")
	}
}

// afterRemoval reseats the cursor and clears a consumed hint.
func (g *Game) afterRemoval(id int) {
	if g.hintID == id {
		g.hintID = -1
	}
	if g.cursorID == id {
		g.cursorID = g.nearestAlive(id)
	}
	switch g.play.Status() {
	case puzzle.StatusWon:
		g.say("level clear")
	case puzzle.StatusDeadlocked:
		g.say("no moves left")
	}
}

// nearestAlive returns the alive piece closest to the given piece's old
// position, or -1 when the board is empty.
func (g *Game) nearestAlive(fromID int) int {
	from := g.play.Piece(fromID)
	best, bestDist := -1, 0.0
	for _, p := range g.result.Pieces {
		if g.play.Removed(p.ID) {
			continue
		}
		d := 0.0
		if from != nil {
			dv := p.Center.Sub(from.Center)
			d = dv.Dot(dv)
		}
		if best == -1 || d < bestDist {
			best, bestDist = p.ID, d
		}
	}
	return best
}

// moveCursor selects the nearest alive piece in the given screen direction.
// Candidates must lie in the half-plane of travel; among them the one with
// the smallest forward distance plus lateral drift wins.
func (g *Game) moveCursor(dx, dy float64) {
	cur := g.play.Piece(g.cursorID)
	if cur == nil || g.play.Removed(g.cursorID) {
		g.cursorID = g.nearestAlive(g.cursorID)
		return
	}
	best, bestScore := -1, 0.0
	for _, p := range g.result.Pieces {
		if p.ID == g.cursorID || g.play.Removed(p.ID) {
			continue
		}
		d := p.Center.Sub(cur.Center)
		along := d.X*dx + d.Y*dy
		if along < 1e-6 {
			continue
		}
		cross := d.X*dy - d.Y*dx
		if cross < 0 {
			cross = -cross
		}
		score := along + 0.5*cross
		if best == -1 || score < bestScore {
			best, bestScore = p.ID, score
		}
	}
	if best >= 0 {
		g.cursorID = best
	}
}

// say shows a transient message on the status line.
func (g *Game) say(text string) {
	g.message = text
	ticks := uint64(g.cfg.TickRate) * uint64(messageDuration/time.Second)
	if ticks == 0 {
		ticks = 90
	}
	g.messageUntil = g.tick + ticks
}

func (g *Game) over() bool {
	return g.play != nil && g.play.Status() != puzzle.StatusPlaying
}

// State returns the platform-facing snapshot of the round.
func (g *Game) State() core.GameState {
	st := core.GameState{Level: g.cfg.Level, Generating: g.play == nil}
	if g.play == nil {
		return st
	}
	st.Moves = g.play.Moves()
	st.Remaining = g.play.Remaining()
	st.Hammers = g.play.Hammers
	st.Shuffles = g.play.Shuffles
	st.Won = g.play.Status() == puzzle.StatusWon
	st.Deadlocked = g.play.Status() == puzzle.StatusDeadlocked
	st.Paused = g.paused
	return st
}
