package game

import (
	"strconv"

	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/puzzle"
)

const hudHeight = 4

// Render draws the round into the screen buffer. Layout: a four-row HUD,
// the projected board, and a one-row status line at the bottom.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.play == nil {
		g.renderOverlay(dst, "Generating level "+strconv.Itoa(g.cfg.Level)+dots(g.tick), "")
		return
	}

	g.renderBoard(dst)
	g.renderMessage(dst)

	switch {
	case g.play.Status() == puzzle.StatusWon:
		g.renderOverlay(dst, "Level clear!", "N: next  R: again  Esc: menu")
	case g.play.Status() == puzzle.StatusDeadlocked:
		g.renderOverlay(dst, "No moves left", "R: retry  Esc: menu")
	case g.paused:
		g.renderOverlay(dst, "Paused", "P: continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := " Slideaway | Level " + strconv.Itoa(g.cfg.Level)
	if g.play != nil {
		hud += " | Pieces " + strconv.Itoa(g.play.Remaining()) +
			" | Moves " + strconv.Itoa(g.play.Moves()) +
			" | Hammer x" + strconv.Itoa(g.play.Hammers) +
			" | Shuffle x" + strconv.Itoa(g.play.Shuffles)
	}
	dst.DrawTextColored(0, 0, hud, core.ColorCyan)
	dst.DrawHLine(0, 1, dst.Width(), '─')

	controls := " Arrows: Select | Space: Remove | X: Hammer | S: Shuffle | H: Hint | P: Pause | R: Restart"
	dst.DrawTextColored(0, 2, controls, core.ColorGray)
	dst.DrawHLine(0, 3, dst.Width(), '─')
}

// renderBoard projects the abstract pixel board onto the character grid.
// Each piece becomes two glyphs: a block at its tail cell and an arrow at
// its head cell pointing along the exit direction.
func (g *Game) renderBoard(dst *core.Screen) {
	availW := dst.Width() - 2
	availH := dst.Height() - hudHeight - 2
	if availW < 4 || availH < 4 {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	spec := g.result.Board
	sx := float64(availW-1) / spec.Width
	sy := float64(availH-1) / spec.Height
	project := func(v puzzle.Vec) (int, int) {
		return 1 + int(v.X*sx), hudHeight + int(v.Y*sy)
	}

	spacing := spec.PieceSize + spec.Gap
	for _, p := range g.result.Pieces {
		if g.play.Removed(p.ID) {
			continue
		}
		c := kindColor(p.Kind)
		switch {
		case p.ID == g.cursorID:
			c = core.ColorBrightYellow
		case p.ID == g.hintID:
			c = core.ColorBrightCyan
		}

		head := p.Center.Add(p.Dir.Vector().Scale(spacing / 2))
		tail := p.Center.Sub(p.Dir.Vector().Scale(spacing / 2))
		tx, ty := project(tail)
		hx, hy := project(head)
		dst.SetColored(tx, ty, '█', c)
		dst.SetColored(hx, hy, dirRune(p.Dir), c)
	}
}

func (g *Game) renderMessage(dst *core.Screen) {
	if g.message == "" || g.tick >= g.messageUntil {
		return
	}
	dst.DrawTextColored(1, dst.Height()-1, g.message, core.ColorBrightYellow)
}

// renderOverlay draws a centered boxed message over the board.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	maxLen := len(line1)
	if len(line2) > maxLen {
		maxLen = len(line2)
	}
	boxW := maxLen + 4
	boxH := 5
	box := core.Rect{
		X: (dst.Width() - boxW) / 2,
		Y: (dst.Height() - boxH) / 2,
		W: boxW,
		H: boxH,
	}
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	if line2 != "" {
		dst.DrawTextCentered(box.Y+3, line2)
	}
}

// dots animates a trailing ellipsis from the tick counter.
func dots(tick uint64) string {
	return "..."[:1+int(tick/10%3)]
}

func dirRune(d puzzle.Dir) rune {
	switch d {
	case puzzle.DirUpRight:
		return '↗'
	case puzzle.DirDownLeft:
		return '↙'
	case puzzle.DirUpLeft:
		return '↖'
	case puzzle.DirDownRight:
		return '↘'
	default:
		return '?'
	}
}

func kindColor(k puzzle.Kind) core.Color {
	switch k {
	case puzzle.KindAmber:
		return core.ColorYellow
	case puzzle.KindJade:
		return core.ColorGreen
	case puzzle.KindCobalt:
		return core.ColorBlue
	case puzzle.KindRose:
		return core.ColorMagenta
	case puzzle.KindIvory:
		return core.ColorWhite
	default:
		return core.ColorGray
	}
}
