// Package status draws a summary of the running game on a small
// monochrome display next to the LED matrix.
package status

import (
	"image/color"

	"tinygo.org/x/drivers"

	"ledmaze/board"
	"ledmaze/game"
	"ledmaze/maze"
)

var (
	On  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Off = color.RGBA{A: 255}
)

// Layout in display pixels
const (
	DigitScale = 3
	MapScale   = 2
	MapX       = 0
	MapY       = 24
	BarHeight  = 2
	MaxDigits  = 5
)

// Status is what the panel shows
type Status struct {
	Round uint32
	Start maze.Point
	End   maze.Point
	Bumps uint32
	Goals uint32
}

// Panel renders Status onto a display. It also listens to game events
// and redraws on the next Refresh when anything changed.
type Panel struct {
	display drivers.Displayer
	status  Status
	dirty   bool
}

var _ game.Listener = (*Panel)(nil)

func NewPanel(d drivers.Displayer) *Panel {
	return &Panel{display: d, dirty: true}
}

// Status returns the last values drawn or queued
func (p *Panel) Status() Status {
	return p.status
}

// Set replaces the status and marks the panel for redraw
func (p *Panel) Set(s Status) {
	p.status = s
	p.dirty = true
}

func (p *Panel) RoundStarted(r game.Round) {
	p.status.Round = r.Number
	p.status.Start = r.Start
	p.status.End = r.End
	p.status.Bumps = 0
	p.dirty = true
}

func (p *Panel) Bumped(board.Position) {
	p.status.Bumps++
	p.dirty = true
}

func (p *Panel) GoalReached(game.Round) {
	p.status.Goals++
	p.dirty = true
}

// Dirty reports whether Refresh would redraw
func (p *Panel) Dirty() bool {
	return p.dirty
}

// Refresh redraws the display if the status changed
func (p *Panel) Refresh() error {
	if !p.dirty {
		return nil
	}
	p.dirty = false
	return p.Draw()
}

// Draw renders the current status and pushes it to the display
func (p *Panel) Draw() error {
	w, h := p.display.Size()
	p.fill(0, 0, w, h, Off)

	// round number top left, goals top right
	p.number(1, 1, p.status.Round, DigitScale)
	gw := numberWidth(p.status.Goals, 1)
	p.number(w-gw-1, 1, p.status.Goals, 1)

	// maze outline with start and end cells
	mw := int16(maze.Width*MapScale + 2)
	mh := int16(maze.Height*MapScale + 2)
	p.rect(MapX, MapY, mw, mh)
	p.cell(p.status.Start, false)
	p.cell(p.status.End, true)

	// bump bar along the bottom edge
	n := w
	if p.status.Bumps < uint32(w) {
		n = int16(p.status.Bumps)
	}
	p.fill(0, h-BarHeight, n, BarHeight, On)

	return p.display.Display()
}

func (p *Panel) fill(x, y, w, h int16, c color.RGBA) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			p.display.SetPixel(i, j, c)
		}
	}
}

func (p *Panel) rect(x, y, w, h int16) {
	p.fill(x, y, w, 1, On)
	p.fill(x, y+h-1, w, 1, On)
	p.fill(x, y, 1, h, On)
	p.fill(x+w-1, y, 1, h, On)
}

// cell marks a maze cell on the map. The end cell is drawn hollow.
func (p *Panel) cell(pt maze.Point, hollow bool) {
	x := MapX + 1 + int16(pt.X)*MapScale
	y := MapY + 1 + int16(pt.Y)*MapScale
	if hollow {
		p.display.SetPixel(x, y, On)
		p.display.SetPixel(x+1, y+1, On)
		return
	}
	p.fill(x, y, MapScale, MapScale, On)
}

func numberWidth(v uint32, scale int16) int16 {
	n := int16(1)
	for v >= 10 {
		v /= 10
		n++
	}
	if n > MaxDigits {
		n = MaxDigits
	}
	return n*(glyphWidth+1)*scale - scale
}

// number draws v right to left so it needs no buffer. Values with more
// than MaxDigits digits show their low digits.
func (p *Panel) number(x, y int16, v uint32, scale int16) {
	width := numberWidth(v, scale)
	cx := x + width - glyphWidth*scale
	for i := 0; i < MaxDigits; i++ {
		p.glyph(cx, y, digits[v%10], scale)
		v /= 10
		if v == 0 {
			break
		}
		cx -= (glyphWidth + 1) * scale
	}
}

func (p *Panel) glyph(x, y int16, g [glyphHeight]uint8, scale int16) {
	for row := int16(0); row < glyphHeight; row++ {
		for col := int16(0); col < glyphWidth; col++ {
			if g[row]&(1<<(glyphWidth-1-col)) != 0 {
				p.fill(x+col*scale, y+row*scale, scale, scale, On)
			}
		}
	}
}
