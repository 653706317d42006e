package hub75

import "ledmaze/render"

// Frame is an in-memory panel. It decodes the pixel stream the same way
// the hardware does, which makes it usable as a simulator display.
type Frame struct {
	pixels  [render.Rows][render.Columns]render.Color
	pending render.Line
	cursor  int
	row     int
	pages   uint32
}

// NewFrame returns a dark frame
func NewFrame() *Frame {
	return &Frame{}
}

// NextPixel shifts one code in. Codes past the panel width fall off.
func (f *Frame) NextPixel(c render.Code) {
	if f.cursor < render.Columns {
		f.pending[f.cursor] = c
	}
	f.cursor++
}

// WriteLine shifts in a whole line
func (f *Frame) WriteLine(line *render.Line) {
	f.pending = *line
	f.cursor = render.Columns
}

// NextLine latches into the following row
func (f *Frame) NextLine() {
	f.row = (f.row + 1) % render.ScanRows
	f.latch()
}

// NextPage latches into row 0
func (f *Frame) NextPage() {
	f.row = 0
	f.pages++
	f.latch()
}

// Flush latches into the current row
func (f *Frame) Flush() {
	f.latch()
}

func (f *Frame) latch() {
	for x, c := range f.pending {
		f.pixels[f.row][x] = c.Color(render.Upper)
		f.pixels[f.row+render.ScanRows][x] = c.Color(render.Lower)
	}
	f.cursor = 0
}

// Pixel returns the color at panel coordinate (x, y)
func (f *Frame) Pixel(x, y int) render.Color {
	if x < 0 || x >= render.Columns || y < 0 || y >= render.Rows {
		return render.Black
	}
	return f.pixels[y][x]
}

// Pages returns how many times row 0 was latched
func (f *Frame) Pages() uint32 {
	return f.pages
}
