// Package hub75 clocks rendered scan lines into a HUB75 LED panel.
//
// The panel is two half panels sharing the clock, latch and row address
// lines. Each column code carries R1 G1 B1 for the upper half and R2 G2 B2
// for the lower half. The row address is a shift register: NextPage
// shifts in a one to select row 0 and NextLine shifts in a zero to move
// to the following row.
package hub75

import "ledmaze/render"

// Sink receives pixel codes in column order
type Sink interface {
	NextPixel(c render.Code)
	NextLine()
	NextPage()
	Flush()
}

// LineSink is implemented by sinks that take a whole line at once
type LineSink interface {
	Sink
	WriteLine(line *render.Line)
}

// RowSource renders one scan row
type RowSource interface {
	RenderRow(row uint8, line *render.Line)
}

// Scanner refreshes the panel one scan row per Tick
type Scanner struct {
	src  RowSource
	sink Sink
	row  uint8
	line render.Line

	lines uint32
}

// NewScanner returns a scanner starting at row 0
func NewScanner(src RowSource, sink Sink) *Scanner {
	return &Scanner{src: src, sink: sink}
}

// Tick renders the next scan row and clocks it out
func (s *Scanner) Tick() {
	row := s.row
	s.src.RenderRow(row, &s.line)

	if ls, ok := s.sink.(LineSink); ok {
		ls.WriteLine(&s.line)
	} else {
		for _, c := range s.line {
			s.sink.NextPixel(c)
		}
	}
	if row == 0 {
		s.sink.NextPage()
	} else {
		s.sink.NextLine()
	}

	s.row = (row + 1) % render.ScanRows
	s.lines++
}

// Refresh scans a complete frame
func (s *Scanner) Refresh() {
	for i := 0; i < render.ScanRows; i++ {
		s.Tick()
	}
}

// Row returns the scan row the next Tick renders
func (s *Scanner) Row() uint8 {
	return s.row
}

// Lines returns the number of rows scanned so far
func (s *Scanner) Lines() uint32 {
	return s.lines
}
