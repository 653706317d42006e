// Package render turns the maze and ball into per-scan-line pixel codes
// for a HUB75 panel driven as two half panels in parallel.
package render

// Color is a 3-bit RGB value, R in bit 2
type Color uint8

const (
	Black Color = 0b000
	Blue  Color = 0b001
	Green Color = 0b010
	Cyan  Color = 0b011
	Red   Color = 0b100
	Pink  Color = 0b101
	Amber Color = 0b110
	White Color = 0b111
)

// Code is one column of a scan line: R1 G1 B1 R2 G2 B2 in bits 5..0.
// The upper half panel uses bits 5..3, the lower half bits 2..0.
type Code uint8

// Panel geometry
const (
	Columns  = 128
	ScanRows = 32
	Rows     = ScanRows * 2

	// MazeRowsPerHalf is the number of maze rows shown by each half panel
	MazeRowsPerHalf = ScanRows / 4
)

// Half selects one of the two half panels
type Half uint8

const (
	Upper Half = 0
	Lower Half = 1
)

func (h Half) shift() uint8 {
	if h == Upper {
		return 3
	}
	return 0
}

// Make places a color on one half
func Make(h Half, c Color) Code {
	return Code(c&0b111) << h.shift()
}

// Color extracts the color for one half
func (c Code) Color(h Half) Color {
	return Color(c>>h.shift()) & 0b111
}

// Line is one scan line, one code per column
type Line [Columns]Code

// Clear zeroes every code
func (l *Line) Clear() {
	for i := range l {
		l[i] = 0
	}
}
