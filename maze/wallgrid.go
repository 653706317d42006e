package maze

// rowBytes is the storage width of one grid row
const rowBytes = Width / 8

// GridBytes is the size of a WallGrid's raw storage
const GridBytes = Height * rowBytes

// WallGrid is one bit per cell for a single wall orientation,
// packed 8 bits per byte with bit x&7 of byte x>>3.
type WallGrid struct {
	bits [Height][rowBytes]byte
}

// NewWallGrid returns a grid with every bit set to initial
func NewWallGrid(initial bool) WallGrid {
	var g WallGrid
	g.Fill(initial)
	return g
}

// Fill sets every bit to value
func (g *WallGrid) Fill(value bool) {
	var b byte
	if value {
		b = 0xFF
	}
	for y := range g.bits {
		for i := range g.bits[y] {
			g.bits[y][i] = b
		}
	}
}

// Get returns the bit for p
func (g *WallGrid) Get(p Point) bool {
	return (g.bits[p.Y][p.X>>3]>>(p.X&7))&1 == 1
}

// Set writes the bit for p
func (g *WallGrid) Set(p Point, value bool) {
	mask := byte(1) << (p.X & 7)
	if value {
		g.bits[p.Y][p.X>>3] |= mask
	} else {
		g.bits[p.Y][p.X>>3] &^= mask
	}
}

// Count returns how many bits equal value
func (g *WallGrid) Count(value bool) int {
	n := 0
	for y := range g.bits {
		for _, b := range g.bits[y] {
			for ; b != 0; b &= b - 1 {
				n++
			}
		}
	}
	if value {
		return n
	}
	return Cells - n
}

// Bytes appends the raw row-major storage to dst
func (g *WallGrid) Bytes(dst []byte) []byte {
	for y := range g.bits {
		dst = append(dst, g.bits[y][:]...)
	}
	return dst
}

// SetBytes loads raw storage written by Bytes. It returns false if src
// is not exactly GridBytes long.
func (g *WallGrid) SetBytes(src []byte) bool {
	if len(src) != GridBytes {
		return false
	}
	for y := range g.bits {
		copy(g.bits[y][:], src[y*rowBytes:])
	}
	return true
}

// Row returns a restartable iterator over row y, left to right
func (g *WallGrid) Row(y uint8) RowIter {
	return RowIter{data: &g.bits[y]}
}

// Rows returns an iterator yielding one RowIter per row, top to bottom
func (g *WallGrid) Rows() GridIter {
	return GridIter{grid: g}
}

// RowIter scans one row of a WallGrid. The zero value is exhausted.
type RowIter struct {
	data    *[rowBytes]byte
	col     uint8
	buf     byte
	counter uint8
}

// Next returns the next bit and true, or false after Width values
func (it *RowIter) Next() (bool, bool) {
	if it.data == nil {
		return false, false
	}
	if it.counter == 0 {
		if it.col == rowBytes {
			return false, false
		}
		it.buf = it.data[it.col]
		it.col++
		it.counter = 8
	}
	it.counter--
	bit := it.buf&1 == 1
	it.buf >>= 1
	return bit, true
}

// Reset rewinds the iterator to column 0
func (it *RowIter) Reset() {
	it.col, it.buf, it.counter = 0, 0, 0
}

// GridIter walks the rows of a WallGrid
type GridIter struct {
	grid *WallGrid
	row  uint8
}

// Next returns the iterator for the next row and true, or false after
// Height rows
func (it *GridIter) Next() (RowIter, bool) {
	if it.grid == nil || it.row == Height {
		return RowIter{}, false
	}
	r := it.grid.Row(it.row)
	it.row++
	return r, true
}
