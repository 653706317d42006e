package maze

import "strings"

// Maze is a fixed-size grid of cells separated by walls.
//
// Only the top and left edge of every cell is stored. The right wall of a
// cell is the left bit of its right neighbor and the bottom wall is the
// top bit of the cell below. The outer right and bottom boundaries have
// no bits and are always walls.
type Maze struct {
	Top   WallGrid
	Left  WallGrid
	Start Point
	End   Point
}

// NewMaze returns a maze with every wall present
func NewMaze() *Maze {
	m := &Maze{}
	m.Reset()
	return m
}

// Reset raises every wall and zeroes start and end
func (m *Maze) Reset() {
	m.Top.Fill(true)
	m.Left.Fill(true)
	m.Start = Point{}
	m.End = Point{}
}

// BreakWall clears the wall of p facing dir. Walls on the outer boundary
// are left untouched.
func (m *Maze) BreakWall(p Point, dir Direction) {
	switch dir {
	case Left:
		if p.X > 0 {
			m.Left.Set(p, false)
		}
	case Top:
		if p.Y > 0 {
			m.Top.Set(p, false)
		}
	case Right:
		if n, ok := p.Right(); ok {
			m.Left.Set(n, false)
		}
	case Bottom:
		if n, ok := p.Bottom(); ok {
			m.Top.Set(n, false)
		}
	}
}

// HasWall reports whether the side of p facing dir is closed
func (m *Maze) HasWall(p Point, dir Direction) bool {
	switch dir {
	case Left:
		return m.Left.Get(p)
	case Top:
		return m.Top.Get(p)
	case Right:
		if n, ok := p.Right(); ok {
			return m.Left.Get(n)
		}
	case Bottom:
		if n, ok := p.Bottom(); ok {
			return m.Top.Get(n)
		}
	}
	return true
}

// Connected reports whether the ball may pass between a and b: the
// same cell, or grid neighbors with the wall between them cleared.
func (m *Maze) Connected(a, b Point) bool {
	if a == b {
		return true
	}
	dir, ok := a.Adjacent(b)
	if !ok {
		return false
	}
	return !m.HasWall(a, dir)
}

// BrokenWalls counts the cleared interior walls. The left column and top
// row bits are never cleared on the boundary.
func (m *Maze) BrokenWalls() int {
	return m.Top.Count(false) + m.Left.Count(false)
}

// String draws the maze in ASCII, S and E marking start and end
func (m *Maze) String() string {
	var sb strings.Builder
	sb.Grow((Width*2 + 2) * (Height*2 + 1))
	for y := uint8(0); y < Height; y++ {
		for x := uint8(0); x < Width; x++ {
			sb.WriteByte('+')
			if m.Top.Get(Point{X: x, Y: y}) {
				sb.WriteByte('-')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("+\n")
		for x := uint8(0); x < Width; x++ {
			p := Point{X: x, Y: y}
			if m.Left.Get(p) {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(' ')
			}
			switch p {
			case m.Start:
				sb.WriteByte('S')
			case m.End:
				sb.WriteByte('E')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	for x := 0; x < Width; x++ {
		sb.WriteString("+-")
	}
	sb.WriteString("+\n")
	return sb.String()
}
