// Package maze holds the fixed-size maze model: cell addresses, the
// bit-packed wall grids and the stack-free spanning-tree generator.
package maze

// Grid dimensions compiled into the firmware
const (
	Width  = 32
	Height = 16

	// Cells is the number of cells in the grid
	Cells = Width * Height
)

// Point addresses one maze cell. Values are always inside the grid.
type Point struct {
	X uint8
	Y uint8
}

// Direction is a one-hot edge direction. The same encoding is used for
// the generator's incoming and outgoing nibbles.
type Direction uint8

const (
	Left   Direction = 1 << iota // 0b0001
	Right                        // 0b0010
	Top                          // 0b0100
	Bottom                       // 0b1000

	AllDirections Direction = Left | Right | Top | Bottom
)

// directions lists the four directions in draw order
var directions = [4]Direction{Left, Right, Top, Bottom}

// Opposite returns the direction pointing back across the same edge
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	case Bottom:
		return Top
	}
	return 0
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "none"
}

// Left returns the neighbor to the left, false on the left edge
func (p Point) Left() (Point, bool) {
	if p.X == 0 {
		return p, false
	}
	return Point{X: p.X - 1, Y: p.Y}, true
}

// Right returns the neighbor to the right, false on the right edge
func (p Point) Right() (Point, bool) {
	if p.X+1 == Width {
		return p, false
	}
	return Point{X: p.X + 1, Y: p.Y}, true
}

// Top returns the neighbor above, false on the top edge
func (p Point) Top() (Point, bool) {
	if p.Y == 0 {
		return p, false
	}
	return Point{X: p.X, Y: p.Y - 1}, true
}

// Bottom returns the neighbor below, false on the bottom edge
func (p Point) Bottom() (Point, bool) {
	if p.Y+1 == Height {
		return p, false
	}
	return Point{X: p.X, Y: p.Y + 1}, true
}

// Step returns the neighbor in the given direction
func (p Point) Step(d Direction) (Point, bool) {
	switch d {
	case Left:
		return p.Left()
	case Right:
		return p.Right()
	case Top:
		return p.Top()
	case Bottom:
		return p.Bottom()
	}
	return p, false
}

// Adjacent reports the direction from p to q when they share an edge
func (p Point) Adjacent(q Point) (Direction, bool) {
	switch {
	case p.Y == q.Y && p.X+1 == q.X:
		return Right, true
	case p.Y == q.Y && q.X+1 == p.X:
		return Left, true
	case p.X == q.X && p.Y+1 == q.Y:
		return Bottom, true
	case p.X == q.X && q.Y+1 == p.Y:
		return Top, true
	}
	return 0, false
}

// Clamp returns a Point with coordinates forced into the grid
func Clamp(x, y int) Point {
	if x < 0 {
		x = 0
	} else if x >= Width {
		x = Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= Height {
		y = Height - 1
	}
	return Point{X: uint8(x), Y: uint8(y)}
}
