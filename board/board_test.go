package board

import (
	"testing"

	"ledmaze/maze"
)

func TestCellContainsCenter(t *testing.T) {
	for y := uint8(0); y < maze.Height; y++ {
		for x := uint8(0); x < maze.Width; x++ {
			p := maze.Point{X: x, Y: y}
			c := OfPoint(p)
			if !c.Contains(c.Center()) {
				t.Errorf("cell %v does not contain its center %v", p, c.Center())
			}
			if got := OfBallPoint(c.Center()).Point; got != p {
				t.Errorf("center of %v quantizes to %v", p, got)
			}
		}
	}
}

func TestCellBoundary(t *testing.T) {
	c := OfPoint(maze.Point{X: 3, Y: 2})
	o := c.Origin

	cases := []struct {
		pos  Position
		want bool
	}{
		{o, true},
		{Position{o.X + c.Size - 1, o.Y + c.Size - 1}, true},
		{Position{o.X - 1, o.Y}, false},
		{Position{o.X, o.Y - 1}, false},
		{Position{o.X + c.Size, o.Y}, false},
		{Position{o.X, o.Y + c.Size}, false},
	}
	for _, tc := range cases {
		if got := c.Contains(tc.pos); got != tc.want {
			t.Errorf("Contains(%v) = %v, expected %v", tc.pos, got, tc.want)
		}
	}
}

func TestBound(t *testing.T) {
	c := OfPoint(maze.Point{X: 1, Y: 1})
	pos := Position{X: 0, Y: 60000}
	c.BoundX(&pos)
	c.BoundY(&pos)
	if pos.X != c.Origin.X || pos.Y != c.Origin.Y+c.Size-1 {
		t.Errorf("bounded to %v", pos)
	}
	if !c.Contains(pos) {
		t.Errorf("bounded position %v outside cell", pos)
	}
}

func TestQuantizationCovers(t *testing.T) {
	// every x maps to one cell and cells tile the field in order
	last := maze.Point{}
	for x := 0; x < FieldWidth; x++ {
		p := Position{X: uint16(x)}.Point()
		if int(p.X) != x/CellUnits {
			t.Fatalf("x=%d maps to column %d", x, p.X)
		}
		if p.X < last.X {
			t.Fatalf("quantization not monotonic at x=%d", x)
		}
		last = p
	}
}

func TestStart(t *testing.T) {
	p := maze.Point{X: 5, Y: 7}
	s := Start(p)
	if s.X != (5*Pitch+2)*Scale || s.Y != (7*Pitch+2)*Scale {
		t.Errorf("Start(%v) = %v", p, s)
	}
	if px, py := s.Pixel(); px != 22 || py != 30 {
		t.Errorf("start pixel = (%d,%d)", px, py)
	}
}

func TestResolveBlocked(t *testing.T) {
	m := maze.NewMaze()
	p := maze.Point{X: 4, Y: 4}
	c := OfPoint(p)
	pos := c.Center()

	got, blocked := Resolve(m, pos, CellUnits, 0)
	if !blocked {
		t.Error("move into walled neighbor not reported blocked")
	}
	if got.Point() != p || !c.Contains(got) {
		t.Errorf("blocked move left the cell: %v", got)
	}
	if got.X != c.Origin.X+c.Size-1 {
		t.Errorf("blocked X = %d, expected %d", got.X, c.Origin.X+c.Size-1)
	}

	got, blocked = Resolve(m, pos, -CellUnits, 0)
	if !blocked || got.X != c.Origin.X {
		t.Errorf("blocked left move = %v blocked=%v", got, blocked)
	}
}

func TestResolveOwnWallLine(t *testing.T) {
	m := maze.NewMaze()
	c := OfPoint(maze.Point{X: 4, Y: 4})
	pos := c.Center()

	// a small step onto the closed left wall line stays in the box
	got, blocked := Resolve(m, pos, -(Scale + 4), 0)
	if !blocked || got.X != c.Origin.X {
		t.Errorf("step onto wall line = %v blocked=%v", got, blocked)
	}

	m.BreakWall(c.Point, maze.Left)
	got, blocked = Resolve(m, pos, -(Scale + 4), 0)
	if blocked || got.X != pos.X-(Scale+4) {
		t.Errorf("step through open wall line = %v blocked=%v", got, blocked)
	}
}

func TestResolveOpen(t *testing.T) {
	m := maze.NewMaze()
	p := maze.Point{X: 4, Y: 4}
	m.BreakWall(p, maze.Right)
	pos := Start(p)

	got, blocked := Resolve(m, pos, CellUnits, 0)
	if blocked {
		t.Error("move through open wall reported blocked")
	}
	if got.Point() != (maze.Point{X: 5, Y: 4}) {
		t.Errorf("ball ended in %v", got.Point())
	}
}

func TestResolveDiagonalSlide(t *testing.T) {
	m := maze.NewMaze()
	p := maze.Point{X: 4, Y: 4}
	m.BreakWall(p, maze.Bottom)
	c := OfPoint(p)
	pos := c.Center()

	// right is walled, down is open
	got, blocked := Resolve(m, pos, CellUnits, CellUnits)
	if !blocked {
		t.Error("diagonal into wall not reported blocked")
	}
	if got.X != c.Origin.X+c.Size-1 {
		t.Errorf("blocked axis X = %d, expected %d", got.X, c.Origin.X+c.Size-1)
	}
	if got.Y != pos.Y+CellUnits {
		t.Errorf("open axis Y = %d, expected %d", got.Y, pos.Y+CellUnits)
	}
	if got.Point() != (maze.Point{X: 4, Y: 5}) {
		t.Errorf("ball ended in %v", got.Point())
	}
}

func TestResolveFieldClamp(t *testing.T) {
	m := maze.NewMaze()
	// open a corridor along the top row so only the field edge stops us
	for x := uint8(1); x < maze.Width; x++ {
		m.BreakWall(maze.Point{X: x, Y: 0}, maze.Left)
	}
	pos := Start(maze.Point{X: maze.Width - 1, Y: 0})
	got, _ := Resolve(m, pos, 10000, -10000)
	if got.X >= FieldWidth || got.Y >= FieldHeight {
		t.Errorf("position %v outside field", got)
	}
	if got.Point() != (maze.Point{X: maze.Width - 1, Y: 0}) {
		t.Errorf("ball ended in %v", got.Point())
	}
}

// leftGapMaze opens (0,0)-(1,0) and (1,0)-(1,1) and keeps the left wall
// of (1,1) closed, so the wall column under the (1,0) gap is lit.
func leftGapMaze() *maze.Maze {
	m := maze.NewMaze()
	m.BreakWall(maze.Point{X: 1, Y: 0}, maze.Left)
	m.BreakWall(maze.Point{X: 1, Y: 0}, maze.Bottom)
	return m
}

func TestResolveVerticalAlongClosedWallColumn(t *testing.T) {
	m := leftGapMaze()
	cur := Position{X: 72, Y: 40}
	if OnWall(m, cur) {
		t.Fatalf("start %v already on a wall", cur)
	}

	got, blocked := Resolve(m, cur, 0, 40)
	if !blocked {
		t.Error("move down the closed wall column not reported blocked")
	}
	if OnWall(m, got) {
		px, py := got.Pixel()
		t.Errorf("ball rests on a wall pixel (%d,%d) at %v", px, py, got)
	}
	if got.X != cur.X || got.Point() != (maze.Point{X: 1, Y: 0}) {
		t.Errorf("resolved to %v in %v", got, got.Point())
	}
}

func TestResolveHorizontalAlongClosedWallRow(t *testing.T) {
	m := maze.NewMaze()
	m.BreakWall(maze.Point{X: 0, Y: 1}, maze.Top)
	m.BreakWall(maze.Point{X: 0, Y: 1}, maze.Right)
	cur := Position{X: 40, Y: 72}
	if OnWall(m, cur) {
		t.Fatalf("start %v already on a wall", cur)
	}

	got, blocked := Resolve(m, cur, 40, 0)
	if !blocked {
		t.Error("move along the closed wall row not reported blocked")
	}
	if OnWall(m, got) {
		t.Errorf("ball rests on a wall pixel at %v", got)
	}
	if got.Y != cur.Y || got.Point() != (maze.Point{X: 0, Y: 1}) {
		t.Errorf("resolved to %v in %v", got, got.Point())
	}
}

func TestOnWallCorner(t *testing.T) {
	m := maze.NewMaze()
	p := maze.Point{X: 2, Y: 2}
	m.BreakWall(p, maze.Left)
	m.BreakWall(p, maze.Top)
	corner := Position{X: 2 * CellUnits, Y: 2 * CellUnits}

	// still lit by the top wall of (1,2) and the left wall of (2,1)
	if !OnWall(m, corner) {
		t.Error("corner with closed neighbor walls not on wall")
	}
	m.BreakWall(maze.Point{X: 1, Y: 2}, maze.Top)
	m.BreakWall(maze.Point{X: 2, Y: 1}, maze.Left)
	if OnWall(m, corner) {
		t.Error("corner with every meeting wall open reported on wall")
	}
}

func TestResolveNeverLandsOnWall(t *testing.T) {
	m := maze.NewMaze()
	maze.NewGenerator(7).Generate(m, maze.Point{})
	pos := Start(m.Start)
	steps := []struct{ dx, dy int32 }{
		{24, 0}, {0, 24}, {-24, 0}, {0, -24}, {17, 17}, {-17, 9}, {5, -23},
	}
	for i := 0; i < 2000; i++ {
		s := steps[i%len(steps)]
		pos, _ = Resolve(m, pos, s.dx, s.dy)
		if OnWall(m, pos) {
			t.Fatalf("step %d left the ball on a wall at %v", i, pos)
		}
	}
}
