package board

import "ledmaze/maze"

func clampAxis(v int32, limit int32) uint16 {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return uint16(limit - 1)
	}
	return uint16(v)
}

// OnWall reports whether pos falls on a lit wall pixel of m. A corner
// pixel is lit when any of the four walls meeting there is closed, the
// same rule the row renderer draws with.
func OnWall(m *maze.Maze, pos Position) bool {
	c := OfBallPoint(pos)
	onLeft := pos.X < c.Origin.X
	onTop := pos.Y < c.Origin.Y

	switch {
	case onLeft && onTop:
		if m.HasWall(c.Point, maze.Top) || m.HasWall(c.Point, maze.Left) {
			return true
		}
		if p, ok := c.Point.Left(); ok && m.HasWall(p, maze.Top) {
			return true
		}
		if p, ok := c.Point.Top(); ok && m.HasWall(p, maze.Left) {
			return true
		}
		return false
	case onLeft:
		return m.HasWall(c.Point, maze.Left)
	case onTop:
		return m.HasWall(c.Point, maze.Top)
	}
	return false
}

// Resolve moves cur by (dx, dy) inside m and reports whether a wall
// stopped either axis.
//
// X is resolved before Y, and the Y pass starts from the cell the X pass
// ended in, so a diagonal move into a wall slides along it. An axis is
// clamped back into its cell when the move would cross into a neighbor
// that is not connected, or land on any closed wall pixel, including a
// wall line running along the axis of travel.
func Resolve(m *maze.Maze, cur Position, dx, dy int32) (Position, bool) {
	blocked := false
	pos := cur

	if dx != 0 {
		from := OfBallPoint(pos)
		next := Position{X: clampAxis(int32(pos.X)+dx, FieldWidth), Y: pos.Y}
		to := OfBallPoint(next)
		if !m.Connected(from.Point, to.Point) || OnWall(m, next) {
			from.BoundX(&next)
			blocked = true
		}
		pos = next
	}

	if dy != 0 {
		from := OfBallPoint(pos)
		next := Position{X: pos.X, Y: clampAxis(int32(pos.Y)+dy, FieldHeight)}
		to := OfBallPoint(next)
		if !m.Connected(from.Point, to.Point) || OnWall(m, next) {
			from.BoundY(&next)
			blocked = true
		}
		pos = next
	}

	return pos, blocked
}
