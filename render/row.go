package render

import (
	"ledmaze/board"
	"ledmaze/maze"
)

// Colors of the maze elements
const (
	WallColor  = Red
	StartColor = Green
	EndColor   = Blue
	BallColor  = White
)

// Row fills line with scan row row (0..31) of m with the ball at ball.
//
// Each maze row spans four scan rows. Scan rows that are a multiple of
// four carry the top walls, the others carry the left walls and the
// start and end markers. The upper half panel shows maze rows 0..7 and
// the lower half rows 8..15 on the same scan row.
func Row(m *maze.Maze, ball board.Position, row uint8, line *Line) {
	row &= ScanRows - 1
	line.Clear()

	for h := Upper; h <= Lower; h++ {
		y := row/4 + uint8(h)*MazeRowsPerHalf
		if row%4 == 0 {
			topLine(m, y, Make(h, WallColor), line)
		} else {
			sideLine(m, y, h, line)
		}
	}

	bx, by := ball.Pixel()
	if int(bx) < Columns {
		for h := Upper; h <= Lower; h++ {
			if by == row+uint8(h)*ScanRows {
				line[bx] |= Make(h, BallColor)
			}
		}
	}
}

// topLine draws the corner dot and top wall of every cell in maze row y.
// A corner is lit when any wall meeting there is present.
func topLine(m *maze.Maze, y uint8, wall Code, line *Line) {
	tops := m.Top.Row(y)
	lefts := m.Left.Row(y)
	var above maze.RowIter
	if y > 0 {
		above = m.Left.Row(y - 1)
	}

	prevTop := false
	for x := 0; x < Columns; x += board.Pitch {
		top, _ := tops.Next()
		left, _ := lefts.Next()
		up, _ := above.Next()

		if top || left || prevTop || up {
			line[x] |= wall
		}
		if top {
			line[x+1] |= wall
			line[x+2] |= wall
			line[x+3] |= wall
		}
		prevTop = top
	}
}

// sideLine draws the left wall of every cell in maze row y plus the
// start and end markers when they sit in this row.
func sideLine(m *maze.Maze, y uint8, h Half, line *Line) {
	wall := Make(h, WallColor)
	lefts := m.Left.Row(y)
	for x := 0; x < Columns; x += board.Pitch {
		if left, _ := lefts.Next(); left {
			line[x] |= wall
		}
	}

	if m.Start.Y == y {
		marker(line, m.Start.X, Make(h, StartColor))
	}
	if m.End.Y == y && m.End != m.Start {
		marker(line, m.End.X, Make(h, EndColor))
	}
}

func marker(line *Line, col uint8, c Code) {
	x := int(col) * board.Pitch
	line[x+1] |= c
	line[x+2] |= c
	line[x+3] |= c
}
