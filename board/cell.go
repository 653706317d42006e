// Package board maps maze cells to the continuous coordinate space the
// ball moves in and resolves ball moves against the maze walls.
package board

import "ledmaze/maze"

const (
	// Scale is the number of position units per screen pixel
	Scale = 16

	// Pitch is the number of screen pixels per maze cell. Pixel 0 of each
	// pitch is the wall line, the other three are corridor.
	Pitch = 4

	// CellUnits is the span of one maze cell in position units
	CellUnits = Pitch * Scale

	// CellSize is the width and height of a cell's open box
	CellSize = (Pitch - 1) * Scale

	FieldWidth  = maze.Width * CellUnits
	FieldHeight = maze.Height * CellUnits
)

// Position is a ball position in sub-pixel units
type Position struct {
	X uint16
	Y uint16
}

// Pixel returns the screen pixel a position falls on
func (p Position) Pixel() (x, y uint8) {
	return uint8(p.X / Scale), uint8(p.Y / Scale)
}

// Point returns the maze cell whose pitch contains p
func (p Position) Point() maze.Point {
	return maze.Clamp(int(p.X/CellUnits), int(p.Y/CellUnits))
}

// Cell is the open box of one maze cell in position units
type Cell struct {
	Point  maze.Point
	Origin Position
	Size   uint16
}

// OfPoint returns the box of maze cell p
func OfPoint(p maze.Point) Cell {
	return Cell{
		Point: p,
		Origin: Position{
			X: (uint16(p.X)*Pitch + 1) * Scale,
			Y: (uint16(p.Y)*Pitch + 1) * Scale,
		},
		Size: CellSize,
	}
}

// OfBallPoint returns the box of the cell whose pitch contains pos.
// Every position maps to exactly one cell; positions on a wall line map
// to the cell to their right or below.
func OfBallPoint(pos Position) Cell {
	return OfPoint(pos.Point())
}

// Contains reports whether pos lies in the half-open box
func (c Cell) Contains(pos Position) bool {
	return pos.X >= c.Origin.X && pos.X < c.Origin.X+c.Size &&
		pos.Y >= c.Origin.Y && pos.Y < c.Origin.Y+c.Size
}

// BoundX clamps pos.X into the box
func (c Cell) BoundX(pos *Position) {
	if pos.X < c.Origin.X {
		pos.X = c.Origin.X
	} else if pos.X > c.Origin.X+c.Size-1 {
		pos.X = c.Origin.X + c.Size - 1
	}
}

// BoundY clamps pos.Y into the box
func (c Cell) BoundY(pos *Position) {
	if pos.Y < c.Origin.Y {
		pos.Y = c.Origin.Y
	} else if pos.Y > c.Origin.Y+c.Size-1 {
		pos.Y = c.Origin.Y + c.Size - 1
	}
}

// Center returns the middle of the cell's corridor
func (c Cell) Center() Position {
	return Position{X: c.Origin.X + Scale, Y: c.Origin.Y + Scale}
}

// Start returns the ball position for a round starting at p
func Start(p maze.Point) Position {
	return OfPoint(p).Center()
}
