// Package snapshot stores a maze in a small binary file.
//
// Layout, little endian:
//
//	magic   "LMZ\x01"
//	width   uint16
//	height  uint16
//	start   uint8 x, uint8 y
//	end     uint8 x, uint8 y
//	top     uint16 length, wall bits
//	left    uint16 length, wall bits
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"github.com/magical/littlebyte"

	"ledmaze/maze"
)

// Extension is the file suffix used by the tools
const Extension = ".lmz"

const magic = "LMZ\x01"

var (
	ErrMagic      = errors.New("snapshot: invalid magic bytes")
	ErrTruncated  = errors.New("snapshot: unexpected end of data")
	ErrDimensions = errors.New("snapshot: maze dimensions do not match")
	ErrTrailing   = errors.New("snapshot: garbage at end of data")
)

// Encode serializes m
func Encode(m *maze.Maze) ([]byte, error) {
	var b = new(littlebyte.Builder)
	b.AddBytes([]byte(magic))
	b.AddUint16(maze.Width)
	b.AddUint16(maze.Height)
	b.AddUint8(m.Start.X)
	b.AddUint8(m.Start.Y)
	b.AddUint8(m.End.X)
	b.AddUint8(m.End.Y)
	b.AddUint16LengthPrefixed(func(b *littlebyte.Builder) {
		b.AddBytes(m.Top.Bytes(nil))
	})
	b.AddUint16LengthPrefixed(func(b *littlebyte.Builder) {
		b.AddBytes(m.Left.Bytes(nil))
	})
	return b.Bytes()
}

// Decode parses data written by Encode
func Decode(data []byte) (*maze.Maze, error) {
	s := littlebyte.String(data)
	var fileMagic []byte
	if !s.ReadBytes(&fileMagic, len(magic)) {
		return nil, ErrTruncated
	}
	if string(fileMagic) != magic {
		return nil, ErrMagic
	}

	var w, h uint16
	if !s.ReadUint16(&w) || !s.ReadUint16(&h) {
		return nil, ErrTruncated
	}
	if w != maze.Width || h != maze.Height {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, w, h)
	}

	m := maze.NewMaze()
	var sx, sy, ex, ey uint8
	if !s.ReadUint8(&sx) || !s.ReadUint8(&sy) || !s.ReadUint8(&ex) || !s.ReadUint8(&ey) {
		return nil, ErrTruncated
	}
	if sx >= maze.Width || ex >= maze.Width || sy >= maze.Height || ey >= maze.Height {
		return nil, fmt.Errorf("%w: start (%d,%d) end (%d,%d)", ErrDimensions, sx, sy, ex, ey)
	}
	m.Start = maze.Point{X: sx, Y: sy}
	m.End = maze.Point{X: ex, Y: ey}

	if err := readGrid(&s, &m.Top); err != nil {
		return nil, err
	}
	if err := readGrid(&s, &m.Left); err != nil {
		return nil, err
	}
	if !s.Empty() {
		return nil, ErrTrailing
	}
	return m, nil
}

func readGrid(s *littlebyte.String, g *maze.WallGrid) error {
	var bits littlebyte.String
	if !s.ReadUint16LengthPrefixed(&bits) {
		return ErrTruncated
	}
	if !g.SetBytes(bits) {
		return fmt.Errorf("%w: wall grid of %d bytes", ErrDimensions, len(bits))
	}
	return nil
}

// Save writes m to path
func Save(path string, m *maze.Maze) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Close()
}

// Load reads a maze saved with Save
func Load(path string) (*maze.Maze, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
