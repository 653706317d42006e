// Package game owns the shared maze and ball state and the round
// lifecycle. The display refresh, input sampling and round-advance
// activities each call into Game from their own priority level.
package game

import (
	"runtime"
	"sync/atomic"

	"ledmaze/board"
	"ledmaze/maze"
)

// Store double-buffers the maze and publishes the ball atomically.
//
// Readers pin the front buffer with Acquire and Release. A single writer
// fills the buffer returned by Back and swaps it in with Publish, so a
// reader never observes a partially written maze.
type Store struct {
	buffers [2]maze.Maze
	readers [2]atomic.Int32
	front   atomic.Uint32
	ball    atomic.Uint32
}

// NewStore returns a store whose buffers hold walled mazes
func NewStore() *Store {
	s := &Store{}
	s.buffers[0].Reset()
	s.buffers[1].Reset()
	return s
}

// Acquire pins the current front maze. The caller must not modify it and
// must pass the returned index to Release.
func (s *Store) Acquire() (*maze.Maze, uint32) {
	for {
		idx := s.front.Load()
		s.readers[idx].Add(1)
		if s.front.Load() == idx {
			return &s.buffers[idx], idx
		}
		// front moved between the load and the pin
		s.readers[idx].Add(-1)
	}
}

// Release unpins a buffer returned by Acquire
func (s *Store) Release(idx uint32) {
	s.readers[idx].Add(-1)
}

// Back waits until no reader holds the back buffer and returns it. Only
// the round-advance activity may call Back and Publish.
func (s *Store) Back() *maze.Maze {
	idx := s.front.Load() ^ 1
	for s.readers[idx].Load() != 0 {
		runtime.Gosched()
	}
	return &s.buffers[idx]
}

// Publish makes the back buffer the front buffer
func (s *Store) Publish() {
	s.front.Store(s.front.Load() ^ 1)
}

// Front copies the current front maze
func (s *Store) Front() maze.Maze {
	m, idx := s.Acquire()
	c := *m
	s.Release(idx)
	return c
}

func packBall(p board.Position) uint32 {
	return uint32(p.X)<<16 | uint32(p.Y)
}

func unpackBall(v uint32) board.Position {
	return board.Position{X: uint16(v >> 16), Y: uint16(v)}
}

// Ball returns the current ball position
func (s *Store) Ball() board.Position {
	return unpackBall(s.ball.Load())
}

// SetBall replaces the ball position unconditionally
func (s *Store) SetBall(p board.Position) {
	s.ball.Store(packBall(p))
}

// CompareAndSwapBall moves the ball from old to next only if nobody
// changed it in between
func (s *Store) CompareAndSwapBall(old, next board.Position) bool {
	return s.ball.CompareAndSwap(packBall(old), packBall(next))
}
