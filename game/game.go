package game

import (
	"sync/atomic"

	"ledmaze/board"
	"ledmaze/core"
	"ledmaze/maze"
	"ledmaze/render"
)

// Round describes a published maze
type Round struct {
	Number uint32
	Start  maze.Point
	End    maze.Point
	Steps  int // generator steps, 0 for a loaded maze
}

// Listener receives game events. Methods run on the activity that caused
// the event and must not block.
type Listener interface {
	RoundStarted(r Round)
	Bumped(pos board.Position)
	GoalReached(r Round)
}

// Listeners fans events out to several listeners
type Listeners []Listener

func (ls Listeners) RoundStarted(r Round) {
	for _, l := range ls {
		l.RoundStarted(r)
	}
}

func (ls Listeners) Bumped(pos board.Position) {
	for _, l := range ls {
		l.Bumped(pos)
	}
}

func (ls Listeners) GoalReached(r Round) {
	for _, l := range ls {
		l.GoalReached(r)
	}
}

// Options configures a Game
type Options struct {
	Seed int64

	// AutoAdvance starts the next round as soon as the ball reaches the
	// end, without waiting for Confirm
	AutoAdvance bool

	Listener Listener
}

// Stats are counters for the status panel and the debug link
type Stats struct {
	Round uint32
	Bumps uint32
	Goals uint32
	Steps int
}

// Game runs maze rounds over a Store.
//
// RenderRow is safe to call from the display interrupt at any time.
// Sample and Confirm belong to the input activity. Advance, AdvanceNow and
// Load belong to the lowest priority activity and must not run
// concurrently with each other.
type Game struct {
	store    *Store
	gen      *maze.Generator
	opts     Options
	listener Listener

	pending   atomic.Bool
	round     atomic.Uint32
	bumps     atomic.Uint32
	goals     atomic.Uint32
	lastSteps atomic.Int32

	// owned by the input activity
	bumping bool
	atGoal  bool

	// owned by the round-advance activity
	generating bool
	back       *maze.Maze
}

// New builds the first round synchronously and returns the game
func New(opts Options) *Game {
	g := &Game{
		store:    NewStore(),
		gen:      maze.NewGenerator(opts.Seed),
		opts:     opts,
		listener: opts.Listener,
	}
	if g.listener == nil {
		g.listener = Listeners(nil)
	}
	g.AdvanceNow()
	return g
}

// Store exposes the shared state
func (g *Game) Store() *Store {
	return g.store
}

// Ball returns the ball position
func (g *Game) Ball() board.Position {
	return g.store.Ball()
}

// Maze returns a copy of the published maze
func (g *Game) Maze() maze.Maze {
	return g.store.Front()
}

// Round returns the number of the published round, starting at 1
func (g *Game) Round() uint32 {
	return g.round.Load()
}

// Stats returns the current counters
func (g *Game) Stats() Stats {
	return Stats{
		Round: g.round.Load(),
		Bumps: g.bumps.Load(),
		Goals: g.goals.Load(),
		Steps: int(g.lastSteps.Load()),
	}
}

// RenderRow renders scan row row of the published maze into line
func (g *Game) RenderRow(row uint8, line *render.Line) {
	m, idx := g.store.Acquire()
	render.Row(m, g.store.Ball(), row, line)
	g.store.Release(idx)
}

// Sample moves the ball by (dx, dy) position units. A move computed
// against a ball that was reset meanwhile is dropped.
func (g *Game) Sample(dx, dy int32) {
	if dx == 0 && dy == 0 {
		return
	}
	cur := g.store.Ball()

	m, idx := g.store.Acquire()
	next, blocked := board.Resolve(m, cur, dx, dy)
	end := m.End
	g.store.Release(idx)

	if !g.store.CompareAndSwapBall(cur, next) {
		return
	}

	if blocked && !g.bumping {
		g.bumps.Add(1)
		core.RecordTiming(core.EvtBump, 0, core.GetTime(), uint32(next.X), uint32(next.Y))
		g.listener.Bumped(next)
	}
	g.bumping = blocked

	reached := next.Point() == end
	if reached && !g.atGoal {
		g.goals.Add(1)
		g.listener.GoalReached(g.current())
		if g.opts.AutoAdvance {
			g.pending.Store(true)
		}
	}
	g.atGoal = reached
}

func (g *Game) current() Round {
	m, idx := g.store.Acquire()
	r := Round{Number: g.round.Load(), Start: m.Start, End: m.End}
	g.store.Release(idx)
	return r
}

// AtGoal reports whether the ball is in the end cell
func (g *Game) AtGoal() bool {
	m, idx := g.store.Acquire()
	at := g.store.Ball().Point() == m.End
	g.store.Release(idx)
	return at
}

// Confirm handles the button press. It requests a new round and returns
// true when the ball is in the end cell.
func (g *Game) Confirm() bool {
	if !g.AtGoal() {
		return false
	}
	g.pending.Store(true)
	return true
}

// Pending reports whether a round-advance is requested or in progress
func (g *Game) Pending() bool {
	return g.pending.Load() || g.generating
}

// Advance runs at most budget generator steps toward the requested round
// and returns true when the new maze was published by this call. A budget
// of zero or less runs generation to completion.
func (g *Game) Advance(budget int) bool {
	if !g.generating {
		if !g.pending.Load() {
			return false
		}
		g.begin()
	}

	if budget <= 0 {
		budget = maze.MaxSteps
	}
	for i := 0; i < budget; i++ {
		if g.gen.Step() {
			break
		}
	}
	core.RecordTiming(core.EvtGenStep, 0, core.GetTime(), uint32(g.gen.Steps()), uint32(budget))
	if !g.gen.Done() {
		return false
	}

	steps := g.gen.Steps()
	g.lastSteps.Store(int32(steps))
	g.publish(steps)
	return true
}

// AdvanceNow requests a round and generates it to completion
func (g *Game) AdvanceNow() {
	g.pending.Store(true)
	for !g.Advance(0) {
	}
}

// Load publishes m as the next round instead of generating one. An
// in-progress generation is abandoned.
func (g *Game) Load(m *maze.Maze) {
	g.pending.Store(false)
	g.generating = false
	g.back = g.store.Back()
	*g.back = *m
	g.publish(0)
}

// begin starts generating into the back buffer. The first round roots
// at a random cell with the end in a corner. Later rounds chain: the old
// end becomes the new start and the old start the new end.
func (g *Game) begin() {
	g.pending.Store(false)

	var root, end maze.Point
	if g.round.Load() == 0 {
		root = g.gen.RandomPoint()
		if root == (maze.Point{}) {
			end = maze.Point{X: maze.Width - 1, Y: maze.Height - 1}
		}
	} else {
		m, idx := g.store.Acquire()
		root, end = m.End, m.Start
		g.store.Release(idx)
	}

	g.back = g.store.Back()
	g.gen.Begin(g.back, root)
	g.back.End = end
	g.generating = true
}

func (g *Game) publish(steps int) {
	start := g.back.Start
	g.store.Publish()
	g.store.SetBall(board.Start(start))
	g.generating = false
	g.back = nil

	n := g.round.Add(1)
	m, idx := g.store.Acquire()
	r := Round{Number: n, Start: m.Start, End: m.End, Steps: steps}
	g.store.Release(idx)

	core.RecordTiming(core.EvtRoundStart, 0, core.GetTime(), n, uint32(steps))
	core.DebugAsync("[GAME] round " + core.Utoa(n) +
		" start=" + core.Itoa(int(r.Start.X)) + "," + core.Itoa(int(r.Start.Y)) +
		" end=" + core.Itoa(int(r.End.X)) + "," + core.Itoa(int(r.End.Y)))
	g.listener.RoundStarted(r)
}
