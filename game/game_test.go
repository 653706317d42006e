package game

import (
	"sync"
	"testing"

	"ledmaze/board"
	"ledmaze/maze"
	"ledmaze/render"
)

type recorder struct {
	rounds []Round
	bumps  int
	goals  int
}

func (r *recorder) RoundStarted(round Round) { r.rounds = append(r.rounds, round) }
func (r *recorder) Bumped(board.Position)    { r.bumps++ }
func (r *recorder) GoalReached(Round)        { r.goals++ }

func reachable(m *maze.Maze) int {
	var seen maze.WallGrid
	queue := []maze.Point{m.Start}
	seen.Set(m.Start, true)
	n := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		n++
		for _, d := range []maze.Direction{maze.Left, maze.Right, maze.Top, maze.Bottom} {
			q, ok := p.Step(d)
			if ok && !seen.Get(q) && m.Connected(p, q) {
				seen.Set(q, true)
				queue = append(queue, q)
			}
		}
	}
	return n
}

func checkRound(t *testing.T, g *Game) maze.Maze {
	t.Helper()
	m := g.Maze()
	if n := m.BrokenWalls(); n != maze.Cells-1 {
		t.Errorf("round %d: %d broken walls, expected %d", g.Round(), n, maze.Cells-1)
	}
	if n := reachable(&m); n != maze.Cells {
		t.Errorf("round %d: %d cells reachable, expected %d", g.Round(), n, maze.Cells)
	}
	if g.Ball() != board.Start(m.Start) {
		t.Errorf("round %d: ball %v not at start %v", g.Round(), g.Ball(), board.Start(m.Start))
	}
	return m
}

func TestNewGame(t *testing.T) {
	rec := &recorder{}
	g := New(Options{Seed: 3, Listener: rec})

	if g.Round() != 1 {
		t.Errorf("Expected round 1, got %d", g.Round())
	}
	m := checkRound(t, g)
	if m.Start == m.End {
		t.Errorf("start and end coincide at %v", m.Start)
	}
	if m.End != (maze.Point{}) && m.End != (maze.Point{X: maze.Width - 1, Y: maze.Height - 1}) {
		t.Errorf("first round end %v not in a corner", m.End)
	}
	if len(rec.rounds) != 1 || rec.rounds[0].Steps != maze.MaxSteps {
		t.Errorf("Unexpected round events %+v", rec.rounds)
	}
}

func TestRoundChaining(t *testing.T) {
	g := New(Options{Seed: 11})
	old := g.Maze()

	if g.Confirm() {
		t.Fatal("Confirm accepted with the ball at start")
	}

	g.Store().SetBall(board.Start(old.End))
	if !g.Confirm() {
		t.Fatal("Confirm rejected with the ball at the end")
	}
	if !g.Advance(0) {
		t.Fatal("Advance did not publish a round")
	}

	m := checkRound(t, g)
	if m.Start != old.End {
		t.Errorf("new start %v, expected old end %v", m.Start, old.End)
	}
	if m.End != old.Start {
		t.Errorf("new end %v, expected old start %v", m.End, old.Start)
	}
	if g.Round() != 2 {
		t.Errorf("Expected round 2, got %d", g.Round())
	}
	if g.Advance(0) {
		t.Error("Advance published without a request")
	}
}

func TestAdvanceIncremental(t *testing.T) {
	g := New(Options{Seed: 5})
	before := g.Maze()
	g.Store().SetBall(board.Start(before.End))
	g.Confirm()

	calls := 0
	for !g.Advance(64) {
		calls++
		if got := g.Maze(); got != before {
			t.Fatal("front maze changed before publish")
		}
		if !g.Pending() {
			t.Fatal("generation not reported pending")
		}
		if calls > maze.MaxSteps {
			t.Fatal("generation did not finish")
		}
	}
	want := maze.MaxSteps / 64
	if calls != want {
		t.Errorf("Expected %d partial calls, got %d", want, calls)
	}
	checkRound(t, g)
	if g.Stats().Steps != maze.MaxSteps {
		t.Errorf("Stats steps = %d", g.Stats().Steps)
	}
}

func TestAutoAdvance(t *testing.T) {
	rec := &recorder{}
	g := New(Options{Seed: 8, AutoAdvance: true, Listener: rec})
	old := g.Maze()

	g.Store().SetBall(board.Start(old.End))
	g.Sample(1, 0)
	if rec.goals != 1 {
		t.Errorf("Expected 1 goal event, got %d", rec.goals)
	}
	if !g.Pending() {
		t.Fatal("reaching the end did not request a round")
	}
	if !g.Advance(0) {
		t.Fatal("Advance did not publish")
	}
	if m := checkRound(t, g); m.Start != old.End {
		t.Errorf("new start %v, expected %v", m.Start, old.End)
	}
	if len(rec.rounds) != 2 {
		t.Errorf("Expected 2 round events, got %d", len(rec.rounds))
	}
}

func TestBumpEdges(t *testing.T) {
	rec := &recorder{}
	g := New(Options{Seed: 1, Listener: rec})

	walled := maze.NewMaze()
	walled.Start = maze.Point{X: 4, Y: 4}
	walled.End = maze.Point{X: 20, Y: 10}
	g.Load(walled)
	if g.Ball() != board.Start(walled.Start) {
		t.Fatalf("ball %v not reset by Load", g.Ball())
	}

	g.Sample(board.CellUnits, 0)
	g.Sample(board.CellUnits, 0)
	if rec.bumps != 1 {
		t.Errorf("Expected one bump for a held push, got %d", rec.bumps)
	}
	g.Sample(-1, 0)
	g.Sample(board.CellUnits, 0)
	if rec.bumps != 2 {
		t.Errorf("Expected a second bump after release, got %d", rec.bumps)
	}
	if g.Stats().Bumps != 2 {
		t.Errorf("Stats bumps = %d", g.Stats().Bumps)
	}
	if got := g.Ball().Point(); got != walled.Start {
		t.Errorf("ball escaped to %v", got)
	}
}

func TestStaleSampleDropped(t *testing.T) {
	s := NewStore()
	a := board.Position{X: 100, Y: 100}
	s.SetBall(a)
	s.SetBall(board.Position{X: 200, Y: 200})
	if s.CompareAndSwapBall(a, board.Position{X: 101, Y: 100}) {
		t.Error("stale move replaced a reset ball")
	}
	if s.Ball() != (board.Position{X: 200, Y: 200}) {
		t.Errorf("ball = %v", s.Ball())
	}
}

func TestRenderRowUsesFront(t *testing.T) {
	g := New(Options{Seed: 2})
	m := g.Maze()
	var got, want render.Line
	for row := uint8(0); row < render.ScanRows; row++ {
		g.RenderRow(row, &got)
		render.Row(&m, g.Ball(), row, &want)
		if got != want {
			t.Errorf("row %d differs from direct render", row)
		}
	}
}

// fill writes a maze whose walls all equal the parity of k
func fill(m *maze.Maze, k uint8) {
	m.Start = maze.Point{X: k % maze.Width}
	m.Top.Fill(k%2 == 0)
	m.Left.Fill(k%2 == 0)
	m.End = maze.Point{X: k % maze.Width}
}

func TestStoreNoTornReads(t *testing.T) {
	s := NewStore()
	fill(s.Back(), 0)
	s.Publish()

	var wg sync.WaitGroup
	done := make(chan struct{})
	errs := make(chan string, 4)

	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				m, idx := s.Acquire()
				k := m.Start.X
				wall := k%2 == 0
				ok := m.End.X == k &&
					m.Top.Get(maze.Point{}) == wall &&
					m.Left.Get(maze.Point{X: maze.Width - 1, Y: maze.Height - 1}) == wall
				s.Release(idx)
				if !ok {
					select {
					case errs <- "torn maze observed":
					default:
					}
					return
				}
			}
		}()
	}

	for k := uint8(1); k < 200; k++ {
		fill(s.Back(), k)
		s.Publish()
	}
	close(done)
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestStatsStepsWhileAdvancing(t *testing.T) {
	rec := &recorder{}
	g := New(Options{Seed: 5, Listener: rec})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if st := g.Stats(); st.Steps < 0 {
					t.Errorf("negative step count %d", st.Steps)
					return
				}
			}
		}
	}()

	for i := 0; i < 5; i++ {
		g.AdvanceNow()
	}
	close(stop)
	wg.Wait()

	last := rec.rounds[len(rec.rounds)-1]
	if st := g.Stats(); st.Steps != last.Steps || st.Steps == 0 {
		t.Errorf("Stats steps = %d, last round reported %d", st.Steps, last.Steps)
	}
}
