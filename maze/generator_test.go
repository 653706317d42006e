package maze

import "testing"

// checkPerfect verifies m is a spanning tree: Cells-1 broken walls, every
// cell reachable from start, and no cell reached twice.
func checkPerfect(t *testing.T, m *Maze) {
	t.Helper()

	if n := m.BrokenWalls(); n != Cells-1 {
		t.Errorf("broken walls = %d, expected %d", n, Cells-1)
	}

	var seen WallGrid
	type frame struct {
		p    Point
		from Direction
	}
	stack := []frame{{p: m.Start}}
	seen.Set(m.Start, true)
	reached := 1
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range directions {
			if d == f.from {
				continue
			}
			n, ok := f.p.Step(d)
			if !ok || !m.Connected(f.p, n) {
				continue
			}
			if seen.Get(n) {
				t.Errorf("cycle: %v reached twice (via %v from %v)", n, d, f.p)
				continue
			}
			seen.Set(n, true)
			reached++
			stack = append(stack, frame{p: n, from: d.Opposite()})
		}
	}
	if reached != Cells {
		t.Errorf("reached %d cells from %v, expected %d", reached, m.Start, Cells)
	}
}

func TestGeneratePerfect(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := NewGenerator(seed)
		m := NewMaze()
		root := g.RandomPoint()
		steps := g.Generate(m, root)

		if m.Start != root {
			t.Errorf("seed %d: start = %v, expected root %v", seed, m.Start, root)
		}
		if steps != MaxSteps {
			t.Errorf("seed %d: %d steps, expected %d", seed, steps, MaxSteps)
		}
		if !g.Done() {
			t.Errorf("seed %d: generator not done", seed)
		}
		checkPerfect(t, m)
	}
}

func TestGenerateCorners(t *testing.T) {
	g := NewGenerator(7)
	for _, root := range edgePoints {
		m := NewMaze()
		g.Generate(m, root)
		checkPerfect(t, m)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewMaze()
	b := NewMaze()
	NewGenerator(42).Generate(a, Point{3, 9})
	NewGenerator(42).Generate(b, Point{3, 9})
	if *a != *b {
		t.Error("same seed produced different mazes")
	}

	c := NewMaze()
	NewGenerator(43).Generate(c, Point{3, 9})
	if *a == *c {
		t.Log("different seeds produced the same maze")
	}
}

func TestGenerateIncremental(t *testing.T) {
	g := NewGenerator(1)
	m := NewMaze()
	g.Begin(m, Point{10, 10})
	if g.Done() {
		t.Fatal("generator done right after Begin")
	}

	steps := 0
	for !g.Step() {
		steps++
		if steps > MaxSteps {
			t.Fatalf("generation did not finish in %d steps", MaxSteps)
		}
	}
	if !g.Step() {
		t.Error("Step after completion should keep returning true")
	}
	if g.Steps() != MaxSteps {
		t.Errorf("Steps = %d, expected %d", g.Steps(), MaxSteps)
	}
	checkPerfect(t, m)

	// reuse the same generator and buffer for another round
	g.Generate(m, Point{0, 0})
	checkPerfect(t, m)
}

func TestFreshMazeConnectivity(t *testing.T) {
	g := NewGenerator(99)
	start := g.RandomPoint()
	m := NewMaze()
	m.Start = start

	if !m.Connected(start, start) {
		t.Error("start not connected to itself")
	}
	for _, d := range directions {
		if n, ok := start.Step(d); ok && m.Connected(start, n) {
			t.Errorf("unbroken maze connects %v to %v", start, n)
		}
	}
}

func TestRandomPointInRange(t *testing.T) {
	g := NewGenerator(5)
	for i := 0; i < 1000; i++ {
		p := g.RandomPoint()
		if p.X >= Width || p.Y >= Height {
			t.Fatalf("RandomPoint out of range: %v", p)
		}
	}
}
