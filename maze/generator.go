package maze

import "math/rand"

// MaxSteps bounds the number of Step calls a full generation takes: one
// forward move into every cell but the root, one backtrack out of each of
// them, and the final step that exhausts the root.
const MaxSteps = 2*Cells - 1

// Generator carves a perfect maze with a randomized depth-first walk.
//
// Backtracking needs no stack. Each cell's state byte keeps the one-hot
// direction it was entered from in the high nibble (zero for the root)
// and the directions already taken out of it in the low nibble, so
// returning to the parent means following the incoming direction.
type Generator struct {
	rng     *rand.Rand
	state   [Height][Width]uint8
	visited WallGrid

	maze    *Maze
	current Point
	done    bool
	steps   int
}

// NewGenerator returns a generator seeded with seed. It holds no maze
// until Begin is called.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		done: true,
	}
}

// Seed restarts the random sequence
func (g *Generator) Seed(seed int64) {
	g.rng.Seed(seed)
}

// RandomPoint draws a uniform cell
func (g *Generator) RandomPoint() Point {
	n := g.rng.Intn(Cells)
	return Point{X: uint8(n % Width), Y: uint8(n / Width)}
}

// Begin raises every wall of m and prepares a walk rooted at root, which
// becomes m.Start. m.End is left for the caller to assign.
func (g *Generator) Begin(m *Maze, root Point) {
	m.Reset()
	m.Start = root
	for y := range g.state {
		for x := range g.state[y] {
			g.state[y][x] = 0
		}
	}
	g.visited.Fill(false)
	g.maze = m
	g.current = root
	g.done = false
	g.steps = 0
}

// Done reports whether the current walk has finished
func (g *Generator) Done() bool {
	return g.done
}

// Steps returns the number of Step calls made since Begin
func (g *Generator) Steps() int {
	return g.steps
}

// Step performs one forward or backtrack move and returns true once the
// root has no directions left.
func (g *Generator) Step() bool {
	if g.done {
		return true
	}
	g.steps++

	cur := g.current
	st := g.state[cur.Y][cur.X]
	incoming := Direction(st >> 4)
	outgoing := Direction(st & 0x0F)

	available := AllDirections &^ (incoming | outgoing)
	for _, d := range directions {
		if available&d == 0 {
			continue
		}
		if n, ok := cur.Step(d); !ok || g.visited.Get(n) {
			available &^= d
		}
	}

	if available == 0 {
		g.visited.Set(cur, true)
		if incoming == 0 {
			g.done = true
			return true
		}
		g.current, _ = cur.Step(incoming)
		return false
	}

	var d Direction
	for {
		d = directions[g.rng.Intn(len(directions))]
		if available&d != 0 {
			break
		}
	}

	g.maze.BreakWall(cur, d)
	g.visited.Set(cur, true)
	g.state[cur.Y][cur.X] = st | uint8(d)

	next, _ := cur.Step(d)
	g.state[next.Y][next.X] = uint8(d.Opposite()) << 4
	g.current = next
	return false
}

// Generate carves a complete maze into m rooted at root and returns the
// number of steps it took.
func (g *Generator) Generate(m *Maze, root Point) int {
	g.Begin(m, root)
	for !g.Step() {
	}
	return g.steps
}
