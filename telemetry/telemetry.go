// Package telemetry reports game events over the debug link.
package telemetry

import (
	"ledmaze/board"
	"ledmaze/core"
	"ledmaze/game"
	"ledmaze/maze"
	"ledmaze/protocol"
	"ledmaze/snapshot"
)

// Reporter is a game.Listener that turns events into link messages. With
// a source attached every new round is followed by a maze snapshot.
type Reporter struct {
	link   *protocol.Link
	source func() maze.Maze
	errors uint32
}

var _ game.Listener = (*Reporter)(nil)

func New(link *protocol.Link) *Reporter {
	return &Reporter{link: link}
}

// Attach makes RoundStarted send a snapshot of g's published maze
func (r *Reporter) Attach(g *game.Game) {
	r.source = g.Maze
}

// Errors counts messages that could not be sent
func (r *Reporter) Errors() uint32 {
	return r.errors
}

func (r *Reporter) check(err error) {
	if err != nil {
		r.errors++
	}
}

func (r *Reporter) RoundStarted(round game.Round) {
	r.check(r.link.SendRound(round.Number,
		round.Start.X, round.Start.Y, round.End.X, round.End.Y, uint32(round.Steps)))
	if r.source != nil {
		m := r.source()
		r.check(r.Snapshot(&m))
	}
}

func (r *Reporter) Bumped(pos board.Position) {
	r.check(r.link.SendBall(pos.X, pos.Y))
}

func (r *Reporter) GoalReached(round game.Round) {
	r.check(r.link.SendLog("goal round " + core.Utoa(round.Number)))
}

// Snapshot sends the encoded maze
func (r *Reporter) Snapshot(m *maze.Maze) error {
	data, err := snapshot.Encode(m)
	if err != nil {
		return err
	}
	return r.link.SendSnapshot(data)
}

// Ball sends a position report
func (r *Reporter) Ball(pos board.Position) {
	r.check(r.link.SendBall(pos.X, pos.Y))
}

// Log sends a log line. It has the shape of a core.DebugWriter.
func (r *Reporter) Log(msg string) {
	r.check(r.link.SendLog(msg))
}

// Timing sends the given timing events oldest first
func (r *Reporter) Timing(events []core.TimingEvent) {
	for _, e := range events {
		r.check(r.link.SendTiming(e.EventType, e.Source, e.Clock, e.Value1, e.Value2))
	}
}
