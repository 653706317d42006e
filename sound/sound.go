// Package sound defines the chimes played on game events and the
// players that produce them.
package sound

import (
	"ledmaze/board"
	"ledmaze/game"
)

// Cue names a game event with a melody
type Cue uint8

const (
	CueRound Cue = iota + 1 // new maze published
	CueBump                 // ball ran into a wall
	CueGoal                 // ball reached the end cell
)

func (c Cue) String() string {
	switch c {
	case CueRound:
		return "round"
	case CueBump:
		return "bump"
	case CueGoal:
		return "goal"
	}
	return "unknown"
}

// Note is one tone of a melody. Hz 0 is a rest.
type Note struct {
	Hz uint16
	Ms uint16
}

var melodies = [...][]Note{
	CueRound: {{523, 60}, {659, 60}, {784, 90}},
	CueBump:  {{110, 30}},
	CueGoal:  {{784, 80}, {0, 20}, {1047, 80}, {0, 20}, {1319, 160}},
}

// Melody returns the notes for c, nil for an unknown cue
func Melody(c Cue) []Note {
	if int(c) >= len(melodies) {
		return nil
	}
	return melodies[c]
}

// Duration is the total length of c in milliseconds
func Duration(c Cue) uint32 {
	var ms uint32
	for _, n := range Melody(c) {
		ms += uint32(n.Ms)
	}
	return ms
}

// Player sounds a cue without blocking
type Player interface {
	Play(Cue)
}

// Nop discards every cue
type Nop struct{}

func (Nop) Play(Cue) {}

// Events plays cues for game events
type Events struct {
	Player Player
}

var _ game.Listener = Events{}

func (e Events) RoundStarted(game.Round) { e.Player.Play(CueRound) }
func (e Events) Bumped(board.Position)   { e.Player.Play(CueBump) }
func (e Events) GoalReached(game.Round)  { e.Player.Play(CueGoal) }
