package sound

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledmaze/board"
	"ledmaze/core"
	"ledmaze/game"
)

type fakeTone struct {
	notes []uint32
	stops int
	fail  bool
}

func (f *fakeTone) SetNote(hz uint32) error {
	if f.fail {
		return errors.New("pwm busy")
	}
	f.notes = append(f.notes, hz)
	return nil
}

func (f *fakeTone) Stop() { f.stops++ }

type cuePlayer []Cue

func (p *cuePlayer) Play(c Cue) { *p = append(*p, c) }

func TestMelodies(t *testing.T) {
	for _, c := range []Cue{CueRound, CueBump, CueGoal} {
		notes := Melody(c)
		require.NotEmpty(t, notes, c.String())
		assert.NotZero(t, notes[0].Hz, "%s starts with a rest", c)
		assert.NotZero(t, Duration(c))
	}
	assert.Nil(t, Melody(Cue(0)))
	assert.Nil(t, Melody(Cue(200)))
	assert.Equal(t, "unknown", Cue(200).String())
	assert.Equal(t, uint32(360), Duration(CueGoal))
}

func runClock(ms uint32) {
	start := core.GetTime()
	for i := uint32(0); i <= ms; i++ {
		core.SetTime(start + core.TimerFromMS(i))
		core.ProcessTimers()
	}
}

func TestSequencerPlaysMelody(t *testing.T) {
	core.ResetTimers()
	core.SetTime(1000)
	out := &fakeTone{}
	s := NewSequencer(out)

	s.Play(CueGoal)
	assert.True(t, s.Playing())
	runClock(Duration(CueGoal) + 10)

	assert.Equal(t, []uint32{784, 1047, 1319}, out.notes)
	assert.Equal(t, 3, out.stops) // two rests and the end
	assert.False(t, s.Playing())
	assert.Zero(t, core.PendingTimers())
}

func TestSequencerRestart(t *testing.T) {
	core.ResetTimers()
	core.SetTime(0)
	out := &fakeTone{}
	s := NewSequencer(out)

	s.Play(CueGoal)
	runClock(10)
	s.Play(CueBump)
	assert.Equal(t, 1, core.PendingTimers())
	runClock(Duration(CueBump) + 5)

	assert.Equal(t, []uint32{784, 110}, out.notes)
	assert.False(t, s.Playing())
	assert.Zero(t, core.PendingTimers())
}

func TestSequencerCountsErrors(t *testing.T) {
	core.ResetTimers()
	core.SetTime(0)
	s := NewSequencer(&fakeTone{fail: true})
	s.Play(CueRound)
	runClock(Duration(CueRound) + 5)
	assert.Equal(t, uint32(3), s.Errors())
	assert.False(t, s.Playing())
}

func TestEventsAdapter(t *testing.T) {
	var p cuePlayer
	var l game.Listener = Events{Player: &p}
	l.RoundStarted(game.Round{Number: 1})
	l.Bumped(board.Position{})
	l.GoalReached(game.Round{Number: 1})
	assert.Equal(t, cuePlayer{CueRound, CueBump, CueGoal}, p)
}
