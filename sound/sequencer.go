package sound

import "ledmaze/core"

// Tone is a single-voice output such as a piezo on a PWM pin
type Tone interface {
	SetNote(hz uint32) error
	Stop()
}

// Sequencer plays melodies on a Tone using the core timer list. A new
// cue replaces the one playing.
type Sequencer struct {
	out    Tone
	notes  []Note
	next   int
	timer  core.Timer
	active bool
	errors uint32
}

func NewSequencer(out Tone) *Sequencer {
	s := &Sequencer{out: out}
	s.timer.Handler = s.handle
	return s
}

// Play starts c from its first note
func (s *Sequencer) Play(c Cue) {
	notes := Melody(c)
	if len(notes) == 0 {
		return
	}
	if s.active {
		core.CancelTimer(&s.timer)
	}
	s.notes = notes
	s.next = 0
	s.active = true
	s.timer.WakeTime = core.GetTime()
	core.ScheduleTimer(&s.timer)
}

// Playing reports whether a melody is still sounding
func (s *Sequencer) Playing() bool {
	return s.active
}

// Errors counts notes the output rejected
func (s *Sequencer) Errors() uint32 {
	return s.errors
}

func (s *Sequencer) handle(t *core.Timer) uint8 {
	if s.next >= len(s.notes) {
		s.out.Stop()
		s.active = false
		return core.SF_DONE
	}

	n := s.notes[s.next]
	s.next++
	if n.Hz == 0 {
		s.out.Stop()
	} else if err := s.out.SetNote(uint32(n.Hz)); err != nil {
		s.errors++
	}
	t.WakeTime += core.TimerFromMS(uint32(n.Ms))
	return core.SF_RESCHEDULE
}
