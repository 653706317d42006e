//go:build !tinygo

package sound

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// ErrUnknownCue is returned for a cue without a melody
var ErrUnknownCue = errors.New("unknown cue")

// Beep plays cues on the host sound card
type Beep struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewBeep() *Beep {
	return &Beep{mixer: &beep.Mixer{}}
}

// Init opens the speaker
func (b *Beep) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Play queues c on the mixer. Cues are dropped before Init.
func (b *Beep) Play(c Cue) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	s, err := Streamer(sampleRate, c)
	if err != nil {
		return
	}
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// Close silences everything queued
func (b *Beep) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Clear()
	b.initialized = false
}

// Streamer renders the melody of c at sr
func Streamer(sr beep.SampleRate, c Cue) (beep.Streamer, error) {
	notes := Melody(c)
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCue, c)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		length := sr.N(time.Duration(n.Ms) * time.Millisecond)
		if n.Hz == 0 {
			parts = append(parts, beep.Silence(length))
			continue
		}
		tone, err := generators.SineTone(sr, float64(n.Hz))
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(length, tone))
	}
	// piezo-level loudness
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -2}, nil
}
