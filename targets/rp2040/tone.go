//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/tone"
)

// Speaker drives a piezo through a PWM slice
type Speaker struct {
	out tone.Speaker
}

// NewSpeaker configures pin on pwm for tone output
func NewSpeaker(pwm tone.PWM, pin machine.Pin) (*Speaker, error) {
	out, err := tone.New(pwm, pin)
	if err != nil {
		return nil, err
	}
	return &Speaker{out: out}, nil
}

// SetNote starts a square wave at hz
func (s *Speaker) SetNote(hz uint32) error {
	if hz == 0 {
		s.out.Stop()
		return nil
	}
	s.out.SetPeriod(uint64(1e9) / uint64(hz))
	return nil
}

func (s *Speaker) Stop() {
	s.out.Stop()
}
