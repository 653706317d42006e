// Package input converts raw joystick samples into ball moves and raw
// button levels into debounced presses.
package input

import "ledmaze/core"

// Defaults for a 16-bit joystick reading
const (
	DefaultDeadzone = 2048
	DefaultShift    = 10
	DefaultMaxStep  = 24
)

// Joystick maps two analog axes to a per-sample move in position units.
// Offsets from the calibrated center inside Deadzone are ignored; the
// rest is scaled down by Shift bits and capped at MaxStep so a single
// sample never skips over a wall line.
type Joystick struct {
	MidX, MidY core.ADCValue
	Deadzone   uint16
	Shift      uint8
	MaxStep    int32
	InvertX    bool
	InvertY    bool
}

// NewJoystick returns a joystick with default tuning centered at mid-scale
func NewJoystick() *Joystick {
	return &Joystick{
		MidX:     core.ADCMid,
		MidY:     core.ADCMid,
		Deadzone: DefaultDeadzone,
		Shift:    DefaultShift,
		MaxStep:  DefaultMaxStep,
	}
}

// Calibrate records the resting position
func (j *Joystick) Calibrate(x, y core.ADCValue) {
	j.MidX, j.MidY = x, y
}

// CalibrateFrom averages n samples from the ADC driver
func (j *Joystick) CalibrateFrom(adc core.ADCDriver, chX, chY core.ADCChannelID, n int) error {
	if n <= 0 {
		n = 1
	}
	var sumX, sumY uint32
	for i := 0; i < n; i++ {
		x, err := adc.ReadRaw(chX)
		if err != nil {
			return err
		}
		y, err := adc.ReadRaw(chY)
		if err != nil {
			return err
		}
		sumX += uint32(x)
		sumY += uint32(y)
	}
	j.Calibrate(core.ADCValue(sumX/uint32(n)), core.ADCValue(sumY/uint32(n)))
	return nil
}

// Delta returns the move for one sample
func (j *Joystick) Delta(rawX, rawY core.ADCValue) (dx, dy int32) {
	dx = j.axis(rawX, j.MidX)
	dy = j.axis(rawY, j.MidY)
	if j.InvertX {
		dx = -dx
	}
	if j.InvertY {
		dy = -dy
	}
	return dx, dy
}

// Centered reports whether both axes are inside the deadzone
func (j *Joystick) Centered(rawX, rawY core.ADCValue) bool {
	dx, dy := j.Delta(rawX, rawY)
	return dx == 0 && dy == 0
}

func (j *Joystick) axis(raw, mid core.ADCValue) int32 {
	off := int32(raw) - int32(mid)
	dead := int32(j.Deadzone)
	switch {
	case off > dead:
		off -= dead
	case off < -dead:
		off += dead
	default:
		return 0
	}

	step := off / (int32(1) << j.Shift)
	if step > j.MaxStep {
		step = j.MaxStep
	} else if step < -j.MaxStep {
		step = -j.MaxStep
	}
	return step
}
