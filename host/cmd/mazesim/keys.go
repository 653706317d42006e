package main

import (
	"errors"
	"time"

	"ledmaze/core"
)

// Terminals only report key presses, so a press holds the simulated
// stick over for holdTime; key repeat keeps it there.
const (
	holdTime   = 350 * time.Millisecond
	pushTime   = 80 * time.Millisecond
	deflection = 0x7FFF
	slowFactor = 4
)

const (
	chanX core.ADCChannelID = iota
	chanY
)

const buttonPin core.GPIOPin = 22

var errNoChannel = errors.New("keyboard: no such ADC channel")

// keyboard stands in for the joystick ADC and the button GPIO
type keyboard struct {
	now func() time.Time

	dirX, dirY     int
	untilX, untilY time.Time
	slow           bool
	buttonUntil    time.Time
}

func newKeyboard(now func() time.Time) *keyboard {
	return &keyboard{now: now}
}

// push deflects the stick; a zero axis is left alone
func (k *keyboard) push(dx, dy int, slow bool) {
	t := k.now().Add(holdTime)
	if dx != 0 {
		k.dirX, k.untilX = dx, t
	}
	if dy != 0 {
		k.dirY, k.untilY = dy, t
	}
	k.slow = slow
}

// release centers the stick
func (k *keyboard) release() {
	k.dirX, k.dirY = 0, 0
}

// press holds the button down long enough to pass the debouncer
func (k *keyboard) press() {
	k.buttonUntil = k.now().Add(pushTime)
}

func (k *keyboard) axis(dir int, until time.Time) core.ADCValue {
	if dir == 0 || !k.now().Before(until) {
		return core.ADCMid
	}
	d := int32(deflection)
	if k.slow {
		d /= slowFactor
	}
	v := int32(core.ADCMid) + int32(dir)*d
	if v > 0xFFFF {
		v = 0xFFFF
	} else if v < 0 {
		v = 0
	}
	return core.ADCValue(v)
}

func (k *keyboard) Init(core.ADCConfig) error { return nil }

func (k *keyboard) ConfigureChannel(ch core.ADCChannelID) error {
	if ch != chanX && ch != chanY {
		return errNoChannel
	}
	return nil
}

func (k *keyboard) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	switch ch {
	case chanX:
		return k.axis(k.dirX, k.untilX), nil
	case chanY:
		return k.axis(k.dirY, k.untilY), nil
	}
	return 0, errNoChannel
}

func (k *keyboard) ConfigureOutput(core.GPIOPin) error      { return nil }
func (k *keyboard) ConfigureInputPullUp(core.GPIOPin) error { return nil }
func (k *keyboard) SetPin(core.GPIOPin, bool) error         { return nil }

// ReadPin reads low while the button is held
func (k *keyboard) ReadPin(pin core.GPIOPin) bool {
	if pin != buttonPin {
		return true
	}
	return !k.now().Before(k.buttonUntil)
}
