//go:build rp2040

package main

import (
	"errors"
	"machine"

	"ledmaze/core"
)

var errGPIOPin = errors.New("GPIO pin out of range")

// RPGPIODriver implements core.GPIODriver over machine.Pin
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	// GPIO0..GPIO29
	if pin > 29 {
		return errGPIOPin
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: mode})
	d.configuredPins[pin] = p
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, exists := d.configuredPins[pin]
	if !exists {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		p = d.configuredPins[pin]
	}
	p.Set(value)
	return nil
}

// ReadPin returns false for a pin that was never configured
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	p, exists := d.configuredPins[pin]
	if !exists {
		return false
	}
	return p.Get()
}
