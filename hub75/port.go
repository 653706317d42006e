package hub75

import (
	"ledmaze/core"
	"ledmaze/render"
)

// Pins assigns the HUB75 signals to GPIO pins
type Pins struct {
	R1, G1, B1 core.GPIOPin
	R2, G2, B2 core.GPIOPin
	CLK        core.GPIOPin
	LAT        core.GPIOPin
	OE         core.GPIOPin // active low
	A          core.GPIOPin // row shift clock
	C          core.GPIOPin // row shift data
}

// Port bit-bangs the panel protocol over a GPIO driver. Errors from the
// driver are sticky and reported by Err.
type Port struct {
	gpio core.GPIODriver
	pins Pins
	data [6]core.GPIOPin
	err  error
}

// NewPort configures every pin as an output with the panel blanked
func NewPort(gpio core.GPIODriver, pins Pins) (*Port, error) {
	p := &Port{
		gpio: gpio,
		pins: pins,
		data: [6]core.GPIOPin{pins.R1, pins.G1, pins.B1, pins.R2, pins.G2, pins.B2},
	}
	all := []core.GPIOPin{pins.CLK, pins.LAT, pins.OE, pins.A, pins.C}
	all = append(all, p.data[:]...)
	for _, pin := range all {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, err
		}
	}
	p.set(pins.OE, true)
	p.set(pins.CLK, false)
	p.set(pins.LAT, false)
	return p, p.err
}

func (p *Port) set(pin core.GPIOPin, v bool) {
	if err := p.gpio.SetPin(pin, v); err != nil && p.err == nil {
		p.err = err
	}
}

// NextPixel shifts one column code into the panel
func (p *Port) NextPixel(c render.Code) {
	p.set(p.pins.CLK, true)
	for i, pin := range p.data {
		p.set(pin, c&(1<<(5-i)) != 0)
	}
	p.set(p.pins.CLK, false)
}

func (p *Port) latch() {
	p.set(p.pins.LAT, true)
	p.set(p.pins.LAT, false)
}

func (p *Port) advance(first bool) {
	p.set(p.pins.C, first)
	p.set(p.pins.OE, true)
	p.latch()
	p.set(p.pins.A, true)
	p.set(p.pins.A, false)
	p.set(p.pins.OE, false)
}

// NextLine latches the shifted line and moves to the next row
func (p *Port) NextLine() {
	p.advance(false)
}

// NextPage latches the shifted line and selects row 0
func (p *Port) NextPage() {
	p.advance(true)
}

// Flush latches the shifted line without changing rows
func (p *Port) Flush() {
	p.set(p.pins.OE, true)
	p.latch()
	p.set(p.pins.OE, false)
}

// Err returns the first GPIO error seen
func (p *Port) Err() error {
	return p.err
}
