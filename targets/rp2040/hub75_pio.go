//go:build rp2040

package main

import (
	"device/rp"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"ledmaze/render"
)

// PIOPanel shifts scan lines out through a PIO state machine. The six
// data lines must be consecutive GPIOs starting at DataBase, in the order
// B2 G2 R2 B1 G1 R1, with CLK driven by side-set. Row control stays on
// plain GPIO.
type PIOPanel struct {
	pio   *rp2pio.PIO
	sm    rp2pio.StateMachine
	smNum uint8

	lat, oe, a, c machine.Pin

	word  uint32
	count uint8
}

// PanelPins assigns the panel signals for the PIO sink
type PanelPins struct {
	DataBase machine.Pin
	CLK      machine.Pin
	LAT      machine.Pin
	OE       machine.Pin // active low
	A        machine.Pin // row shift clock
	C        machine.Pin // row shift data
}

// one byte per column, four columns per FIFO word
const pixelsPerWord = 4

// buildPanelProgram emits 6 bits per column and pulses CLK with side-set
func buildPanelProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 1}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestPins, 6).Side(0).Encode(), // 0: out pins, 6 side 0
		asm.Out(rp2pio.OutDestNull, 2).Side(1).Encode(), // 1: out null, 2 side 1
		// .wrap
	}
}

// NewPIOPanel claims state machine smNum of PIO0 and starts the program
func NewPIOPanel(smNum uint8, pins PanelPins) (*PIOPanel, error) {
	p := &PIOPanel{
		pio:   rp2pio.PIO0,
		smNum: smNum,
		lat:   pins.LAT,
		oe:    pins.OE,
		a:     pins.A,
		c:     pins.C,
	}
	p.sm = p.pio.StateMachine(smNum)
	p.sm.TryClaim()

	program := buildPanelProgram()
	offset, err := p.pio.AddProgram(program, -1)
	if err != nil {
		return nil, err
	}

	for i := machine.Pin(0); i < 6; i++ {
		(pins.DataBase + i).Configure(machine.PinConfig{Mode: p.pio.PinMode()})
	}
	pins.CLK.Configure(machine.PinConfig{Mode: p.pio.PinMode()})
	for _, pin := range []machine.Pin{pins.LAT, pins.OE, pins.A, pins.C} {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	p.oe.High()

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(pins.DataBase, 6)
	cfg.SetSidesetParams(1, false, false)
	cfg.SetSidesetPins(pins.CLK)
	// shift right, autopull every 32 bits
	cfg.SetOutShift(true, true, 32)
	cfg.SetFIFOJoin(rp2pio.FifoJoinTx)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	// 125MHz / 4: the panel clocks data up to about 30MHz
	cfg.SetClkDivIntFrac(4, 0)

	p.sm.Init(offset, cfg)
	p.sm.SetPindirsConsecutive(pins.DataBase, 6, true)
	p.sm.SetPindirsConsecutive(pins.CLK, 1, true)
	p.sm.SetEnabled(true)
	return p, nil
}

func (p *PIOPanel) put(w uint32) {
	for p.sm.IsTxFIFOFull() {
	}
	p.sm.TxPut(w)
}

// NextPixel queues one column code
func (p *PIOPanel) NextPixel(c render.Code) {
	p.word |= uint32(c&0x3F) << (8 * p.count)
	p.count++
	if p.count == pixelsPerWord {
		p.put(p.word)
		p.word = 0
		p.count = 0
	}
}

// WriteLine queues a whole scan line without the per-pixel call
func (p *PIOPanel) WriteLine(line *render.Line) {
	for i := 0; i < len(line); i += pixelsPerWord {
		p.put(uint32(line[i]) | uint32(line[i+1])<<8 | uint32(line[i+2])<<16 | uint32(line[i+3])<<24)
	}
}

// drain waits until the last column has been clocked out
func (p *PIOPanel) drain() {
	if p.count != 0 {
		p.put(p.word)
		p.word = 0
		p.count = 0
	}
	stall := uint32(1) << (rp.PIO0_FDEBUG_TXSTALL_Pos + uint32(p.smNum))
	rp.PIO0.FDEBUG.Set(stall)
	for rp.PIO0.FDEBUG.Get()&stall == 0 {
	}
}

func (p *PIOPanel) latch() {
	p.lat.High()
	p.lat.Low()
}

func (p *PIOPanel) advance(first bool) {
	p.drain()
	p.c.Set(first)
	p.oe.High()
	p.latch()
	p.a.High()
	p.a.Low()
	p.oe.Low()
}

// NextLine latches the line and moves to the next row
func (p *PIOPanel) NextLine() { p.advance(false) }

// NextPage latches the line and selects row 0
func (p *PIOPanel) NextPage() { p.advance(true) }

// Flush latches the shifted line without changing rows
func (p *PIOPanel) Flush() {
	p.drain()
	p.oe.High()
	p.latch()
	p.oe.Low()
}
