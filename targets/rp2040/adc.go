//go:build rp2040

package main

import (
	"errors"
	"machine"
	"sync"

	"ledmaze/core"
)

var errADCChannel = errors.New("unsupported ADC channel")

// RpAdcDriver implements core.ADCDriver using TinyGo's machine.ADC.
type RpAdcDriver struct {
	mu            sync.Mutex
	arefMilliVolt uint32

	channels map[core.ADCChannelID]*machine.ADC
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		arefMilliVolt: 3300,
		channels:      make(map[core.ADCChannelID]*machine.ADC),
	}
}

func (d *RpAdcDriver) Init(cfg core.ADCConfig) error {
	if cfg.Reference != 0 {
		d.arefMilliVolt = cfg.Reference
	}
	machine.InitADC()
	return nil
}

// ConfigureChannel maps channel 0..3 to the ADC0..ADC3 pins (GPIO26..29)
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.channels[ch]; ok {
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errADCChannel
	}

	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}
	d.channels[ch] = &adc
	return nil
}

// ReadRaw returns a 16-bit scaled reading. machine.ADC.Get already
// left-aligns the 12-bit conversion.
func (d *RpAdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	adc, ok := d.channels[ch]
	if !ok {
		if err := d.ConfigureChannel(ch); err != nil {
			return 0, err
		}
		adc = d.channels[ch]
	}
	return core.ADCValue(adc.Get()), nil
}
