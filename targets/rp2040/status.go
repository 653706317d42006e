//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/ssd1306"
)

// Status display on I2C0, SDA=GP4, SCL=GP5
const (
	oledAddress = 0x3C
	oledWidth   = 128
	oledHeight  = 64
)

// newOLED configures the bus and the SSD1306 module
func newOLED() (*ssd1306.Device, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
	})
	if err != nil {
		return nil, err
	}

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{
		Width:   oledWidth,
		Height:  oledHeight,
		Address: oledAddress,
	})
	dev.ClearBuffer()
	return &dev, nil
}
