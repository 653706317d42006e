// Package config holds the tunables shared by the firmware and the host
// tools. The firmware uses Default; host tools layer a JSON file and
// environment variables on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("config: invalid value")

// JoystickConfig tunes the analog stick
type JoystickConfig struct {
	Deadzone uint16 `json:"deadzone"`
	Shift    uint8  `json:"shift"`
	MaxStep  int32  `json:"max_step"`
	InvertX  bool   `json:"invert_x"`
	InvertY  bool   `json:"invert_y"`
}

// Config is the complete runtime configuration
type Config struct {
	// Seed for the maze generator; 0 picks one from the clock
	Seed int64 `json:"seed"`

	ScanRowUS  uint32 `json:"scan_row_us"`
	SampleMS   uint32 `json:"sample_ms"`
	StepBudget int    `json:"step_budget"`
	DebounceMS uint32 `json:"debounce_ms"`

	Joystick JoystickConfig `json:"joystick"`

	AutoAdvance bool `json:"auto_advance"`
	Mute        bool `json:"mute"`
	Timing      bool `json:"timing"`

	SerialDevice string `json:"serial_device"`
	SerialBaud   int    `json:"serial_baud"`
}

// Load parses a JSON configuration and fills in defaults
func Load(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in zero values
func applyDefaults(config *Config) {
	d := Default()

	if config.ScanRowUS == 0 {
		config.ScanRowUS = d.ScanRowUS
	}
	if config.SampleMS == 0 {
		config.SampleMS = d.SampleMS
	}
	if config.StepBudget == 0 {
		config.StepBudget = d.StepBudget
	}
	if config.DebounceMS == 0 {
		config.DebounceMS = d.DebounceMS
	}

	if config.Joystick.Deadzone == 0 {
		config.Joystick.Deadzone = d.Joystick.Deadzone
	}
	if config.Joystick.Shift == 0 {
		config.Joystick.Shift = d.Joystick.Shift
	}
	if config.Joystick.MaxStep == 0 {
		config.Joystick.MaxStep = d.Joystick.MaxStep
	}

	if config.SerialDevice == "" {
		config.SerialDevice = d.SerialDevice
	}
	if config.SerialBaud == 0 {
		config.SerialBaud = d.SerialBaud
	}
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ScanRowUS:  250, // 32 rows -> 125 Hz refresh
		SampleMS:   20,
		StepBudget: 64,
		DebounceMS: 20,
		Joystick: JoystickConfig{
			Deadzone: 2048,
			Shift:    10,
			MaxStep:  24,
		},
		SerialDevice: "/dev/ttyACM0",
		SerialBaud:   115200,
	}
}

// Validate rejects values the game loop cannot run with
func (c *Config) Validate() error {
	switch {
	case c.ScanRowUS == 0 || c.ScanRowUS > 100000:
		return fmt.Errorf("%w: scan_row_us %d", ErrInvalid, c.ScanRowUS)
	case c.SampleMS == 0:
		return fmt.Errorf("%w: sample_ms %d", ErrInvalid, c.SampleMS)
	case c.StepBudget < 0:
		return fmt.Errorf("%w: step_budget %d", ErrInvalid, c.StepBudget)
	case c.Joystick.Shift > 15:
		return fmt.Errorf("%w: joystick shift %d", ErrInvalid, c.Joystick.Shift)
	case c.Joystick.MaxStep <= 0:
		return fmt.Errorf("%w: joystick max_step %d", ErrInvalid, c.Joystick.MaxStep)
	case c.SerialBaud <= 0:
		return fmt.Errorf("%w: serial_baud %d", ErrInvalid, c.SerialBaud)
	}
	return nil
}
