// Package manager wires the game to the panel, the joystick and the
// button through the core timer list. The firmware and the simulator
// both run a Manager; only the drivers differ.
package manager

import (
	"errors"

	"ledmaze/config"
	"ledmaze/core"
	"ledmaze/game"
	"ledmaze/hub75"
	"ledmaze/input"
)

// CalibrationSamples is the number of joystick readings averaged at boot
const CalibrationSamples = 16

// Pins names the inputs the manager samples
type Pins struct {
	JoyX   core.ADCChannelID
	JoyY   core.ADCChannelID
	Button core.GPIOPin
}

// Refresher is a display updated from the main loop, like the status panel
type Refresher interface {
	Refresh() error
}

// ScanClock runs tick every period ticks from a context that preempts the
// main loop, such as a hardware timer interrupt. Without one the scan row
// runs from the core timer list.
type ScanClock interface {
	Start(period uint32, tick func())
	Stop()
}

// Manager coordinates the game activities
type Manager struct {
	config   config.Config
	game     *game.Game
	scanner  *hub75.Scanner
	joystick *input.Joystick
	button   *input.Debouncer
	panel    Refresher
	clock    ScanClock

	adc  core.ADCDriver
	gpio core.GPIODriver
	pins Pins

	scanTimer    core.Timer
	sampleTimer  core.Timer
	scanPeriod   uint32
	samplePeriod uint32

	errors  uint32
	lastErr error

	// Status
	initialized bool
	running     bool
}

// NewManager creates the game for cfg. The first maze is generated
// before NewManager returns.
func NewManager(cfg config.Config, listener game.Listener) *Manager {
	m := &Manager{
		config: cfg,
		game: game.New(game.Options{
			Seed:        cfg.Seed,
			AutoAdvance: cfg.AutoAdvance,
			Listener:    listener,
		}),
		joystick: input.NewJoystick(),
		button:   input.NewDebouncer(core.TimerFromMS(cfg.DebounceMS)),
	}
	m.joystick.Deadzone = cfg.Joystick.Deadzone
	m.joystick.Shift = cfg.Joystick.Shift
	m.joystick.MaxStep = cfg.Joystick.MaxStep
	m.joystick.InvertX = cfg.Joystick.InvertX
	m.joystick.InvertY = cfg.Joystick.InvertY

	m.scanTimer.Handler = m.scanEvent
	m.sampleTimer.Handler = m.sampleEvent
	return m
}

// Initialize configures the inputs, calibrates the joystick at rest and
// attaches the panel sink
func (m *Manager) Initialize(sink hub75.Sink, adc core.ADCDriver, gpio core.GPIODriver, pins Pins) error {
	if m.initialized {
		return errors.New("already initialized")
	}

	if err := adc.Init(core.ADCConfig{}); err != nil {
		return err
	}
	if err := adc.ConfigureChannel(pins.JoyX); err != nil {
		return err
	}
	if err := adc.ConfigureChannel(pins.JoyY); err != nil {
		return err
	}
	if err := gpio.ConfigureInputPullUp(pins.Button); err != nil {
		return err
	}
	if err := m.joystick.CalibrateFrom(adc, pins.JoyX, pins.JoyY, CalibrationSamples); err != nil {
		return err
	}

	m.adc = adc
	m.gpio = gpio
	m.pins = pins
	m.scanner = hub75.NewScanner(m.game, sink)
	m.scanPeriod = core.TimerFromUS(m.config.ScanRowUS)
	m.samplePeriod = core.TimerFromMS(m.config.SampleMS)

	m.initialized = true
	return nil
}

// SetPanel attaches a display refreshed by Idle
func (m *Manager) SetPanel(p Refresher) {
	m.panel = p
}

// SetScanClock moves the scan row off the core timer list. It must be
// called before Start.
func (m *Manager) SetScanClock(c ScanClock) {
	m.clock = c
}

// Start schedules the scan and sample timers
func (m *Manager) Start() error {
	if !m.initialized {
		return errors.New("manager not initialized")
	}
	if m.running {
		return nil
	}

	now := core.GetTime()
	if m.clock != nil {
		m.clock.Start(m.scanPeriod, m.scanner.Tick)
	} else {
		m.scanTimer.WakeTime = now
		core.ScheduleTimer(&m.scanTimer)
	}
	m.sampleTimer.WakeTime = now + m.samplePeriod
	core.ScheduleTimer(&m.sampleTimer)
	m.running = true
	return nil
}

// Stop halts the timers. The panel keeps its last latched row.
func (m *Manager) Stop() {
	if !m.running {
		return
	}
	if m.clock != nil {
		m.clock.Stop()
	} else {
		core.CancelTimer(&m.scanTimer)
	}
	core.CancelTimer(&m.sampleTimer)
	m.running = false
}

// IsRunning returns whether the timers are scheduled
func (m *Manager) IsRunning() bool {
	return m.running
}

// Idle does the lowest priority work: one bounded slice of maze
// generation and a status panel refresh. Call it from the main loop.
func (m *Manager) Idle() {
	if m.game.Pending() {
		m.game.Advance(m.config.StepBudget)
	}
	if m.panel != nil {
		m.check(m.panel.Refresh())
	}
}

// Game returns the running game
func (m *Manager) Game() *game.Game {
	return m.game
}

// Scanner returns the panel scanner, nil before Initialize
func (m *Manager) Scanner() *hub75.Scanner {
	return m.scanner
}

// Joystick returns the calibrated joystick
func (m *Manager) Joystick() *input.Joystick {
	return m.joystick
}

// Errors returns the number of driver errors and the last one seen
func (m *Manager) Errors() (uint32, error) {
	return m.errors, m.lastErr
}

func (m *Manager) check(err error) {
	if err != nil {
		m.errors++
		m.lastErr = err
	}
}

func (m *Manager) scanEvent(t *core.Timer) uint8 {
	now := core.GetTime()
	if late := now - t.WakeTime; late > m.scanPeriod {
		core.RecordTiming(core.EvtRowLate, m.scanner.Row(), now, late, 0)
	}
	m.scanner.Tick()
	t.WakeTime += m.scanPeriod
	return core.SF_RESCHEDULE
}

func (m *Manager) sampleEvent(t *core.Timer) uint8 {
	now := core.GetTime()

	x, errX := m.adc.ReadRaw(m.pins.JoyX)
	y, errY := m.adc.ReadRaw(m.pins.JoyY)
	if errX != nil || errY != nil {
		m.check(errors.Join(errX, errY))
	} else {
		dx, dy := m.joystick.Delta(x, y)
		m.game.Sample(dx, dy)
	}

	if m.button.Update(m.gpio.ReadPin(m.pins.Button), now) {
		accepted := m.game.Confirm()
		v := uint32(0)
		if accepted {
			v = 1
		}
		core.RecordTiming(core.EvtButton, 0, now, v, 0)
	}

	t.WakeTime += m.samplePeriod
	return core.SF_RESCHEDULE
}
