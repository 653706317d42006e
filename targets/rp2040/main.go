//go:build rp2040

package main

import (
	"machine"
	"time"

	"ledmaze/config"
	"ledmaze/core"
	"ledmaze/game"
	"ledmaze/manager"
	"ledmaze/protocol"
	"ledmaze/sound"
	"ledmaze/status"
	"ledmaze/telemetry"
)

// Board wiring
var (
	panelPins = PanelPins{
		DataBase: machine.GP0, // B2 G2 R2 B1 G1 R1 on GP0..GP5
		CLK:      machine.GP6,
		LAT:      machine.GP7,
		OE:       machine.GP8,
		A:        machine.GP9,
		C:        machine.GP10,
	}
	inputPins = manager.Pins{
		JoyX:   0, // ADC0, GP26
		JoyY:   1, // ADC1, GP27
		Button: 22,
	}
	speakerPin = machine.GP15
)

const (
	panelSM          = 0
	reportPeriodMS   = 100
	reportsPerTiming = 50 // ball reports between timing dumps
)

var (
	mgr      *manager.Manager
	reporter *telemetry.Reporter

	reportTimer core.Timer
	reports     uint32
	timingBuf   []core.TimingEvent

	// Debug counters
	loopErrors uint32
)

func main() {
	// Disable a watchdog left running by a previous image
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitClock()
	core.TimerInit()

	gpio := NewRPGPIODriver()
	adc := NewRPAdcDriver()
	core.SetGPIODriver(gpio)
	core.SetADCDriver(adc)

	cfg := config.Default()
	cfg.Seed = seedFromNoise(adc)
	cfg.Timing = true
	core.SetTimingEnabled(cfg.Timing)

	// Debug link over USB CDC
	link := protocol.NewStreamLink(machine.Serial)
	reporter = telemetry.New(link)
	core.SetDebugWriter(reporter.Log)
	_ = link.SendHello()

	listeners := game.Listeners{reporter}

	var panel *status.Panel
	if oled, err := newOLED(); err != nil {
		reporter.Log("status display: " + err.Error())
	} else {
		panel = status.NewPanel(oled)
		listeners = append(listeners, panel)
	}

	var seq *sound.Sequencer
	if !cfg.Mute {
		if spk, err := NewSpeaker(machine.PWM7, speakerPin); err != nil {
			reporter.Log("speaker: " + err.Error())
		} else {
			seq = sound.NewSequencer(spk)
			listeners = append(listeners, sound.Events{Player: seq})
		}
	}

	mgr = manager.NewManager(cfg, listeners)
	reporter.Attach(mgr.Game())
	first := mgr.Game().Maze()
	if err := reporter.Snapshot(&first); err != nil {
		reporter.Log("snapshot: " + err.Error())
	}

	sink, err := NewPIOPanel(panelSM, panelPins)
	if err != nil {
		reporter.Log("panel: " + err.Error())
		halt()
	}
	if err := mgr.Initialize(sink, adc, gpio, inputPins); err != nil {
		reporter.Log("initialize: " + err.Error())
		halt()
	}
	if panel != nil {
		mgr.SetPanel(panel)
	}
	// the OLED push blocks for tens of milliseconds
	mgr.SetScanClock(&scanClock)
	if err := mgr.Start(); err != nil {
		reporter.Log("start: " + err.Error())
		halt()
	}

	reportTimer.Handler = reportEvent
	reportTimer.WakeTime = core.GetTime() + core.TimerFromMS(reportPeriodMS)
	core.ScheduleTimer(&reportTimer)

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
				}
			}()

			UpdateSystemTime()
			core.ProcessTimers()
			mgr.Idle()
		}()

		// Yield to other goroutines
		time.Sleep(10 * time.Microsecond)
	}
}

// reportEvent streams the ball position and, less often, the timing ring
func reportEvent(t *core.Timer) uint8 {
	reporter.Ball(mgr.Game().Ball())
	reports++
	if reports%reportsPerTiming == 0 {
		timingBuf = core.TimingEvents(timingBuf[:0])
		reporter.Timing(timingBuf)
		if n, err := mgr.Errors(); n > 0 {
			reporter.Log("errors " + core.Utoa(n) + ": " + err.Error())
		}
	}
	t.WakeTime += core.TimerFromMS(reportPeriodMS)
	return core.SF_RESCHEDULE
}

// seedFromNoise folds the low bits of floating ADC reads with the uptime
func seedFromNoise(adc *RpAdcDriver) int64 {
	seed := int64(GetHardwareUptime())
	if adc.Init(core.ADCConfig{}) != nil {
		return seed
	}
	for i := 0; i < 32; i++ {
		v, err := adc.ReadRaw(2)
		if err != nil {
			break
		}
		seed = seed<<1 ^ int64(v>>4&1) ^ int64(GetHardwareTime())
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}

func halt() {
	for {
		time.Sleep(time.Second)
	}
}
