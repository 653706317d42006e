//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"

	"ledmaze/core"
)

// TIMER alarm 1; the TinyGo runtime sleeps on alarm 0
const alarmBit = rp.TIMER_INTE_ALARM_1

// AlarmClock runs the scan row from a timer alarm interrupt so it
// preempts the main loop, including blocking I2C pushes to the status
// display.
type AlarmClock struct {
	period uint32
	target uint32
	tick   func()
}

var scanClock AlarmClock

// Start arms the alarm period microseconds from now
func (a *AlarmClock) Start(period uint32, tick func()) {
	a.period = period
	a.tick = tick

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, alarmHandler)
	intr.SetPriority(0x00)
	rp.TIMER.INTR.Set(alarmBit)
	rp.TIMER.INTE.SetBits(alarmBit)
	intr.Enable()

	a.target = GetHardwareTime() + period
	rp.TIMER.ALARM1.Set(a.target)
}

// Stop disables and disarms the alarm
func (a *AlarmClock) Stop() {
	rp.TIMER.INTE.ClearBits(alarmBit)
	rp.TIMER.ARMED.Set(alarmBit)
	rp.TIMER.INTR.Set(alarmBit)
}

func alarmHandler(interrupt.Interrupt) {
	a := &scanClock
	rp.TIMER.INTR.Set(alarmBit)

	// next deadline first so the row work does not stretch the period
	now := GetHardwareTime()
	a.target += a.period
	if int32(a.target-now) <= 0 {
		core.RecordTiming(core.EvtRowLate, 0, now, now-a.target+a.period, 0)
		a.target = now + a.period
	}
	rp.TIMER.ALARM1.Set(a.target)

	a.tick()
}
