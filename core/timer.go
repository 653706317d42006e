package core

import "sync/atomic"

// TimerFreq is the tick rate of the system clock. The RP2040 timer
// peripheral counts microseconds.
const (
	TimerFreq = 1000000 // 1MHz
)

var (
	systemTicks atomic.Uint32
	bootTime    uint32 // Time at boot for uptime calculation
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return systemTicks.Load()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// GetUptime returns ticks elapsed since TimerInit, modulo 2^32
func GetUptime() uint32 {
	return GetTime() - bootTime
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return TimerFromUS(ms * 1000)
}

// TimerInit records the boot time
func TimerInit() {
	bootTime = GetTime()
}

// ProcessTimers runs every timer that is due at the current time
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
