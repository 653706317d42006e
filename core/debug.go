package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a timing-critical event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Source    uint8  // Scan row, task id or other origin
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtRowLate    = 1 // Scan row started after its deadline
	EvtSample     = 2 // Joystick sample applied
	EvtBump       = 3 // Ball hit a wall
	EvtGenStep    = 4 // Generator budget slice finished
	EvtRoundStart = 5 // New maze published
	EvtTimerLate  = 6 // Periodic timer fell behind
	EvtButton     = 7 // Debounced button press
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingCount    uint32       // Events recorded since the last clear
	timingEnabled  bool  = true // Always capture timing events

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns timing capture on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
		// Channel full, drop message (non-blocking)
	}
}

// RecordTiming captures a timing event in the ring buffer
// This is always non-blocking and very fast
func RecordTiming(eventType, source uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	state := disableInterrupts()
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Source:    source,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
	timingCount++
	restoreInterrupts(state)
}

// TimingEvents appends the recorded events to dst, oldest first
func TimingEvents(dst []TimingEvent) []TimingEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		dst = append(dst, evt)
	}
	return dst
}

// EventName returns the short name of a timing event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtRowLate:
		return "ROW_LATE!"
	case EvtSample:
		return "SAMPLE"
	case EvtBump:
		return "BUMP"
	case EvtGenStep:
		return "GEN_STEP"
	case EvtRoundStart:
		return "ROUND"
	case EvtTimerLate:
		return "TIMER_LATE!"
	case EvtButton:
		return "BUTTON"
	}
	return "UNKNOWN"
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error)
// This should be called from a goroutine or after stopping time-critical code
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	debugPrintln("[TIMING] Events recorded: " + Utoa(timingCount))

	var events [TimingRingSize]TimingEvent
	for _, evt := range TimingEvents(events[:0]) {
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" src=" + Itoa(int(evt.Source)) +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
	timingCount = 0
}
