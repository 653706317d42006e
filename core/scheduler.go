package core

// Timer represents a scheduled event. Handler returns SF_RESCHEDULE after
// moving WakeTime forward to run again, or SF_DONE.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var (
	timerList   *Timer
	currentTime uint32
)

// timerBefore compares wake times across 32-bit clock wraparound
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ScheduleTimer adds a timer to the schedule
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertTimer(t)
}

// CancelTimer removes t from the schedule if it is queued
func CancelTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == t {
		timerList = t.Next
		t.Next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// insertTimer inserts a timer in sorted order by WakeTime
func insertTimer(t *Timer) {
	if timerList == nil || timerBefore(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !timerBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// TimerDispatch processes due timers
func TimerDispatch() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && !timerBefore(currentTime, timerList.WakeTime) {
		timer := timerList
		timerList = timer.Next
		timer.Next = nil

		result := timer.Handler(timer)

		if result == SF_RESCHEDULE {
			// a handler that fell behind is pulled up to now instead of
			// firing in a burst
			if timerBefore(timer.WakeTime, currentTime) {
				RecordTiming(EvtTimerLate, 0, currentTime, timer.WakeTime, 0)
				timer.WakeTime = currentTime
			}
			insertTimer(timer)
			if timer.WakeTime == currentTime {
				// avoid spinning on a zero-period timer
				break
			}
		}
	}
}

// PendingTimers returns the number of queued timers
func PendingTimers() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	n := 0
	for t := timerList; t != nil; t = t.Next {
		n++
	}
	return n
}

// ResetTimers drops every queued timer
func ResetTimers() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for t := timerList; t != nil; {
		next := t.Next
		t.Next = nil
		t = next
	}
	timerList = nil
}
