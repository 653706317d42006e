package input

// Debouncer reports a press once the button level has been stable for
// Period ticks. Buttons wired to a pull-up read low when pressed, so
// ActiveLow inverts the raw level.
type Debouncer struct {
	Period    uint32
	ActiveLow bool

	stable    bool
	candidate bool
	since     uint32
}

// NewDebouncer returns an active-low debouncer
func NewDebouncer(period uint32) *Debouncer {
	return &Debouncer{Period: period, ActiveLow: true}
}

// Update feeds one raw level sampled at tick now and returns true on the
// debounced press edge
func (d *Debouncer) Update(level bool, now uint32) bool {
	pressed := level != d.ActiveLow
	if pressed != d.candidate {
		d.candidate = pressed
		d.since = now
		return false
	}
	if d.candidate != d.stable && now-d.since >= d.Period {
		d.stable = d.candidate
		return d.stable
	}
	return false
}

// Pressed returns the debounced state
func (d *Debouncer) Pressed() bool {
	return d.stable
}
