package movement

type timerState uint8

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// CoyoteTimer is the one-shot grace window after leaving a walkable surface.
// It is armed and paused while grounded so the full window is available on
// departure, and counts down only while resumed.
type CoyoteTimer struct {
	duration float64
	left     float64
	state    timerState
}

func NewCoyoteTimer(duration float64) CoyoteTimer {
	return CoyoteTimer{duration: duration}
}

func (t *CoyoteTimer) SetDuration(d float64) { t.duration = d }

// Start arms the timer to its full duration and starts it.
func (t *CoyoteTimer) Start() {
	t.left = t.duration
	t.state = timerRunning
	if t.left <= 0 {
		t.Stop()
	}
}

func (t *CoyoteTimer) Pause() {
	if t.state == timerRunning {
		t.state = timerPaused
	}
}

func (t *CoyoteTimer) Resume() {
	if t.state == timerPaused {
		t.state = timerRunning
	}
}

func (t *CoyoteTimer) Stop() {
	t.left = 0
	t.state = timerStopped
}

// Tick counts down a running timer.
func (t *CoyoteTimer) Tick(dt float64) {
	if t.state != timerRunning {
		return
	}
	t.left -= dt
	if t.left <= 0 {
		t.Stop()
	}
}

func (t *CoyoteTimer) TimeLeft() float64 { return t.left }

func (t *CoyoteTimer) Paused() bool { return t.state == timerPaused }

func (t *CoyoteTimer) Stopped() bool { return t.state == timerStopped }
