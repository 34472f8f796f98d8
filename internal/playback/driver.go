package playback

import (
	"context"
	"sync"
	"time"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/monitoring"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/timeutil"
)

// DefaultTickInterval is the cadence Run ticks at when none is given. Tick
// measures from the current pose and drops the remainder, so the interval
// must exceed the pose spacing; 25ms clears the 20ms event-stream step.
const DefaultTickInterval = 25 * time.Millisecond

var logf = monitoring.Tagged("playback")

// Driver owns a State on behalf of concurrent callers and ticks it from a
// clock. All operations are serialised; the frame callback runs outside the
// lock and may call back into the Driver.
type Driver struct {
	clock    timeutil.Clock
	interval time.Duration

	mu      sync.Mutex
	state   State
	onFrame func(State)
}

// NewDriver returns a driver over an empty trajectory. A non-positive
// interval selects DefaultTickInterval.
func NewDriver(clock timeutil.Clock, interval time.Duration) *Driver {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Driver{
		clock:    clock,
		interval: interval,
		state:    New(nil),
	}
}

// OnFrame registers fn to be called with the new state whenever the cursor
// or the mode changes.
func (d *Driver) OnFrame(fn func(State)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onFrame = fn
}

// Snapshot returns the current state.
func (d *Driver) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Load replaces the trajectory.
func (d *Driver) Load(poses []kinematics.Pose) State {
	return d.apply(func(s State) State { return s.Load(poses) }, true)
}

// Play starts playback.
func (d *Driver) Play() State {
	return d.apply(State.Play, false)
}

// Pause stops playback.
func (d *Driver) Pause() State {
	return d.apply(State.Pause, false)
}

// Toggle switches between playing and stopped.
func (d *Driver) Toggle() State {
	return d.apply(State.Toggle, false)
}

// Seek moves the cursor and stops.
func (d *Driver) Seek(index int) State {
	return d.apply(func(s State) State { return s.Seek(index) }, false)
}

// Reset rewinds and stops.
func (d *Driver) Reset() State {
	return d.apply(State.Reset, false)
}

// SetRate changes the playback multiplier.
func (d *Driver) SetRate(rate float64) (State, error) {
	d.mu.Lock()
	next, err := d.state.SetRate(rate)
	d.state = next
	d.mu.Unlock()
	return next, err
}

// Tick advances the state to now.
func (d *Driver) Tick(now time.Time) State {
	return d.apply(func(s State) State { return s.Tick(now) }, false)
}

// Run ticks the state every interval until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	ticks, stop := d.clock.Every(d.interval)
	defer stop()

	logf("ticking every %v", d.interval)
	for {
		select {
		case <-ctx.Done():
			logf("stopped: %v", ctx.Err())
			return ctx.Err()
		case now := <-ticks:
			d.Tick(now)
		}
	}
}

func (d *Driver) apply(op func(State) State, always bool) State {
	d.mu.Lock()
	prev := d.state
	next := op(prev)
	d.state = next
	fn := d.onFrame
	d.mu.Unlock()

	changed := always || prev.index != next.index || prev.mode != next.mode
	if fn != nil && changed {
		fn(next)
	}
	return next
}
