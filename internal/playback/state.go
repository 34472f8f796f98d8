// Package playback scrubs and plays back a reconstructed trajectory.
//
// State is a value: every operation returns a new State and leaves the
// receiver untouched, so callers own the state and decide when to publish it.
// Playback follows the recorded pose timestamps, advanced by explicit Tick
// calls from whatever periodic source the caller runs.
package playback

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
)

// ErrInvalidRate is returned by SetRate for non-positive or non-finite rates.
var ErrInvalidRate = errors.New("playback rate must be a positive finite number")

// DefaultRate is the playback multiplier of a new State.
const DefaultRate = 1.0

// Rates are the preset playback multipliers offered to users.
var Rates = []float64{0.5, 1, 2, 4}

// Mode is the playback mode.
type Mode int

const (
	// Stopped holds the cursor still.
	Stopped Mode = iota
	// Playing advances the cursor on every Tick.
	Playing
)

func (m Mode) String() string {
	switch m {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a cursor over a trajectory plus its play mode and rate. The poses
// are borrowed and never modified. The zero value is an empty, stopped state
// at DefaultRate.
type State struct {
	poses    []kinematics.Pose
	index    int
	mode     Mode
	rate     float64
	lastTick time.Time
	hasTick  bool
}

// New returns a stopped state over poses with the cursor at 0.
func New(poses []kinematics.Pose) State {
	return State{rate: DefaultRate}.Load(poses)
}

// Load replaces the trajectory, rewinds to the first pose and stops. The
// rate is kept.
func (s State) Load(poses []kinematics.Pose) State {
	s.poses = poses
	s.index = 0
	s.mode = Stopped
	s.clearTick()
	return s
}

// Play starts playback. It does nothing when there are fewer than two poses.
func (s State) Play() State {
	if !s.canPlay() || s.mode == Playing {
		return s
	}
	s.mode = Playing
	s.clearTick()
	return s
}

// Pause stops playback, keeping the cursor where it is.
func (s State) Pause() State {
	if !s.canPlay() || s.mode == Stopped {
		return s
	}
	s.mode = Stopped
	s.clearTick()
	return s
}

// Toggle switches between Playing and Stopped.
func (s State) Toggle() State {
	if s.mode == Playing {
		return s.Pause()
	}
	return s.Play()
}

// Seek moves the cursor to index, clamped to the trajectory, and stops.
func (s State) Seek(index int) State {
	s.index = clampIndex(index, len(s.poses))
	s.mode = Stopped
	s.clearTick()
	return s
}

// Reset rewinds to the first pose and stops.
func (s State) Reset() State {
	return s.Seek(0)
}

// SetRate changes the playback multiplier. The timing baseline is kept, so
// the new rate applies from the next tick's elapsed time.
func (s State) SetRate(rate float64) (State, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return s, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	s.rate = rate
	return s, nil
}

// Tick advances a playing state to the wall-clock time now. The first tick
// after any mode change only records now as the baseline. Later ticks move
// the cursor forward while the next pose's timestamp is within the scaled
// elapsed time of the current pose. Reaching the last pose stops playback.
func (s State) Tick(now time.Time) State {
	if s.mode != Playing || len(s.poses) < 2 {
		return s
	}
	if !s.hasTick {
		s.lastTick = now
		s.hasTick = true
		return s
	}

	elapsed := now.Sub(s.lastTick).Seconds() * s.Rate()
	s.lastTick = now

	target := s.poses[s.index].T + elapsed
	for s.index < len(s.poses)-1 && s.poses[s.index+1].T <= target {
		s.index++
	}

	if s.index >= len(s.poses)-1 {
		s.mode = Stopped
		s.clearTick()
	}
	return s
}

// Index returns the cursor position.
func (s State) Index() int { return s.index }

// Mode returns the play mode.
func (s State) Mode() Mode { return s.mode }

// Playing reports whether the state is in Playing mode.
func (s State) Playing() bool { return s.mode == Playing }

// Rate returns the playback multiplier.
func (s State) Rate() float64 {
	if s.rate == 0 {
		return DefaultRate
	}
	return s.rate
}

// Len returns the number of poses.
func (s State) Len() int { return len(s.poses) }

// Empty reports whether there is nothing to show.
func (s State) Empty() bool { return len(s.poses) == 0 }

// Poses returns the trajectory. Callers must not modify it.
func (s State) Poses() []kinematics.Pose { return s.poses }

// Current returns the pose under the cursor, or false when empty.
func (s State) Current() (kinematics.Pose, bool) {
	if len(s.poses) == 0 {
		return kinematics.Pose{}, false
	}
	return s.poses[s.index], true
}

// Progress returns the cursor position as a fraction of the trajectory, in
// [0, 1].
func (s State) Progress() float64 {
	if len(s.poses) < 2 {
		return 0
	}
	return float64(s.index) / float64(len(s.poses)-1)
}

func (s State) canPlay() bool {
	return len(s.poses) >= 2
}

func (s *State) clearTick() {
	s.lastTick = time.Time{}
	s.hasTick = false
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
