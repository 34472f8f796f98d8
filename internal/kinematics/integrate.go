package kinematics

import (
	"math"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

const (
	// DeadbandThreshold is the command magnitude below which a drive axis
	// reads as zero.
	DeadbandThreshold = 5.0
	// CommandFullScale is the command value that maps to MaxSpeedInPerS.
	CommandFullScale = 100.0
)

// Deadband zeroes commands whose magnitude is below DeadbandThreshold.
func Deadband(v float64) float64 {
	if math.Abs(v) < DeadbandThreshold {
		return 0
	}
	return v
}

// Integrator folds samples into poses one at a time. Axis3 drives the left
// side and Axis2 the right.
type Integrator struct {
	settings Settings
	x, y     float64
	theta    float64
	lastT    float64
	started  bool
}

// NewIntegrator returns an integrator positioned at the field centre with
// heading zero.
func NewIntegrator(settings Settings) *Integrator {
	it := &Integrator{settings: settings}
	it.Reset()
	return it
}

// Reset returns the integrator to its starting pose.
func (it *Integrator) Reset() {
	it.x, it.y = it.settings.Start()
	it.theta = 0
	it.lastT = 0
	it.started = false
}

// Settings returns the settings the integrator was built with.
func (it *Integrator) Settings() Settings {
	return it.settings
}

// Step integrates one sample and returns its pose. The first sample applies
// no motion; later samples use the time delta when positive and DtFallback
// otherwise. Position advances along the heading held before the step.
func (it *Integrator) Step(s telemetry.Sample) Pose {
	dt := 0.0
	if it.started {
		if diff := s.Time - it.lastT; diff > 0 {
			dt = diff
		} else {
			dt = it.settings.DtFallback
		}
	}

	left := Deadband(s.Axis3)
	right := Deadband(s.Axis2)

	vL := (left / CommandFullScale) * it.settings.MaxSpeedInPerS
	vR := (right / CommandFullScale) * it.settings.MaxSpeedInPerS
	v := (vL + vR) / 2
	omega := (vR - vL) / it.settings.TrackWidthIn

	if dt > 0 {
		it.x += v * math.Cos(it.theta) * dt
		it.y += v * math.Sin(it.theta) * dt
		it.theta += omega * dt
	}

	it.lastT = s.Time
	it.started = true

	return Pose{
		T:        s.Time,
		X:        it.x,
		Y:        it.y,
		Theta:    it.theta,
		LeftCmd:  left,
		RightCmd: right,
		Axis1:    s.Axis1,
		Axis2:    s.Axis2,
		Axis3:    s.Axis3,
		Axis4:    s.Axis4,
		Action:   s.Action,
	}
}

// Integrate returns one pose per sample, in input order. The caller is
// responsible for passing valid settings.
func Integrate(samples []telemetry.Sample, settings Settings) []Pose {
	if len(samples) == 0 {
		return []Pose{}
	}

	it := NewIntegrator(settings)
	poses := make([]Pose, 0, len(samples))
	for _, s := range samples {
		poses = append(poses, it.Step(s))
	}
	return poses
}
