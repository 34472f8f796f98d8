// Package kinematics reconstructs a 2D robot trajectory from logged drive
// commands with a forward Euler differential-drive model.
package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSettings is wrapped by Settings.Validate failures.
var ErrInvalidSettings = errors.New("invalid replay settings")

// Default replay settings, also used as host-boundary fallbacks for
// unparseable input.
const (
	DefaultFieldSizeIn    = 144.0
	DefaultTrackWidthIn   = 12.0
	DefaultMaxSpeedInPerS = 60.0
	DefaultDtFallback     = 0.02
)

// Settings configures integration.
type Settings struct {
	// FieldSizeIn is the side of the square field in inches. The trajectory
	// starts at its centre.
	FieldSizeIn float64 `json:"field_size_in"`
	// TrackWidthIn is the distance between the left and right wheel contact
	// lines in inches.
	TrackWidthIn float64 `json:"track_width_in"`
	// MaxSpeedInPerS is the linear wheel speed at full command.
	MaxSpeedInPerS float64 `json:"max_speed_in_per_s"`
	// DtFallback is the step, in seconds, used when consecutive samples are
	// not strictly increasing in time.
	DtFallback float64 `json:"dt_fallback_s"`
}

// DefaultSettings returns the stock VEX field and drivetrain settings.
func DefaultSettings() Settings {
	return Settings{
		FieldSizeIn:    DefaultFieldSizeIn,
		TrackWidthIn:   DefaultTrackWidthIn,
		MaxSpeedInPerS: DefaultMaxSpeedInPerS,
		DtFallback:     DefaultDtFallback,
	}
}

// Validate checks that every value is finite, that the field size, track
// width and dt fallback are positive and that the max speed is not negative.
func (s Settings) Validate() error {
	checks := []struct {
		name     string
		v        float64
		positive bool
	}{
		{"field_size_in", s.FieldSizeIn, true},
		{"track_width_in", s.TrackWidthIn, true},
		{"max_speed_in_per_s", s.MaxSpeedInPerS, false},
		{"dt_fallback_s", s.DtFallback, true},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidSettings, c.name, c.v)
		}
		if c.positive && c.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidSettings, c.name, c.v)
		}
		if !c.positive && c.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidSettings, c.name, c.v)
		}
	}
	return nil
}

// Start returns the initial pose position: the field centre.
func (s Settings) Start() (x, y float64) {
	return s.FieldSizeIn / 2, s.FieldSizeIn / 2
}
