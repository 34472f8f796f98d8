// Package replay wires the log parser, the integrator and playback together
// for a host application: it opens a log, keeps its samples so settings can
// be re-applied, and formats the readout shown next to the field view.
package replay

import (
	"fmt"
	"path/filepath"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

// Options controls how a log is opened.
type Options struct {
	Format   telemetry.Format
	Settings kinematics.Settings
}

// DefaultOptions sniffs the format and uses the default settings.
func DefaultOptions() Options {
	return Options{Format: telemetry.FormatAuto, Settings: kinematics.DefaultSettings()}
}

// Session is one opened log and its reconstructed trajectory.
type Session struct {
	path     string
	format   telemetry.Format
	settings kinematics.Settings
	samples  []telemetry.Sample
	poses    []kinematics.Pose
}

// Open reads, parses and integrates the log at path. A read failure is
// returned as a *telemetry.ReadError; invalid settings are rejected before
// anything is read.
func Open(fsys fsutil.FileSystem, path string, opts Options) (*Session, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}

	samples, err := telemetry.LoadFile(fsys, path, opts.Format)
	if err != nil {
		return nil, err
	}
	return FromSamples(path, opts.Format, samples, opts.Settings)
}

// FromSamples builds a session from samples that were already parsed, such
// as a live capture or a stored run.
func FromSamples(path string, format telemetry.Format, samples []telemetry.Sample, settings kinematics.Settings) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		path:     path,
		format:   format,
		settings: settings,
		samples:  samples,
		poses:    kinematics.Integrate(samples, settings),
	}, nil
}

// Apply re-integrates the kept samples with new settings without reading the
// log again. On error the session is unchanged.
func (s *Session) Apply(settings kinematics.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	s.settings = settings
	s.poses = kinematics.Integrate(s.samples, settings)
	return nil
}

// Path returns the log path the session was opened from.
func (s *Session) Path() string { return s.path }

// Name returns the base name of the log file.
func (s *Session) Name() string { return filepath.Base(s.path) }

// Format returns the format the session was opened with.
func (s *Session) Format() telemetry.Format { return s.format }

// Settings returns the settings the poses were integrated with.
func (s *Session) Settings() kinematics.Settings { return s.settings }

// Samples returns the parsed samples. Callers must not modify them.
func (s *Session) Samples() []telemetry.Sample { return s.samples }

// Poses returns the trajectory. Callers must not modify it.
func (s *Session) Poses() []kinematics.Pose { return s.poses }

// Empty reports whether the log produced no poses.
func (s *Session) Empty() bool { return len(s.poses) == 0 }
