// Package config loads replay settings from a JSON file and the environment
// and parses the host-boundary text fields of the replay settings.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

// DefaultConfigPath is the path to the canonical replay defaults file.
const DefaultConfigPath = "config/replay.defaults.json"

// Defaults not owned by another package.
const (
	DefaultPlaybackRate = 1.0
	DefaultTickInterval = 25 * time.Millisecond
	DefaultBaudRate     = 115200
	DefaultCaptureDir   = "."
)

// ReplayConfig is the on-disk replay configuration. Every field is optional;
// the Get* methods fall back to defaults for fields left unset.
type ReplayConfig struct {
	// Integration settings
	FieldSizeIn    *float64 `json:"field_size_in,omitempty"`
	TrackWidthIn   *float64 `json:"track_width_in,omitempty"`
	MaxSpeedInPerS *float64 `json:"max_speed_in_per_s,omitempty"`
	DtFallbackS    *float64 `json:"dt_fallback_s,omitempty"`

	// Parsing
	Format *string `json:"format,omitempty"` // auto, csv or event

	// Playback
	PlaybackRate *float64 `json:"playback_rate,omitempty"`
	TickInterval *string  `json:"tick_interval,omitempty"` // duration string like "25ms"

	// Live capture
	SerialPort *string `json:"serial_port,omitempty"`
	BaudRate   *int    `json:"baud_rate,omitempty"`
	CaptureDir *string `json:"capture_dir,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyReplayConfig returns a ReplayConfig with all fields set to nil.
func EmptyReplayConfig() *ReplayConfig {
	return &ReplayConfig{}
}

// LoadReplayConfig loads a ReplayConfig from a JSON file. The file must have
// a .json extension and be at most 1 MiB. Omitted fields stay nil.
func LoadReplayConfig(path string) (*ReplayConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyReplayConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. It panics when the
// file cannot be found; it is intended for tests and tooling.
func MustLoadDefaultConfig() *ReplayConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadReplayConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks the values that are set.
func (c *ReplayConfig) Validate() error {
	if err := c.settingsOrDefaults().Validate(); err != nil {
		return err
	}

	if c.Format != nil {
		if _, err := telemetry.ParseFormat(*c.Format); err != nil {
			return err
		}
	}

	if c.PlaybackRate != nil {
		r := *c.PlaybackRate
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("playback_rate must be positive, got %v", r)
		}
	}

	if c.TickInterval != nil && *c.TickInterval != "" {
		d, err := time.ParseDuration(*c.TickInterval)
		if err != nil {
			return fmt.Errorf("invalid tick_interval '%s': %w", *c.TickInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("tick_interval must be positive, got %s", *c.TickInterval)
		}
	}

	if c.BaudRate != nil && *c.BaudRate <= 0 {
		return fmt.Errorf("baud_rate must be positive, got %d", *c.BaudRate)
	}

	return nil
}

// Merge overlays every field set in other onto c.
func (c *ReplayConfig) Merge(other *ReplayConfig) {
	if other == nil {
		return
	}
	if other.FieldSizeIn != nil {
		c.FieldSizeIn = other.FieldSizeIn
	}
	if other.TrackWidthIn != nil {
		c.TrackWidthIn = other.TrackWidthIn
	}
	if other.MaxSpeedInPerS != nil {
		c.MaxSpeedInPerS = other.MaxSpeedInPerS
	}
	if other.DtFallbackS != nil {
		c.DtFallbackS = other.DtFallbackS
	}
	if other.Format != nil {
		c.Format = other.Format
	}
	if other.PlaybackRate != nil {
		c.PlaybackRate = other.PlaybackRate
	}
	if other.TickInterval != nil {
		c.TickInterval = other.TickInterval
	}
	if other.SerialPort != nil {
		c.SerialPort = other.SerialPort
	}
	if other.BaudRate != nil {
		c.BaudRate = other.BaudRate
	}
	if other.CaptureDir != nil {
		c.CaptureDir = other.CaptureDir
	}
}

func (c *ReplayConfig) settingsOrDefaults() kinematics.Settings {
	s := kinematics.DefaultSettings()
	if c.FieldSizeIn != nil {
		s.FieldSizeIn = *c.FieldSizeIn
	}
	if c.TrackWidthIn != nil {
		s.TrackWidthIn = *c.TrackWidthIn
	}
	if c.MaxSpeedInPerS != nil {
		s.MaxSpeedInPerS = *c.MaxSpeedInPerS
	}
	if c.DtFallbackS != nil {
		s.DtFallback = *c.DtFallbackS
	}
	return s
}

// GetSettings returns the integration settings, defaulting unset fields.
func (c *ReplayConfig) GetSettings() kinematics.Settings {
	return c.settingsOrDefaults()
}

// GetFormat returns the configured log format, FormatAuto when unset or
// unrecognised.
func (c *ReplayConfig) GetFormat() telemetry.Format {
	if c.Format == nil {
		return telemetry.FormatAuto
	}
	f, err := telemetry.ParseFormat(*c.Format)
	if err != nil {
		return telemetry.FormatAuto
	}
	return f
}

// GetPlaybackRate returns the playback_rate value or the default.
func (c *ReplayConfig) GetPlaybackRate() float64 {
	if c.PlaybackRate == nil {
		return DefaultPlaybackRate
	}
	return *c.PlaybackRate
}

// GetTickInterval parses and returns the TickInterval as a time.Duration.
func (c *ReplayConfig) GetTickInterval() time.Duration {
	if c.TickInterval == nil || *c.TickInterval == "" {
		return DefaultTickInterval
	}
	d, err := time.ParseDuration(*c.TickInterval)
	if err != nil || d <= 0 {
		return DefaultTickInterval
	}
	return d
}

// GetSerialPort returns the serial_port value, empty when unset.
func (c *ReplayConfig) GetSerialPort() string {
	if c.SerialPort == nil {
		return ""
	}
	return *c.SerialPort
}

// GetBaudRate returns the baud_rate value or the default.
func (c *ReplayConfig) GetBaudRate() int {
	if c.BaudRate == nil {
		return DefaultBaudRate
	}
	return *c.BaudRate
}

// GetCaptureDir returns the capture_dir value or the default.
func (c *ReplayConfig) GetCaptureDir() string {
	if c.CaptureDir == nil || *c.CaptureDir == "" {
		return DefaultCaptureDir
	}
	return *c.CaptureDir
}
