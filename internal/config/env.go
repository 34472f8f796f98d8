package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/monitoring"
)

var logf = monitoring.Tagged("config")

// Env holds the FIELDREPLAY_* environment overrides. Values are kept as text
// and parsed with the same rules as the settings fields.
type Env struct {
	FieldSizeIn    string `env:"FIELDREPLAY_FIELD_SIZE_IN"`
	TrackWidthIn   string `env:"FIELDREPLAY_TRACK_WIDTH_IN"`
	MaxSpeedInPerS string `env:"FIELDREPLAY_MAX_SPEED_IN_PER_S"`
	DtFallbackS    string `env:"FIELDREPLAY_DT_FALLBACK_S"`
	Format         string `env:"FIELDREPLAY_FORMAT"`
	SerialPort     string `env:"FIELDREPLAY_SERIAL_PORT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads the FIELDREPLAY_* variables into a ReplayConfig holding only
// the values that are set. Numeric values that are not positive finite
// numbers are ignored.
func LoadEnv() (*ReplayConfig, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return nil, err
	}
	return e.Config(), nil
}

// Config converts the overrides into a partial ReplayConfig.
func (e Env) Config() *ReplayConfig {
	cfg := EmptyReplayConfig()
	cfg.FieldSizeIn = envFloat("FIELDREPLAY_FIELD_SIZE_IN", e.FieldSizeIn)
	cfg.TrackWidthIn = envFloat("FIELDREPLAY_TRACK_WIDTH_IN", e.TrackWidthIn)
	cfg.MaxSpeedInPerS = envFloat("FIELDREPLAY_MAX_SPEED_IN_PER_S", e.MaxSpeedInPerS)
	cfg.DtFallbackS = envFloat("FIELDREPLAY_DT_FALLBACK_S", e.DtFallbackS)
	if f := strings.TrimSpace(e.Format); f != "" {
		cfg.Format = ptrString(f)
	}
	if p := strings.TrimSpace(e.SerialPort); p != "" {
		cfg.SerialPort = ptrString(p)
	}
	return cfg
}

func envFloat(name, raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, ok := parsePositive(raw)
	if !ok {
		logf("ignoring %s=%q: not a positive number", name, raw)
		return nil
	}
	return ptrFloat64(v)
}
