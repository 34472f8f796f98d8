package main

import (
	"flag"
	"os"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/config"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/replay"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

// DefaultDBPath is the run database used when --db is not given.
const DefaultDBPath = "fieldreplay.db"

// commonFlags are the settings flags shared by every log-reading command.
type commonFlags struct {
	configPath string
	format     string
	fieldSize  string
	trackWidth string
	maxSpeed   string
	dtFallback string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Replay settings file (JSON)")
	fs.StringVar(&c.format, "format", "", "Log format: auto, csv or event")
	fs.StringVar(&c.fieldSize, "field-size", "", "Field side length in inches")
	fs.StringVar(&c.trackWidth, "track-width", "", "Wheel track width in inches")
	fs.StringVar(&c.maxSpeed, "max-speed", "", "Speed at full stick in inches per second")
	fs.StringVar(&c.dtFallback, "dt-fallback", "", "Time step in seconds when timestamps do not advance")
}

// resolved is the effective configuration of one command invocation.
type resolved struct {
	cfg      *config.ReplayConfig
	settings kinematics.Settings
	format   telemetry.Format
}

// resolve layers the flags over the config file and environment. Without
// --config the defaults file is used when the working directory has one.
func (c *commonFlags) resolve() (resolved, error) {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			path = config.DefaultConfigPath
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return resolved{}, err
	}

	base := cfg.GetSettings()
	settings := config.ParseSettingsFields(
		orField(c.fieldSize, base.FieldSizeIn),
		orField(c.trackWidth, base.TrackWidthIn),
		orField(c.maxSpeed, base.MaxSpeedInPerS),
		orField(c.dtFallback, base.DtFallback),
	)

	format := cfg.GetFormat()
	if c.format != "" {
		if format, err = telemetry.ParseFormat(c.format); err != nil {
			return resolved{}, err
		}
	}

	return resolved{cfg: cfg, settings: settings, format: format}, nil
}

func (r resolved) options() replay.Options {
	return replay.Options{Format: r.format, Settings: r.settings}
}

func orField(flagValue string, fallback float64) string {
	if flagValue != "" {
		return flagValue
	}
	return config.FormatField(fallback)
}
