package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
)

// ParseSettingsFields builds settings from user-typed text fields. A field
// that is not a positive finite number takes its default value, so the
// result always validates.
func ParseSettingsFields(fieldSize, trackWidth, maxSpeed, dtFallback string) kinematics.Settings {
	return kinematics.Settings{
		FieldSizeIn:    parseOr(fieldSize, kinematics.DefaultFieldSizeIn),
		TrackWidthIn:   parseOr(trackWidth, kinematics.DefaultTrackWidthIn),
		MaxSpeedInPerS: parseOr(maxSpeed, kinematics.DefaultMaxSpeedInPerS),
		DtFallback:     parseOr(dtFallback, kinematics.DefaultDtFallback),
	}
}

// FormatField renders a settings value for a text field.
func FormatField(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseOr(s string, def float64) float64 {
	if v, ok := parsePositive(s); ok {
		return v
	}
	return def
}

func parsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
