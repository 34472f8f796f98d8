// Package export writes a reconstructed trajectory as CSV, JSON or Parquet.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// Columns is the column order shared by every export format.
var Columns = []string{
	"t", "x", "y", "theta", "left_cmd", "right_cmd",
	"axis1", "axis2", "axis3", "axis4", "action",
}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json or parquet)", s)
	}
}

// FormatForPath picks a format from a file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".parquet":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// Marshal encodes poses in the given format.
func Marshal(poses []kinematics.Pose, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return MarshalCSV(poses)
	case FormatJSON:
		return MarshalJSON(poses)
	case FormatParquet:
		return MarshalParquet(poses)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Write encodes poses and writes them to path.
func Write(fsys fsutil.FileSystem, path string, poses []kinematics.Pose, format Format) error {
	data, err := Marshal(poses, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MarshalCSV encodes poses as CSV with a Columns header.
func MarshalCSV(poses []kinematics.Pose) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, p := range poses {
		axes := p.Sample().Axes()
		row := []string{
			formatFloat(p.T),
			formatFloat(p.X),
			formatFloat(p.Y),
			formatFloat(p.Theta),
			formatFloat(p.LeftCmd),
			formatFloat(p.RightCmd),
			formatFloat(axes[0]),
			formatFloat(axes[1]),
			formatFloat(axes[2]),
			formatFloat(axes[3]),
			p.Action,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes poses as an indented JSON array.
func MarshalJSON(poses []kinematics.Pose) ([]byte, error) {
	if poses == nil {
		poses = []kinematics.Pose{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(poses); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
