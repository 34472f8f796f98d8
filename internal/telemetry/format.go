package telemetry

import (
	"fmt"
	"strings"
)

// Format identifies a log encoding.
type Format int

const (
	// FormatAuto sniffs the first line of the log.
	FormatAuto Format = iota
	// FormatTabular is the comma separated encoding with a header row.
	FormatTabular
	// FormatEventStream is the "KEY : VALUE" line encoding.
	FormatEventStream
)

// TabularMarker is the header substring that identifies a tabular log.
const TabularMarker = "time_s"

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTabular:
		return "csv"
	case FormatEventStream:
		return "event"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a user supplied format name to a Format. The empty string
// means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", "tabular":
		return FormatTabular, nil
	case "txt", "event", "event-stream", "events":
		return FormatEventStream, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q (want auto, csv or event)", s)
	}
}

// Detect sniffs the encoding of already split lines. Anything whose first
// line lacks TabularMarker is treated as an event stream, including garbage.
func Detect(lines []string) Format {
	if len(lines) > 0 && strings.Contains(lines[0], TabularMarker) {
		return FormatTabular
	}
	return FormatEventStream
}

// resolve returns f, or the sniffed format when f is FormatAuto.
func (f Format) resolve(lines []string) Format {
	if f == FormatAuto {
		return Detect(lines)
	}
	return f
}
