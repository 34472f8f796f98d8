package telemetry

// Parse decodes raw log text, sniffing its encoding. It never fails: content
// it cannot make sense of yields fewer or zero samples.
func Parse(text string) []Sample {
	return ParseAs(text, FormatAuto)
}

// ParseAs decodes raw log text using an explicit encoding. FormatAuto falls
// back to sniffing the first line.
func ParseAs(text string, format Format) []Sample {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil
	}

	switch format.resolve(lines) {
	case FormatTabular:
		return parseTabular(lines)
	default:
		return parseEventStream(lines)
	}
}
