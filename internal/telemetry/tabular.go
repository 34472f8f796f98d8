package telemetry

import "strings"

// Tabular column names.
const (
	ColumnTime    = "time_s"
	ColumnAxis1   = "axis1"
	ColumnAxis2   = "axis2"
	ColumnAxis3   = "axis3"
	ColumnAxis4   = "axis4"
	ColumnIntake  = "intake_action"
	ColumnOuttake = "outtake_action"
)

// header maps column names to their position in a row.
type header map[string]int

// parseHeader indexes the header cells. Empty cells keep their position, so
// row fields stay aligned with the header as written.
func parseHeader(line string) header {
	h := make(header)
	for i, name := range strings.Split(line, ",") {
		name = strings.TrimSpace(name)
		if _, dup := h[name]; dup {
			continue
		}
		h[name] = i
	}
	return h
}

// field returns the named column of row, or "" when the header lacks the
// column or the row is too short to reach it.
func (h header) field(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// TabularAction formats the intake and outtake columns into a sample action.
// It is empty only when both are empty.
func TabularAction(intake, outtake string) string {
	if intake == "" && outtake == "" {
		return ""
	}
	return "INTAKE:" + intake + " OUT:" + outtake
}

// parseTabular maps every row after the header to exactly one sample.
func parseTabular(lines []string) []Sample {
	if len(lines) < 2 {
		return nil
	}

	h := parseHeader(lines[0])
	samples := make([]Sample, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := strings.Split(line, ",")
		samples = append(samples, Sample{
			Time:   parseNumber(h.field(row, ColumnTime)),
			Axis1:  parseNumber(h.field(row, ColumnAxis1)),
			Axis2:  parseNumber(h.field(row, ColumnAxis2)),
			Axis3:  parseNumber(h.field(row, ColumnAxis3)),
			Axis4:  parseNumber(h.field(row, ColumnAxis4)),
			Action: TabularAction(h.field(row, ColumnIntake), h.field(row, ColumnOuttake)),
		})
	}
	return samples
}
