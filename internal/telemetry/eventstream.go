package telemetry

import "strings"

// Event-stream keys that carry drive axes. Every other key is an action.
const (
	KeyAxis1 = "AXIS1"
	KeyAxis2 = "AXIS2"
	KeyAxis3 = "AXIS3"
	KeyAxis4 = "AXIS4"
)

// EventDecoder incrementally decodes event-stream lines into samples. A
// sample is emitted once all four axis slots have been filled since the
// previous one; emission clears the slots and advances the virtual clock.
// The zero value is ready to use.
type EventDecoder struct {
	axes       [4]float64
	have       [4]bool
	lastAction string
	t          float64
}

// SplitEvent splits a line on its first colon, trimming both halves. ok is
// false when the line has no colon.
func SplitEvent(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

// Feed consumes one line. It returns a sample and true when the line
// completed a set of four axes.
func (d *EventDecoder) Feed(line string) (Sample, bool) {
	key, value, ok := SplitEvent(line)
	if !ok {
		return Sample{}, false
	}

	switch key {
	case KeyAxis1:
		d.set(0, value)
	case KeyAxis2:
		d.set(1, value)
	case KeyAxis3:
		d.set(2, value)
	case KeyAxis4:
		d.set(3, value)
	default:
		d.lastAction = key + " : " + value
	}

	if !d.complete() {
		return Sample{}, false
	}

	s := Sample{
		Time:   d.t,
		Axis1:  d.axes[0],
		Axis2:  d.axes[1],
		Axis3:  d.axes[2],
		Axis4:  d.axes[3],
		Action: d.lastAction,
	}
	d.have = [4]bool{}
	d.t += VirtualTimeStep
	return s, true
}

// LastAction reports the most recent non-axis event.
func (d *EventDecoder) LastAction() string {
	return d.lastAction
}

// Reset returns the decoder to its zero state.
func (d *EventDecoder) Reset() {
	*d = EventDecoder{}
}

func (d *EventDecoder) set(i int, value string) {
	d.axes[i] = parseNumber(value)
	d.have[i] = true
}

func (d *EventDecoder) complete() bool {
	return d.have[0] && d.have[1] && d.have[2] && d.have[3]
}

func parseEventStream(lines []string) []Sample {
	var (
		dec     EventDecoder
		samples []Sample
	)
	for _, line := range lines {
		if s, ok := dec.Feed(line); ok {
			samples = append(samples, s)
		}
	}
	return samples
}
