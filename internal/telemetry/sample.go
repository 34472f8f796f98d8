// Package telemetry turns raw robot log text into an ordered sequence of
// control samples.
//
// Two encodings are supported. Tabular logs are comma separated with a header
// row naming a time_s column. Event-stream logs are "KEY : VALUE" lines as
// written by the robot's SD card logger; they carry no timestamps, so samples
// are stamped with a synthetic clock advancing by VirtualTimeStep.
package telemetry

// VirtualTimeStep is the synthetic time, in seconds, between consecutive
// samples decoded from an event-stream log.
const VirtualTimeStep = 0.02

// Sample is one control-signal observation.
type Sample struct {
	Time   float64 `json:"time"`
	Axis1  float64 `json:"axis1"`
	Axis2  float64 `json:"axis2"`
	Axis3  float64 `json:"axis3"`
	Axis4  float64 `json:"axis4"`
	Action string  `json:"action"`
}

// Axes returns the four axis values in order.
func (s Sample) Axes() [4]float64 {
	return [4]float64{s.Axis1, s.Axis2, s.Axis3, s.Axis4}
}
