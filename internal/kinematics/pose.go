package kinematics

import (
	"math"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

// Pose is one reconstructed trajectory point. X and Y are field-relative
// inches, Theta is the integrated heading in radians.
type Pose struct {
	T        float64 `json:"t"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Theta    float64 `json:"theta"`
	LeftCmd  float64 `json:"left_cmd"`
	RightCmd float64 `json:"right_cmd"`
	Axis1    float64 `json:"axis1"`
	Axis2    float64 `json:"axis2"`
	Axis3    float64 `json:"axis3"`
	Axis4    float64 `json:"axis4"`
	Action   string  `json:"action"`
}

// HeadingDegrees returns Theta in degrees.
func (p Pose) HeadingDegrees() float64 {
	return p.Theta * 180 / math.Pi
}

// Sample returns the control sample the pose was integrated from.
func (p Pose) Sample() telemetry.Sample {
	return telemetry.Sample{
		Time:   p.T,
		Axis1:  p.Axis1,
		Axis2:  p.Axis2,
		Axis3:  p.Axis3,
		Axis4:  p.Axis4,
		Action: p.Action,
	}
}
