package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Summary{}, Summarize(nil, kinematics.DefaultSettings()))
}

func TestSummarize_StraightRun(t *testing.T) {
	t.Parallel()

	settings := kinematics.DefaultSettings()
	samples := []telemetry.Sample{
		{Time: 0, Axis2: 50, Axis3: 50},
		{Time: 1, Axis2: 50, Axis3: 50, Action: "BTN_L1 : INTAKE_IN"},
		{Time: 2, Axis2: 50, Axis3: 50, Action: "BTN_L1 : INTAKE_IN"},
		{Time: 3, Action: "BTN_R1 : OUTTAKE"},
	}
	poses := kinematics.Integrate(samples, settings)

	got := Summarize(poses, settings)
	want := Summary{
		Poses:           4,
		Duration:        3,
		PathLength:      60,
		NetDisplacement: 60,
		MeanSpeed:       22.5,
		MaxSpeed:        30,
		SpeedStdDev:     math.Sqrt(3*7.5*7.5+22.5*22.5) / 2,
		MinX:            72,
		MaxX:            132,
		MinY:            72,
		MaxY:            72,
		ActionChanges:   2,
		Actions: []ActionCount{
			{Action: "BTN_L1 : INTAKE_IN", Count: 2},
			{Action: "BTN_R1 : OUTTAKE", Count: 1},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	small := settings
	small.FieldSizeIn = 100
	assert.Equal(t, 3, Summarize(poses, small).OutOfBounds)
}

func TestSummarize_SpinInPlace(t *testing.T) {
	t.Parallel()

	settings := kinematics.DefaultSettings()
	// Opposite commands: no linear motion, omega = 60/12 = 5 rad/s.
	samples := []telemetry.Sample{
		{Time: 0, Axis2: 50, Axis3: -50},
		{Time: 0.1, Axis2: 50, Axis3: -50},
	}
	got := Summarize(kinematics.Integrate(samples, settings), settings)
	require.Equal(t, 2, got.Poses)
	assert.InDelta(t, 0, got.PathLength, 1e-12)
	assert.InDelta(t, 0, got.MeanSpeed, 1e-12)
	assert.InDelta(t, 0.5*180/math.Pi, got.FinalHeadingDeg, 1e-9)
	assert.Empty(t, got.Actions)
}

func TestCommandedSpeed(t *testing.T) {
	t.Parallel()

	settings := kinematics.DefaultSettings()
	assert.Equal(t, 60.0, CommandedSpeed(kinematics.Pose{LeftCmd: 100, RightCmd: 100}, settings))
	assert.Equal(t, -15.0, CommandedSpeed(kinematics.Pose{LeftCmd: -50}, settings))
}
