package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/playback"
)

func TestReadout(t *testing.T) {
	t.Parallel()

	p := kinematics.Pose{
		T: 1.234, X: 72.06, Y: 80,
		LeftCmd: 50, RightCmd: -47.6,
		Axis1: 1, Axis2: -47.6, Axis3: 50, Axis4: 0,
		Action: "BTN_L1 : INTAKE_IN",
	}

	want := "t=1.23s  x=72.1in  y=80.0in\n" +
		"left=50  right=-48\n" +
		"A1=1 A2=-48 A3=50 A4=0\n" +
		"last=BTN_L1 : INTAKE_IN"
	assert.Equal(t, want, Readout(p))
	assert.Len(t, ReadoutLines(p), 4)
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NoDataMessage, StatusText(playback.New(nil)))

	s := playback.New([]kinematics.Pose{{X: 72, Y: 72}, {T: 0.5, X: 80, Y: 72}}).Seek(1)
	assert.Contains(t, StatusText(s), "t=0.50s  x=80.0in  y=72.0in")
}
