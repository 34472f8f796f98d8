package replay

import (
	"fmt"
	"strings"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/playback"
)

// Placeholder texts shown instead of a readout.
const (
	PromptMessage = "Load a log file (.txt or .csv) to begin."
	NoDataMessage = "Log file has no data rows."
)

// ReadoutLines formats a pose as the four readout lines.
func ReadoutLines(p kinematics.Pose) []string {
	return []string{
		fmt.Sprintf("t=%.2fs  x=%.1fin  y=%.1fin", p.T, p.X, p.Y),
		fmt.Sprintf("left=%.0f  right=%.0f", p.LeftCmd, p.RightCmd),
		fmt.Sprintf("A1=%.0f A2=%.0f A3=%.0f A4=%.0f", p.Axis1, p.Axis2, p.Axis3, p.Axis4),
		"last=" + p.Action,
	}
}

// Readout formats a pose as newline separated readout lines.
func Readout(p kinematics.Pose) string {
	return strings.Join(ReadoutLines(p), "\n")
}

// StatusText returns the readout for the pose under the cursor, or the
// placeholder for an empty trajectory.
func StatusText(s playback.State) string {
	p, ok := s.Current()
	if !ok {
		return NoDataMessage
	}
	return Readout(p)
}

// LoadErrorMessage is the user-facing text for a failed load.
func LoadErrorMessage(err error) string {
	return "Failed to load log: " + err.Error()
}
