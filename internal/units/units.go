// Package units provides shared constants and validation for length units
package units

// Unit constants
const (
	Inches      = "in"
	Feet        = "ft"
	Centimetres = "cm"
	Metres      = "m"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Inches, Feet, Centimetres, Metres}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "in, ft, cm, m"
}

// ConvertLength converts a length from inches to the target units.
// Trajectories are integrated in inches.
func ConvertLength(inches float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return inches / 12
	case Centimetres:
		return inches * 2.54
	case Metres:
		return inches * 0.0254
	default:
		return inches
	}
}

// ConvertSpeed converts a speed in inches per second to target units per
// second.
func ConvertSpeed(inchesPerSecond float64, targetUnits string) float64 {
	return ConvertLength(inchesPerSecond, targetUnits)
}
