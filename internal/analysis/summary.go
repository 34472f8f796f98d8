// Package analysis computes summary statistics over a reconstructed
// trajectory.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
)

// Summary describes a trajectory. Distances are inches, speeds inches per
// second and times seconds.
type Summary struct {
	Poses           int           `json:"poses"`
	Duration        float64       `json:"duration_s"`
	PathLength      float64       `json:"path_length_in"`
	NetDisplacement float64       `json:"net_displacement_in"`
	MeanSpeed       float64       `json:"mean_speed_in_per_s"`
	MaxSpeed        float64       `json:"max_speed_in_per_s"`
	SpeedStdDev     float64       `json:"speed_stddev_in_per_s"`
	FinalHeadingDeg float64       `json:"final_heading_deg"`
	MinX            float64       `json:"min_x_in"`
	MaxX            float64       `json:"max_x_in"`
	MinY            float64       `json:"min_y_in"`
	MaxY            float64       `json:"max_y_in"`
	OutOfBounds     int           `json:"out_of_bounds"`
	ActionChanges   int           `json:"action_changes"`
	Actions         []ActionCount `json:"actions"`
}

// ActionCount is the number of poses that carried an action label.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// CommandedSpeed returns the linear speed a pose's deadbanded commands ask
// for under settings.
func CommandedSpeed(p kinematics.Pose, settings kinematics.Settings) float64 {
	vL := (p.LeftCmd / kinematics.CommandFullScale) * settings.MaxSpeedInPerS
	vR := (p.RightCmd / kinematics.CommandFullScale) * settings.MaxSpeedInPerS
	return (vL + vR) / 2
}

// Summarize computes the summary of poses integrated with settings. An
// empty trajectory yields a zero Summary.
func Summarize(poses []kinematics.Pose, settings kinematics.Settings) Summary {
	var sum Summary
	if len(poses) == 0 {
		return sum
	}

	n := len(poses)
	xs := make([]float64, n)
	ys := make([]float64, n)
	speeds := make([]float64, n)
	for i, p := range poses {
		xs[i] = p.X
		ys[i] = p.Y
		speeds[i] = math.Abs(CommandedSpeed(p, settings))
		if p.X < 0 || p.Y < 0 || p.X > settings.FieldSizeIn || p.Y > settings.FieldSizeIn {
			sum.OutOfBounds++
		}
	}

	first, last := poses[0], poses[n-1]
	sum.Poses = n
	sum.Duration = last.T - first.T
	sum.NetDisplacement = math.Hypot(last.X-first.X, last.Y-first.Y)
	sum.FinalHeadingDeg = last.HeadingDegrees()
	sum.MinX, sum.MaxX = floats.Min(xs), floats.Max(xs)
	sum.MinY, sum.MaxY = floats.Min(ys), floats.Max(ys)
	sum.MeanSpeed, sum.SpeedStdDev = stat.PopMeanStdDev(speeds, nil)
	sum.MaxSpeed = floats.Max(speeds)

	if n > 1 {
		steps := make([]float64, n-1)
		for i := 1; i < n; i++ {
			steps[i-1] = math.Hypot(xs[i]-xs[i-1], ys[i]-ys[i-1])
		}
		sum.PathLength = floats.Sum(steps)
	}

	sum.ActionChanges, sum.Actions = countActions(poses)
	return sum
}

// countActions counts label transitions, ignoring poses with no label, and
// tallies how many poses carried each label, most frequent first.
func countActions(poses []kinematics.Pose) (int, []ActionCount) {
	counts := make(map[string]int)
	changes := 0
	prev := ""
	for _, p := range poses {
		if p.Action == "" {
			continue
		}
		counts[p.Action]++
		if p.Action != prev {
			changes++
			prev = p.Action
		}
	}

	out := make([]ActionCount, 0, len(counts))
	for action, count := range counts {
		out = append(out, ActionCount{Action: action, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return changes, out
}
