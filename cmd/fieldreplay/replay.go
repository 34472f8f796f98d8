package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/analysis"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/export"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/replay"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/units"
)

var errUsage = errors.New("invalid usage")

// openSession loads the single log argument of a command.
func openSession(fs *flag.FlagSet, common *commonFlags, fsys fsutil.FileSystem) (*replay.Session, resolved, error) {
	switch fs.NArg() {
	case 1:
	case 0:
		fs.Usage()
		return nil, resolved{}, fmt.Errorf("%w: %s", errUsage, replay.PromptMessage)
	default:
		fs.Usage()
		return nil, resolved{}, fmt.Errorf("%w: expected exactly one log file", errUsage)
	}
	opts, err := common.resolve()
	if err != nil {
		return nil, resolved{}, err
	}
	sess, err := replay.Open(fsys, fs.Arg(0), opts.options())
	if err != nil {
		return nil, resolved{}, errors.New(replay.LoadErrorMessage(err))
	}
	return sess, opts, nil
}

func runReplay(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	asJSON := fs.Bool("json", false, "Print the summary as JSON")
	exportPath := fs.String("export", "", "Write the poses to this file")
	exportFormat := fs.String("export-format", "", "Export format: csv, json or parquet (default: from extension)")
	unit := fs.String("units", units.Inches, "Length units for the text summary: "+units.GetValidUnitsString())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !units.IsValid(*unit) {
		return fmt.Errorf("%w: invalid units %q (want %s)", errUsage, *unit, units.GetValidUnitsString())
	}

	fsys := fsutil.OSFileSystem{}
	sess, _, err := openSession(fs, &common, fsys)
	if err != nil {
		return err
	}

	if *exportPath != "" {
		format := export.FormatForPath(*exportPath)
		if *exportFormat != "" {
			if format, err = export.ParseFormat(*exportFormat); err != nil {
				return err
			}
		}
		if err := export.Write(fsys, *exportPath, sess.Poses(), format); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d poses to %s (%s)\n", len(sess.Poses()), *exportPath, format)
	}

	summary := analysis.Summarize(sess.Poses(), sess.Settings())
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Log     string           `json:"log"`
			Format  string           `json:"format"`
			Summary analysis.Summary `json:"summary"`
		}{sess.Name(), sess.Format().String(), summary})
	}

	if sess.Empty() {
		fmt.Fprintln(out, replay.NoDataMessage)
		return nil
	}
	printSummary(out, sess.Name(), summary, *unit)
	return nil
}

func printSummary(out io.Writer, name string, s analysis.Summary, unit string) {
	l := func(v float64) float64 { return units.ConvertLength(v, unit) }

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "log\t%s\n", name)
	fmt.Fprintf(w, "poses\t%d\n", s.Poses)
	fmt.Fprintf(w, "duration\t%.2f s\n", s.Duration)
	fmt.Fprintf(w, "path length\t%.1f %s\n", l(s.PathLength), unit)
	fmt.Fprintf(w, "net displacement\t%.1f %s\n", l(s.NetDisplacement), unit)
	fmt.Fprintf(w, "speed mean/max/sd\t%.1f / %.1f / %.1f %s/s\n",
		units.ConvertSpeed(s.MeanSpeed, unit), units.ConvertSpeed(s.MaxSpeed, unit), units.ConvertSpeed(s.SpeedStdDev, unit), unit)
	fmt.Fprintf(w, "final heading\t%.1f deg\n", s.FinalHeadingDeg)
	fmt.Fprintf(w, "x range\t%.1f .. %.1f %s\n", l(s.MinX), l(s.MaxX), unit)
	fmt.Fprintf(w, "y range\t%.1f .. %.1f %s\n", l(s.MinY), l(s.MaxY), unit)
	fmt.Fprintf(w, "out of bounds\t%d\n", s.OutOfBounds)
	fmt.Fprintf(w, "action changes\t%d\n", s.ActionChanges)
	for _, a := range s.Actions {
		fmt.Fprintf(w, "  %s\t%d\n", a.Action, a.Count)
	}
	w.Flush()
}
