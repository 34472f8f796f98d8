// Command fieldreplay replays robot telemetry logs as a reconstructed field
// trajectory, stores runs and captures new logs from the robot's serial
// console.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	rest := args[1:]

	var err error
	switch command {
	case "replay":
		err = runReplay(rest, stdout)
	case "play":
		err = runPlay(rest, stdout)
	case "import":
		err = runImport(rest, stdout)
	case "runs":
		err = runRuns(rest, stdout)
	case "poses":
		err = runPoses(rest, stdout)
	case "capture":
		err = runCapture(rest, stdout)
	case "serve":
		err = runServe(rest, stdout)
	case "version":
		fmt.Fprintln(stdout, version.String())
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 1
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "fieldreplay %s: %v\n", command, err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `fieldreplay - replay robot drive logs on a top-down field

Usage: fieldreplay <command> [options]

Commands:
  replay     Parse and integrate a log, print a trajectory summary
  play       Play a log back in the terminal at a chosen rate
  import     Store a replayed log, or every log in a directory, in the run
             database; unreadable logs in a directory are skipped and reported
  runs       List stored runs
  poses      Export the poses of a stored run
  capture    Record a live log from the robot's USB serial console
  serve      Serve the run database debug endpoints over HTTP
  version    Show version information
  help       Show this help message

Common Flags:
  --config <file>        Replay settings file (JSON, default: config/replay.defaults.json if present)
  --format <fmt>         Log format: auto, csv or event (default: auto)
  --field-size <in>      Field side length in inches (default: 144)
  --track-width <in>     Wheel track width in inches (default: 12)
  --max-speed <in/s>     Speed at full stick in inches per second (default: 60)
  --dt-fallback <s>      Time step used when timestamps do not advance (default: 0.02)

  Settings that are not positive numbers fall back to their defaults.
  Environment variables FIELDREPLAY_* override the config file; flags
  override both.

Examples:
  # Summarise an SD card log
  fieldreplay replay bonkers_log_1712345678901.txt

  # Export the trajectory as Parquet
  fieldreplay replay --export run.parquet match.csv

  # Watch a log at double speed
  fieldreplay play --rate 2 match.csv

  # Scrub through a log with p, r, s <n>, +, - and q
  fieldreplay play --interactive match.csv

  # Capture from the brain and store the result
  fieldreplay capture --port /dev/ttyACM1 --out logs/practice.txt
  fieldreplay import --db runs.db logs/practice.txt

  # Store every log copied off the SD card
  fieldreplay import --db runs.db sdcard/`)
}
