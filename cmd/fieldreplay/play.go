package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/playback"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/replay"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/timeutil"
)

func runPlay(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	rate := fs.Float64("rate", 0, "Playback rate multiplier, e.g. "+rateList()+" (default: from config)")
	interval := fs.Duration("interval", 0, "Tick interval, raised if needed so each tick covers 25ms of log time (default: from config)")
	start := fs.Int("start", 0, "Pose index to start from")
	interactive := fs.Bool("interactive", false, "Read playback controls from stdin (p, r, s <n>, +, -, q)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, opts, err := openSession(fs, &common, fsutil.OSFileSystem{})
	if err != nil {
		return err
	}
	if *rate == 0 {
		*rate = opts.cfg.GetPlaybackRate()
	}
	if *interval == 0 {
		*interval = opts.cfg.GetTickInterval()
	}

	var in io.Reader
	if *interactive {
		in = os.Stdin
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return play(ctx, out, in, sess, timeutil.RealClock{}, *interval, *rate, *start)
}

// play prints a frame every time the cursor moves. Without controls it
// returns once playback reaches the last pose; with controls it returns when
// they quit or run out. It always returns when ctx is done.
func play(ctx context.Context, out io.Writer, controls io.Reader, sess *replay.Session, clock timeutil.Clock, interval time.Duration, rate float64, start int) error {
	slowest := rate
	if controls != nil && playback.Rates[0] < slowest {
		slowest = playback.Rates[0]
	}
	if floor := minInterval(slowest); interval < floor {
		if interval > 0 {
			fmt.Fprintf(out, "Tick interval raised to %v so playback can advance\n", floor)
		}
		interval = floor
	}

	driver := playback.NewDriver(clock, interval)
	if _, err := driver.SetRate(rate); err != nil {
		return err
	}
	st := driver.Load(sess.Poses())
	if st.Len() < 2 {
		fmt.Fprintln(out, replay.StatusText(st))
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driver.OnFrame(func(s playback.State) {
		printFrame(out, s)
		if controls == nil && !s.Playing() && s.Index() == s.Len()-1 {
			cancel()
		}
	})

	fmt.Fprintf(out, "Playing %s at %gx\n", sess.Name(), driver.Snapshot().Rate())
	driver.Seek(start)
	driver.Play()

	if controls != nil {
		go func() {
			defer cancel()
			sc := bufio.NewScanner(controls)
			for sc.Scan() {
				quit, err := control(out, driver, sc.Text())
				if err != nil {
					fmt.Fprintln(out, err)
				}
				if quit {
					return
				}
			}
		}()
	}

	err := driver.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// minLogStep is the least log time one tick must cover. A tick that falls
// short of the next pose is discarded, so it sits above the event-stream
// sample spacing (telemetry.VirtualTimeStep) with room for rounding.
const minLogStep = 25 * time.Millisecond

// minInterval is the shortest tick interval that covers minLogStep at rate.
// It returns 0 for rates SetRate would reject.
func minInterval(rate float64) time.Duration {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return time.Duration(math.Ceil(float64(minLogStep) / rate))
}

// control applies one playback command typed by the user. An empty line
// toggles play and pause.
func control(out io.Writer, d *playback.Driver, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		d.Toggle()
		return false, nil
	}
	switch fields[0] {
	case "p", "play", "pause":
		d.Toggle()
	case "r", "reset":
		d.Reset()
	case "s", "seek":
		if len(fields) != 2 {
			return false, errors.New("usage: s <pose number>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid pose number %q", fields[1])
		}
		d.Seek(n - 1)
	case "+", "faster", "-", "slower":
		step := 1
		if fields[0] == "-" || fields[0] == "slower" {
			step = -1
		}
		st, err := d.SetRate(stepRate(d.Snapshot().Rate(), step))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Rate %gx\n", st.Rate())
	case "q", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown control %q (p, r, s <n>, +, -, q)", line)
	}
	return false, nil
}

// stepRate moves from rate to the neighbouring preset in playback.Rates.
func stepRate(rate float64, step int) float64 {
	i := 0
	for j, r := range playback.Rates {
		if r <= rate {
			i = j
		}
	}
	i += step
	if i < 0 {
		i = 0
	}
	if i > len(playback.Rates)-1 {
		i = len(playback.Rates) - 1
	}
	return playback.Rates[i]
}

func rateList() string {
	parts := make([]string, len(playback.Rates))
	for i, r := range playback.Rates {
		parts[i] = strconv.FormatFloat(r, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func printFrame(out io.Writer, s playback.State) {
	fmt.Fprintf(out, "[%d/%d %s]\n%s\n\n", s.Index()+1, s.Len(), s.Mode(), replay.StatusText(s))
}
