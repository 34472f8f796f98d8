package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/capture"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/replay"
)

func runCapture(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	port := fs.String("port", "", "Serial device of the robot brain (default: from config)")
	baud := fs.Int("baud", 0, "Baud rate (default: from config)")
	outPath := fs.String("out", "", "Log file to append to, relative to the capture dir (default: a new bonkers_log_<ms>.txt)")
	debugListen := fs.String("debug-listen", "", "Serve /debug/tail and /debug/capture on this address")
	list := fs.Bool("list", false, "List serial ports and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		ports, err := capture.ListPorts()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	opts, err := common.resolve()
	if err != nil {
		return err
	}
	if *port == "" {
		*port = opts.cfg.GetSerialPort()
	}
	if *port == "" {
		fs.Usage()
		return fmt.Errorf("%w: --port is required", errUsage)
	}
	if *baud == 0 {
		*baud = opts.cfg.GetBaudRate()
	}
	fsys := fsutil.OSFileSystem{}
	captureDir := opts.cfg.GetCaptureDir()
	if err := fsys.MkdirAll(captureDir, 0755); err != nil {
		return fmt.Errorf("create capture dir: %w", err)
	}
	path, err := capture.CapturePath(captureDir, *outPath, time.Now())
	if err != nil {
		return err
	}

	serialPort, err := capture.OpenSerial(*port, capture.PortOptions{BaudRate: *baud})
	if err != nil {
		return err
	}
	lm := capture.NewLineMux(serialPort)

	rec, err := capture.NewRecorder(fsys, path, opts.settings)
	if err != nil {
		lm.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *debugListen != "" {
		mux := http.NewServeMux()
		lm.AttachAdminRoutes(mux)
		rec.AttachAdminRoutes(mux)
		go func() {
			if err := serveDebug(ctx, *debugListen, mux); err != nil {
				log.Printf("debug server: %v", err)
			}
		}()
	}

	fmt.Fprintf(out, "Capturing %s at %d baud into %s\n", *port, *baud, path)
	err = record(ctx, out, lm, rec)

	st := rec.Stats()
	fmt.Fprintf(out, "Captured %d lines, %d samples into %s\n", st.Lines, st.Samples, st.Path)
	if st.Dropped > 0 {
		fmt.Fprintf(out, "Warning: %d lines were dropped and are missing from the capture\n", st.Dropped)
	}
	return err
}

// record runs the line mux and the recorder until the port closes or ctx is
// done, printing the readout of every new pose.
func record[T capture.SerialPorter](ctx context.Context, out io.Writer, lm *capture.LineMux[T], rec *capture.Recorder) error {
	var outMu sync.Mutex
	rec.OnPose(func(p kinematics.Pose) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintln(out, replay.ReadoutLines(p)[0])
	})

	id, lines := lm.Subscribe()
	rec.CountDropped(func() int { return lm.Dropped(id) })

	var wg sync.WaitGroup
	var recErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		recErr = rec.Run(context.Background(), lines)
	}()

	monErr := lm.Monitor(ctx)
	if errors.Is(monErr, context.Canceled) {
		monErr = nil
	}
	if err := lm.Close(); err != nil {
		log.Printf("close serial port: %v", err)
	}
	wg.Wait()

	if err := rec.Close(); err != nil && recErr == nil {
		recErr = err
	}
	return errors.Join(monErr, recErr)
}
