package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"tailscale.com/tsweb"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/httputil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/security"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

// LogFileName names a capture file the way the robot names its SD card logs.
func LogFileName(now time.Time) string {
	return fmt.Sprintf("bonkers_log_%d.txt", now.UnixMilli())
}

// CapturePath resolves where a capture is written. An empty name gets a
// fresh LogFileName, an absolute name is used as is, and a relative name must
// stay inside dir. dir must exist.
func CapturePath(dir, name string, now time.Time) (string, error) {
	if name == "" {
		name = LogFileName(now)
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	path := filepath.Join(dir, name)
	if err := security.ValidatePathWithinDirectory(path, dir); err != nil {
		return "", fmt.Errorf("capture path: %w", err)
	}
	return path, nil
}

// Stats summarises a capture in progress.
type Stats struct {
	Path       string              `json:"path"`
	Settings   kinematics.Settings `json:"settings"`
	Lines      int                 `json:"lines"`
	Dropped    int                 `json:"dropped_lines"`
	Samples    int                 `json:"samples"`
	LastAction string              `json:"last_action"`
	LastPose   *kinematics.Pose    `json:"last_pose,omitempty"`
}

// Recorder appends raw serial lines to a log file and decodes them as they
// arrive, integrating a live pose from every completed sample.
type Recorder struct {
	path string

	mu     sync.Mutex
	out    io.WriteCloser
	dec    telemetry.EventDecoder
	integ  *kinematics.Integrator
	poses  []kinematics.Pose
	lines  int
	onPose func(kinematics.Pose)
	drops  func() int
	closed bool
}

// NewRecorder opens path for appending, creating its directory if needed.
func NewRecorder(fsys fsutil.FileSystem, path string, settings kinematics.Settings) (*Recorder, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create capture dir: %w", err)
		}
	}
	out, err := fsys.Append(path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	return &Recorder{
		path:  path,
		out:   out,
		integ: kinematics.NewIntegrator(settings),
	}, nil
}

// OnPose registers fn to be called with every new pose. It runs on the
// recording goroutine.
func (r *Recorder) OnPose(fn func(kinematics.Pose)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onPose = fn
}

// CountDropped registers fn as the source of the dropped line count reported
// by Stats, typically LineMux.Dropped for the recorder's subscription.
func (r *Recorder) CountDropped(fn func() int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drops = fn
}

// Record appends one line to the log and decodes it.
func (r *Recorder) Record(line string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if _, err := io.WriteString(r.out, line+"\n"); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("append capture line: %w", err)
	}
	r.lines++

	sample, ok := r.dec.Feed(line)
	if !ok {
		r.mu.Unlock()
		return nil
	}
	pose := r.integ.Step(sample)
	r.poses = append(r.poses, pose)
	fn := r.onPose
	r.mu.Unlock()

	if fn != nil {
		fn(pose)
	}
	return nil
}

// Run records lines until the channel is closed or ctx is done.
func (r *Recorder) Run(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := r.Record(line); err != nil {
				return err
			}
		}
	}
}

// Stats returns a snapshot of the capture.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{
		Path:       r.path,
		Settings:   r.integ.Settings(),
		Lines:      r.lines,
		Samples:    len(r.poses),
		LastAction: r.dec.LastAction(),
	}
	if r.drops != nil {
		st.Dropped = r.drops()
	}
	if n := len(r.poses); n > 0 {
		last := r.poses[n-1]
		st.LastPose = &last
	}
	return st
}

// Poses returns a copy of the poses integrated so far.
func (r *Recorder) Poses() []kinematics.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kinematics.Pose(nil), r.poses...)
}

// Close closes the log file. Later Record calls return ErrClosed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.out.Close()
}

// AttachAdminRoutes mounts the capture statistics at /debug/capture.
func (r *Recorder) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	debug.HandleFunc("capture", "live capture statistics", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		httputil.WriteJSONOK(w, r.Stats())
	})
}
