package capture

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/testutil"
)

func blockLines(a1, a2, a3, a4 float64) []string {
	return strings.Split(strings.TrimSuffix(testutil.AxisBlock(a1, a2, a3, a4), "\n"), "\n")
}

func TestLogFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bonkers_log_1700000000123.txt", LogFileName(time.UnixMilli(1700000000123)))
}

func TestCapturePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.UnixMilli(1700000000123)

	got, err := CapturePath(dir, "", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bonkers_log_1700000000123.txt"), got)

	got, err = CapturePath(dir, "day1/practice.txt", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "day1", "practice.txt"), got)

	abs := filepath.Join(t.TempDir(), "elsewhere.txt")
	got, err = CapturePath(dir, abs, now)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	_, err = CapturePath(dir, "../escape.txt", now)
	assert.Error(t, err)
}

func TestRecorder_RecordIntegratesLive(t *testing.T) {
	t.Parallel()

	fsys := fsutil.NewMemoryFileSystem()
	rec, err := NewRecorder(fsys, "captures/run.txt", kinematics.DefaultSettings())
	require.NoError(t, err)

	var seen []kinematics.Pose
	rec.OnPose(func(p kinematics.Pose) { seen = append(seen, p) })

	lines := blockLines(0, 50, 50, 0)
	lines = append(lines, "BTN_L1 : INTAKE_IN", "noise without a colon")
	lines = append(lines, blockLines(0, 50, 50, 0)...)
	for _, line := range lines {
		require.NoError(t, rec.Record(line))
	}

	require.Len(t, seen, 2)
	assert.Equal(t, seen, rec.Poses())
	assert.InDelta(t, 72.0, seen[0].X, 1e-9)
	assert.InDelta(t, 72.6, seen[1].X, 1e-9)
	assert.InDelta(t, 72.0, seen[1].Y, 1e-9)
	assert.Equal(t, "BTN_L1 : INTAKE_IN", seen[1].Action)

	st := rec.Stats()
	assert.Equal(t, "captures/run.txt", st.Path)
	assert.Equal(t, kinematics.DefaultSettings(), st.Settings)
	assert.Equal(t, len(lines), st.Lines)
	assert.Equal(t, 2, st.Samples)
	assert.Equal(t, "BTN_L1 : INTAKE_IN", st.LastAction)
	require.NotNil(t, st.LastPose)
	assert.Equal(t, seen[1], *st.LastPose)

	data, err := fsys.ReadFile("captures/run.txt")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", string(data))

	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())
	assert.ErrorIs(t, rec.Record("AXIS1 : 0"), ErrClosed)
}

func TestRecorder_AppendsToExistingFile(t *testing.T) {
	t.Parallel()

	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("run.txt", []byte("AXIS1 : 1\n"), 0644))

	rec, err := NewRecorder(fsys, "run.txt", kinematics.DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, rec.Record("AXIS2 : 2"))
	require.NoError(t, rec.Close())

	data, err := fsys.ReadFile("run.txt")
	require.NoError(t, err)
	assert.Equal(t, "AXIS1 : 1\nAXIS2 : 2\n", string(data))
}

func TestRecorder_InvalidSettings(t *testing.T) {
	t.Parallel()

	settings := kinematics.DefaultSettings()
	settings.TrackWidthIn = 0
	_, err := NewRecorder(fsutil.NewMemoryFileSystem(), "run.txt", settings)
	assert.ErrorIs(t, err, kinematics.ErrInvalidSettings)
}

func TestRecorder_Run(t *testing.T) {
	t.Parallel()

	rec, err := NewRecorder(fsutil.NewMemoryFileSystem(), "run.txt", kinematics.DefaultSettings())
	require.NoError(t, err)

	lines := make(chan string, 8)
	for _, line := range blockLines(10, 20, 30, 40) {
		lines <- line
	}
	close(lines)

	require.NoError(t, rec.Run(context.Background(), lines))
	assert.Equal(t, 1, rec.Stats().Samples)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rec.Run(ctx, make(chan string)), context.Canceled)
}

func TestRecorder_RunFromLineMux(t *testing.T) {
	port := newTestSerialPort()
	lm := NewLineMux(port)
	_, lines := lm.Subscribe()

	rec, err := NewRecorder(fsutil.NewMemoryFileSystem(), "run.txt", kinematics.DefaultSettings())
	require.NoError(t, err)

	port.feed(testutil.AxisBlock(0, 0, 0, 0) + testutil.AxisBlock(0, 100, 100, 0))
	port.hangUp()
	require.NoError(t, lm.Monitor(context.Background()))
	require.NoError(t, lm.Close())

	require.NoError(t, rec.Run(context.Background(), lines))
	poses := rec.Poses()
	require.Len(t, poses, 2)
	assert.InDelta(t, 72+60*0.02, poses[1].X, 1e-9)
}

func TestRecorder_ReportsDroppedLines(t *testing.T) {
	port := newTestSerialPort()
	lm := NewLineMux(port)
	id, lines := lm.Subscribe()

	rec, err := NewRecorder(fsutil.NewMemoryFileSystem(), "run.txt", kinematics.DefaultSettings())
	require.NoError(t, err)
	rec.CountDropped(func() int { return lm.Dropped(id) })

	// Nothing drains the subscription while the mux runs, so everything past
	// the buffer is lost.
	port.feed(strings.Repeat("AXIS1 : 0\n", SubscriberBuffer+44))
	port.hangUp()
	require.NoError(t, lm.Monitor(context.Background()))
	require.NoError(t, lm.Close())
	require.NoError(t, rec.Run(context.Background(), lines))

	st := rec.Stats()
	assert.Equal(t, SubscriberBuffer, st.Lines)
	assert.Equal(t, 44, st.Dropped)
	assert.Equal(t, 44, lm.Dropped(id))
	assert.Zero(t, lm.Dropped("unknown"))
}

func TestRecorder_AdminRoute(t *testing.T) {
	t.Parallel()

	rec, err := NewRecorder(fsutil.NewMemoryFileSystem(), "run.txt", kinematics.DefaultSettings())
	require.NoError(t, err)
	for _, line := range blockLines(0, 0, 0, 0) {
		require.NoError(t, rec.Record(line))
	}

	mux := http.NewServeMux()
	rec.AttachAdminRoutes(mux)

	req := testutil.NewTestRequest(http.MethodGet, "/debug/capture")
	req.RemoteAddr = "127.0.0.1:12345"
	w := testutil.NewTestRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var st Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 4, st.Lines)
	assert.Equal(t, 1, st.Samples)
	require.NotNil(t, st.LastPose)
	assert.Equal(t, 72.0, st.LastPose.X)
}
