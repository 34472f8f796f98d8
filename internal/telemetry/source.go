package telemetry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
)

// ReadError reports a failure to read a log file. It is the only error the
// parsing pipeline produces.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read log %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadLog reads a log file as text.
func ReadLog(fsys fsutil.FileSystem, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return string(data), nil
}

// LoadFile reads and parses a log file.
func LoadFile(fsys fsutil.FileSystem, path string, format Format) ([]Sample, error) {
	text, err := ReadLog(fsys, path)
	if err != nil {
		return nil, err
	}
	return ParseAs(text, format), nil
}

// LogExtensions are the file extensions FindLogs treats as robot logs.
var LogExtensions = []string{".txt", ".csv", ".log"}

// FindLogs lists the log files directly inside dir, sorted by name.
func FindLogs(fsys fsutil.FileSystem, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list logs in %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isLogName(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func isLogName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range LogExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
