// Package store keeps a catalogue of replayed runs and their integrated poses
// in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/kinematics"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/monitoring"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

var logf = monitoring.Tagged("store")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// Store is a run catalogue backed by a SQLite database.
type Store struct {
	*sql.DB
}

// Run describes one stored replay.
type Run struct {
	ID         string              `json:"run_id"`
	Name       string              `json:"name"`
	SourcePath string              `json:"source_path"`
	Format     string              `json:"format"`
	Settings   kinematics.Settings `json:"settings"`
	Samples    int                 `json:"sample_count"`
	DurationS  float64             `json:"duration_s"`
	ImportedAt time.Time           `json:"imported_at"`
}

// Open opens the database at path and applies any pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// PRAGMAs are per connection.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	s := &Store{db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SaveRun stores run and its poses in one transaction. A new id is assigned
// when run.ID is empty, and ImportedAt defaults to now. The stored run is
// returned.
func (s *Store) SaveRun(ctx context.Context, run Run, poses []kinematics.Pose) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ImportedAt.IsZero() {
		run.ImportedAt = time.Now()
	}
	run.Samples = len(poses)
	if n := len(poses); n > 0 {
		run.DurationS = poses[n-1].T - poses[0].T
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, name, source_path, format,
			field_size_in, track_width_in, max_speed_in_per_s, dt_fallback_s,
			sample_count, duration_s, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.SourcePath, run.Format,
		run.Settings.FieldSizeIn, run.Settings.TrackWidthIn, run.Settings.MaxSpeedInPerS, run.Settings.DtFallback,
		run.Samples, run.DurationS, run.ImportedAt.UnixNano(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO poses (
			run_id, seq, t, x, y, theta, left_cmd, right_cmd,
			axis1, axis2, axis3, axis4, action
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare pose insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range poses {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, p.T, p.X, p.Y, p.Theta, p.LeftCmd, p.RightCmd,
			p.Axis1, p.Axis2, p.Axis3, p.Axis4, p.Action,
		); err != nil {
			return Run{}, fmt.Errorf("insert pose %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit save run: %w", err)
	}
	logf("saved run %s (%s, %d poses)", run.ID, run.Name, run.Samples)

	run.ImportedAt = time.Unix(0, run.ImportedAt.UnixNano())
	return run, nil
}

const runColumns = `run_id, name, source_path, format,
	field_size_in, track_width_in, max_speed_in_per_s, dt_fallback_s,
	sample_count, duration_s, imported_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r          Run
		importedAt int64
	)
	err := row.Scan(
		&r.ID, &r.Name, &r.SourcePath, &r.Format,
		&r.Settings.FieldSizeIn, &r.Settings.TrackWidthIn, &r.Settings.MaxSpeedInPerS, &r.Settings.DtFallback,
		&r.Samples, &r.DurationS, &importedAt,
	)
	if err != nil {
		return Run{}, err
	}
	r.ImportedAt = time.Unix(0, importedAt)
	return r, nil
}

// ListRuns returns every run, most recently imported first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY imported_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// LoadPoses returns the poses of a run in their original order.
func (s *Store) LoadPoses(ctx context.Context, id string) ([]kinematics.Pose, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.QueryContext(ctx, `
		SELECT t, x, y, theta, left_cmd, right_cmd, axis1, axis2, axis3, axis4, action
		FROM poses WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load poses for %s: %w", id, err)
	}
	defer rows.Close()

	poses := []kinematics.Pose{}
	for rows.Next() {
		var p kinematics.Pose
		if err := rows.Scan(
			&p.T, &p.X, &p.Y, &p.Theta, &p.LeftCmd, &p.RightCmd,
			&p.Axis1, &p.Axis2, &p.Axis3, &p.Axis4, &p.Action,
		); err != nil {
			return nil, fmt.Errorf("scan pose: %w", err)
		}
		poses = append(poses, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return poses, nil
}

// DeleteRun removes a run and its poses.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM poses WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("delete poses: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete run: %w", err)
	}
	logf("deleted run %s", id)
	return nil
}
