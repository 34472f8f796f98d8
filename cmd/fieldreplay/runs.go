package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/export"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/fsutil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/replay"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/store"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/telemetry"
)

func runImport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	dbPath := fs.String("db", DefaultDBPath, "Run database path")
	name := fs.String("name", "", "Run name (default: log file name; single log only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: expected one log file or directory", errUsage)
	}

	fsys := fsutil.OSFileSystem{}
	paths := []string{fs.Arg(0)}
	info, err := fsys.Stat(fs.Arg(0))
	fromDir := err == nil && info.IsDir()
	if fromDir {
		if paths, err = telemetry.FindLogs(fsys, fs.Arg(0)); err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no logs found in %s", fs.Arg(0))
		}
		if *name != "" {
			return fmt.Errorf("%w: --name needs a single log file", errUsage)
		}
	}

	opts, err := common.resolve()
	if err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if !fromDir {
		return importLog(out, st, fsys, paths[0], *name, opts)
	}

	var errs []error
	for _, path := range paths {
		if err := importLog(out, st, fsys, path, "", opts); err != nil {
			fmt.Fprintf(out, "Skipped %s: %v\n", path, err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	fmt.Fprintf(out, "Imported %d of %d logs\n", len(paths)-len(errs), len(paths))
	if len(errs) > 0 {
		return fmt.Errorf("%d logs failed to import: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// importLog replays one log and stores it as a run named name, or after the
// log file when name is empty.
func importLog(out io.Writer, st *store.Store, fsys fsutil.FileSystem, path, name string, opts resolved) error {
	sess, err := replay.Open(fsys, path, opts.options())
	if err != nil {
		return errors.New(replay.LoadErrorMessage(err))
	}
	run := store.Run{
		Name:       sess.Name(),
		SourcePath: sess.Path(),
		Format:     sess.Format().String(),
		Settings:   sess.Settings(),
	}
	if name != "" {
		run.Name = name
	}
	saved, err := st.SaveRun(context.Background(), run, sess.Poses())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %s as run %s (%d poses)\n", saved.Name, saved.ID, saved.Samples)
	return nil
}

func runRuns(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", DefaultDBPath, "Run database path")
	deleteID := fs.String("delete", "", "Delete the run with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := context.Background()

	if *deleteID != "" {
		if err := st.DeleteRun(ctx, *deleteID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %s\n", *deleteID)
		return nil
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFORMAT\tPOSES\tDURATION\tIMPORTED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%s\n",
			r.ID, r.Name, r.Format, r.Samples, r.DurationS, r.ImportedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runPoses(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("poses", flag.ContinueOnError)
	dbPath := fs.String("db", DefaultDBPath, "Run database path")
	outPath := fs.String("out", "", "Write to this file instead of stdout")
	formatName := fs.String("export-format", "", "Export format: csv, json or parquet (default: from --out extension, else json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: expected exactly one run id", errUsage)
	}

	format := export.FormatJSON
	if *outPath != "" {
		format = export.FormatForPath(*outPath)
	}
	if *formatName != "" {
		var err error
		if format, err = export.ParseFormat(*formatName); err != nil {
			return err
		}
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	poses, err := st.LoadPoses(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	if *outPath != "" {
		if err := export.Write(fsutil.OSFileSystem{}, *outPath, poses, format); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d poses to %s (%s)\n", len(poses), *outPath, format)
		return nil
	}

	data, err := export.Marshal(poses, format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
