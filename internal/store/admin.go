package store

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/export"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/httputil"
	"github.com/Bansextus/2026-Vex-V5-Pushback-Code-and-Desighn/internal/security"
)

var exportContentTypes = map[export.Format]string{
	export.FormatCSV:     "text/csv",
	export.FormatJSON:    "application/json",
	export.FormatParquet: "application/vnd.apache.parquet",
}

// AttachAdminRoutes mounts a live SQL console at /debug/tailsql/, a JSON run
// listing at /debug/runs and pose downloads at /debug/run?id=<id>&format=csv.
func (s *Store) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://fieldreplay.db", s.DB, &tailsql.DBOptions{
		Label: "Replay runs",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.HandleFunc("runs", "stored replay runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		runs, err := s.ListRuns(r.Context())
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, runs)
	})

	debug.HandleSilentFunc("run", s.handleRunDownload)
	return nil
}

func (s *Store) handleRunDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		httputil.BadRequest(w, "missing id")
		return
	}
	format := export.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}

	run, err := s.GetRun(r.Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	poses, err := s.LoadPoses(r.Context(), id)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	data, err := export.Marshal(poses, format)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	filename := security.SanitizeFilename(strings.TrimSuffix(run.Name, ".txt")) + "." + string(format)
	httputil.WriteAttachment(w, filename, exportContentTypes[format], data)
}
