// Package report accumulates recovered failures into the run log and
// renders the end-of-run summary. One reporter exists per run; the log file
// is created lazily so clean runs leave nothing behind.
package report

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Status is the terminal condition of a run.
type Status string

const (
	// StatusCompleted means every clip and every export group succeeded.
	StatusCompleted Status = "completed"
	// StatusDegraded means some clips or groups failed but at least one
	// export was produced.
	StatusDegraded Status = "degraded"
	// StatusFailed means transforms were attempted but no export was
	// produced.
	StatusFailed Status = "failed"
	// StatusAborted means the run stopped before attempting any transform.
	StatusAborted Status = "aborted"
)

type Reporter struct {
	log      *slog.Logger
	logPath  string
	file     *os.File
	openErr  error
	failures int
}

func New(log *slog.Logger, logPath string) *Reporter {
	return &Reporter{log: log, logPath: logPath}
}

// Failure records one recovered failure: an ERROR line on the console and a
// timestamped entry in the run log. Multi-line error text (engine stderr
// tails) lands indented under the entry so the log stays grep-able by its
// first column.
func (r *Reporter) Failure(subject string, err error) {
	r.failures++
	msg := strings.TrimSpace(err.Error())
	first, rest, _ := strings.Cut(msg, "\n")
	r.log.Error(subject+" failed", "error", first)
	r.appendEntry(time.Now(), subject, first, rest)
}

// Failures reports how many failures were recorded.
func (r *Reporter) Failures() int { return r.failures }

// LogPath returns the run log location, or "" when no entry was ever
// written.
func (r *Reporter) LogPath() string {
	if r.file == nil {
		return ""
	}
	return r.logPath
}

// Close releases the run log handle. Safe to call when no log was created.
func (r *Reporter) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *Reporter) appendEntry(ts time.Time, subject, first, rest string) {
	f := r.ensureLog()
	if f == nil {
		return
	}
	var b strings.Builder
	b.WriteString(ts.Format("2006-01-02 15:04:05 "))
	b.WriteString(subject)
	b.WriteString(": ")
	b.WriteString(first)
	b.WriteByte('\n')
	if rest != "" {
		for _, line := range strings.Split(rest, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	if _, err := f.WriteString(b.String()); err != nil {
		r.log.Warn("run log write failed", "path", r.logPath, "error", err)
	}
}

func (r *Reporter) ensureLog() *os.File {
	if r.file != nil || r.openErr != nil {
		return r.file
	}
	f, err := os.OpenFile(r.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		r.openErr = err
		r.log.Warn("cannot create run log", "path", r.logPath, "error", err)
		return nil
	}
	r.file = f
	return f
}
