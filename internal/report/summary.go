package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RunSummary is everything the end-of-run table shows.
type RunSummary struct {
	Status       Status
	Inventoried  int
	Deleted      int
	Excluded     int
	Processed    int
	FailedClips  int
	FailedGroups int
	Exports      int
	ExportDir    string
	LogPath      string
	Elapsed      time.Duration
}

// RenderSummary writes the run summary table to w. colored controls the
// status cell only; counts stay plain so the table pipes cleanly.
func RenderSummary(w io.Writer, s RunSummary, colored bool) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"run", statusCell(s.Status, colored)})
	tw.AppendRows([]table.Row{
		{"clips found", strconv.Itoa(s.Inventoried)},
		{"deleted (under 5s)", strconv.Itoa(s.Deleted)},
		{"excluded", strconv.Itoa(s.Excluded)},
		{"processed", strconv.Itoa(s.Processed)},
		{"failed clips", strconv.Itoa(s.FailedClips)},
		{"failed groups", strconv.Itoa(s.FailedGroups)},
		{"exports written", strconv.Itoa(s.Exports)},
	})
	if s.Elapsed > 0 {
		tw.AppendRow(table.Row{"elapsed", s.Elapsed.Round(100 * time.Millisecond).String()})
	}
	if s.ExportDir != "" && s.Exports > 0 {
		tw.AppendRow(table.Row{"export dir", s.ExportDir})
	}
	if s.LogPath != "" {
		tw.AppendRow(table.Row{"failure log", s.LogPath})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})

	fmt.Fprintln(w, tw.Render())
}

func statusCell(s Status, colored bool) string {
	if !colored {
		return string(s)
	}
	switch s {
	case StatusCompleted:
		return text.FgGreen.Sprint(string(s))
	case StatusDegraded:
		return text.FgYellow.Sprint(string(s))
	default:
		// failed and aborted
		return text.FgRed.Sprint(string(s))
	}
}
