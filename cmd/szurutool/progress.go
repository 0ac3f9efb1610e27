package main

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"
)

// newProgress returns a per-item progress callback and a stop function.
// Rendering only happens on interactive terminals; otherwise both are
// no-ops so piped output stays clean.
func newProgress(hide bool, message string) (func(done, total int), func()) {
	if hide || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func(int, int) {}, func() {}
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetAutoStop(false)
	go pw.Render()

	tracker := &progress.Tracker{Message: message}
	appended := false

	update := func(done, total int) {
		if !appended {
			tracker.Total = int64(total)
			pw.AppendTracker(tracker)
			appended = true
		}
		tracker.SetValue(int64(done))
	}
	stop := func() {
		tracker.MarkAsDone()
		pw.Stop()
	}
	return update, stop
}
