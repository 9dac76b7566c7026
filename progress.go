package main

import (
	"fmt"
	"path"

	"github.com/schollz/progressbar/v3"

	"github.com/minios-linux/poai/i18n"
	"github.com/minios-linux/poai/translate"
)

// progressSink prints run events as log lines and, when enabled, drives a
// per-catalog progress bar.
type progressSink struct {
	showBar bool
	bar     *progressbar.ProgressBar
}

func newProgressSink(showBar bool) *progressSink {
	return &progressSink{showBar: showBar}
}

func (s *progressSink) handle(ev translate.Event) {
	switch ev.Kind {
	case translate.EventFileStarted:
		logInfo(i18n.T("Translating: %s → %s using model %s (%d entries)"), ev.File, ev.Lang, ev.Model, ev.Total)
		if s.showBar && ev.Total > 0 {
			s.bar = newBar(ev.File, ev.Total)
		}

	case translate.EventBatchDone:
		if s.bar != nil {
			_ = s.bar.Add(ev.Last - ev.First + 1)
			return
		}
		logSuccess(i18n.T("Translated entries %d to %d"), ev.First, ev.Last)

	case translate.EventBatchUnparsed:
		s.clearBar(ev)
		logWarning(i18n.T("No numbered lines in reply for entries %d to %d"), ev.First, ev.Last)

	case translate.EventBatchFailed:
		s.clearBar(ev)
		logError(i18n.T("Error in batch starting at %d: %v"), ev.First, ev.Err)

	case translate.EventFileSaved:
		s.finishBar()
		logSuccess(i18n.T("Saved as %s (%d translated, %d errors, %d skipped)"),
			path.Base(ev.File), ev.Counts.Translated, ev.Counts.Errors, ev.Counts.Skipped)

	case translate.EventFileUnchanged:
		s.finishBar()
		if ev.Total == 0 {
			logInfo(i18n.T("No changes made to %s (all entries already translated)"), ev.File)
		} else {
			logWarning(i18n.T("No changes made to %s (%d entries skipped)"), ev.File, ev.Counts.Skipped)
		}

	case translate.EventFileFailed:
		s.finishBar()
		logError("%v", ev.Err)
	}
}

// clearBar advances the bar past a batch that produced no translations and
// clears its line so the following log line is readable.
func (s *progressSink) clearBar(ev translate.Event) {
	if s.bar == nil {
		return
	}
	_ = s.bar.Add(ev.Last - ev.First + 1)
	_ = s.bar.Clear()
	fmt.Fprintln(logOut)
}

func (s *progressSink) finishBar() {
	if s.bar == nil {
		return
	}
	_ = s.bar.Finish()
	fmt.Fprintln(logOut)
	s.bar = nil
}

func newBar(name string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(logOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", path.Base(name))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// printSummary writes the end-of-run table.
func printSummary(summary *translate.RunSummary) {
	fmt.Fprintln(logOut)
	fmt.Fprintln(logOut, headerColor.Sprint("=== Summary ==="))
	for _, f := range summary.Files {
		if f.Err != nil {
			fmt.Fprintf(logOut, "%s: %s %v\n", f.File, errorColor.Sprint(i18n.T("failed:")), f.Err)
			continue
		}
		fmt.Fprintf(logOut, i18n.T("%s: %d translated, %d errors, %d skipped")+"\n", f.File, f.Translated, f.Errors, f.Skipped)
	}
	if len(summary.Files) > 1 {
		t := summary.Totals()
		fmt.Fprintf(logOut, i18n.T("Total: %d translated, %d errors, %d skipped")+"\n", t.Translated, t.Errors, t.Skipped)
	}
	fmt.Fprintf(logOut, i18n.T("Total requests: %d")+"\n", summary.Requests)
}
