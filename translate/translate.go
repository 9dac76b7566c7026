// Package translate fills untranslated PO entries using a language model.
//
// A run walks its catalogs one after another. For each catalog the entries
// needing translation are planned into fixed-size batches, every batch is
// sent as a single numbered prompt, and the reply is reconciled back into the
// entries by position. Progress is reported through Options.OnEvent; the
// package itself never prints.
package translate

import (
	"context"
	"fmt"
	"time"

	po "github.com/minios-linux/poai/pofile"
)

// Catalog is a loaded translation file.
type Catalog interface {
	// Name identifies the file in progress output and the summary.
	Name() string
	// Language is the target language code.
	Language() string
	// Entries returns the catalog entries in file order.
	Entries() []*po.Entry
	// Plurals is the number of plural forms used by the catalog.
	Plurals() int
	// Save writes the catalog back to where it was loaded from.
	Save() error
}

// Opener loads the catalog stored at path.
type Opener func(path string) (Catalog, error)

// Options controls a translation run.
type Options struct {
	// Translator performs the external text completion call.
	Translator Translator
	// Model is passed to the translator unchanged.
	Model string
	// BatchSize is the number of entries per request.
	BatchSize int
	// SourceLang is the language of the msgids (default "en").
	SourceLang string
	// RequestDelay is waited after every request.
	RequestDelay time.Duration
	// OnEvent receives progress events.
	OnEvent func(Event)
}

func (o *Options) emit(ev Event) {
	if o.OnEvent != nil {
		o.OnEvent(ev)
	}
}

func (o *Options) validate() error {
	if err := ValidateBatchSize(o.BatchSize); err != nil {
		return err
	}
	if o.Translator == nil {
		return &ConfigurationError{Field: "translator", Msg: "not configured"}
	}
	return nil
}

// Run translates the catalogs at paths in order and returns the summary.
//
// Configuration problems are returned before any catalog is opened. A
// catalog that cannot be loaded or saved is recorded in the summary and the
// run moves on. Cancelling ctx stops the run at the next batch boundary; a
// request already in flight is allowed to finish, the partially translated
// catalog is saved, and ctx.Err() is returned with the summary.
func Run(ctx context.Context, paths []string, open Opener, opts Options) (*RunSummary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	summary := &RunSummary{}
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		cat, err := open(path)
		if err != nil {
			stats := FileStats{File: path, Err: fmt.Errorf("loading %s: %w", path, err)}
			opts.emit(Event{Kind: EventFileFailed, File: path, Err: stats.Err})
			summary.Files = append(summary.Files, stats)
			continue
		}
		summary.Files = append(summary.Files, translateCatalog(ctx, cat, &opts, summary))
	}
	return summary, ctx.Err()
}

// translateCatalog runs every batch of one catalog and saves it when
// something changed. Each request is counted in summary.Requests.
func translateCatalog(ctx context.Context, cat Catalog, opts *Options, summary *RunSummary) FileStats {
	stats := FileStats{File: cat.Name(), Lang: cat.Language()}
	batches, err := Plan(cat.Entries(), opts.BatchSize)
	if err != nil {
		stats.Err = err
		opts.emit(Event{Kind: EventFileFailed, File: stats.File, Lang: stats.Lang, Err: err})
		return stats
	}
	stats.Planned = planned(batches)
	target := Target{Lang: cat.Language(), SourceLang: opts.SourceLang, Plurals: cat.Plurals()}

	opts.emit(Event{
		Kind: EventFileStarted, File: stats.File, Lang: stats.Lang,
		Model: opts.Model, Total: stats.Planned, Batches: len(batches),
	})

	// Requests are never cut short; cancellation is observed between batches.
	callCtx := context.WithoutCancel(ctx)
	for i, b := range batches {
		if ctx.Err() != nil {
			break
		}

		res := Reconcile(callCtx, b, target, opts.Model, opts.Translator)
		summary.Requests++

		c := res.Counts()
		stats.Translated += c.Translated
		stats.Errors += c.Errors

		ev := Event{
			File: stats.File, Lang: stats.Lang, Total: stats.Planned,
			Batch: i + 1, Batches: len(batches),
			First: b.Start + 1, Last: b.Start + b.Len(),
			Counts: c, Err: res.Err,
		}
		switch {
		case res.Err != nil:
			ev.Kind = EventBatchFailed
		case res.Lines == 0:
			ev.Kind = EventBatchUnparsed
		default:
			ev.Kind = EventBatchDone
		}
		opts.emit(ev)

		pause(ctx, opts.RequestDelay)
	}

	stats.Skipped = stats.Planned - stats.Translated - stats.Errors

	done := Event{File: stats.File, Lang: stats.Lang, Total: stats.Planned, Counts: stats.Counts}
	if !stats.Changed() {
		done.Kind = EventFileUnchanged
		opts.emit(done)
		return stats
	}
	if err := cat.Save(); err != nil {
		stats.Err = fmt.Errorf("saving %s: %w", stats.File, err)
		done.Kind, done.Err = EventFileFailed, stats.Err
		opts.emit(done)
		return stats
	}
	stats.Saved = true
	done.Kind = EventFileSaved
	opts.emit(done)
	return stats
}

// pause waits d, returning early when ctx is cancelled.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
