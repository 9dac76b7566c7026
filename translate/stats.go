package translate

// Counts tallies outcomes by kind.
type Counts struct {
	Translated int
	Errors     int
	Skipped    int
}

// Add counts one outcome.
func (c *Counts) Add(o Outcome) {
	switch o.Kind {
	case OutcomeTranslated:
		c.Translated++
	case OutcomeError:
		c.Errors++
	default:
		c.Skipped++
	}
}

// Changed reports whether any entry was written.
func (c Counts) Changed() bool {
	return c.Translated > 0 || c.Errors > 0
}

// FileStats summarises one catalog of a run.
type FileStats struct {
	// File is the catalog's name relative to the run root.
	File string
	Lang string
	// Planned is the number of entries selected for translation.
	Planned int
	Counts
	// Saved is set when the catalog was written back.
	Saved bool
	// Err records a load or save failure. Counts stay valid for what was
	// reconciled before the failure.
	Err error
}

// RunSummary collects per-file statistics in processing order.
type RunSummary struct {
	Files []FileStats
	// Requests counts every external call attempted, failed ones included.
	Requests int
}

// Totals sums the counts over all files.
func (s *RunSummary) Totals() Counts {
	var t Counts
	for _, f := range s.Files {
		t.Translated += f.Translated
		t.Errors += f.Errors
		t.Skipped += f.Skipped
	}
	return t
}

// Failed returns the files that could not be loaded or saved.
func (s *RunSummary) Failed() []FileStats {
	var out []FileStats
	for _, f := range s.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}
