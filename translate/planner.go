package translate

import (
	"fmt"
	"strings"

	po "github.com/minios-linux/poai/pofile"
)

// ConfigurationError reports run parameters that make translation impossible.
// It is returned before any catalog is read.
type ConfigurationError struct {
	Field string
	Value any
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Msg)
}

// ValidateBatchSize checks that n entries per request is usable.
func ValidateBatchSize(n int) error {
	if n <= 0 {
		return &ConfigurationError{Field: "batch size", Value: n, Msg: "must be a positive integer"}
	}
	return nil
}

// Batch is a contiguous run of entries sent in one request. Entries point into
// the catalog, so writing a translation through a batch updates the catalog.
type Batch struct {
	// Start is the offset of the first entry within the file's selection.
	Start   int
	Entries []*po.Entry
}

// Len returns the number of entries in the batch.
func (b Batch) Len() int { return len(b.Entries) }

// NeedsTranslation reports whether an entry should be sent for translation:
// it has non-blank source text, a blank target, and the catalog does not
// already consider it translated. The header and obsolete entries never
// qualify.
func NeedsTranslation(e *po.Entry) bool {
	if e.MsgID == "" || e.Obsolete {
		return false
	}
	if strings.TrimSpace(e.MsgID) == "" {
		return false
	}
	if hasTarget(e) {
		return false
	}
	return !e.IsTranslated()
}

// Select returns the entries needing translation in catalog order.
func Select(entries []*po.Entry) []*po.Entry {
	var out []*po.Entry
	for _, e := range entries {
		if NeedsTranslation(e) {
			out = append(out, e)
		}
	}
	return out
}

// Plan selects the entries needing translation and splits them into batches
// of batchSize, the last one possibly shorter. The selection is made once;
// translations written while batches are processed do not change the plan.
func Plan(entries []*po.Entry, batchSize int) ([]Batch, error) {
	if err := ValidateBatchSize(batchSize); err != nil {
		return nil, err
	}
	selected := Select(entries)

	var batches []Batch
	for start := 0; start < len(selected); start += batchSize {
		end := min(start+batchSize, len(selected))
		batches = append(batches, Batch{Start: start, Entries: selected[start:end:end]})
	}
	return batches, nil
}

// planned returns the total number of entries across batches.
func planned(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += b.Len()
	}
	return n
}

func hasTarget(e *po.Entry) bool {
	return strings.TrimSpace(e.Target()) != ""
}
