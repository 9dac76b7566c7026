package translate

// EventKind identifies a progress event.
type EventKind int

const (
	// EventFileStarted is sent before the first batch of a catalog.
	EventFileStarted EventKind = iota
	// EventBatchDone is sent after a batch whose reply could be parsed.
	EventBatchDone
	// EventBatchFailed is sent after a batch whose request failed.
	EventBatchFailed
	// EventBatchUnparsed is sent after a batch whose reply held no usable line.
	EventBatchUnparsed
	// EventFileSaved is sent after a changed catalog was written.
	EventFileSaved
	// EventFileUnchanged is sent when nothing in the catalog changed.
	EventFileUnchanged
	// EventFileFailed is sent when a catalog could not be loaded or saved.
	EventFileFailed
)

func (k EventKind) String() string {
	switch k {
	case EventFileStarted:
		return "file-started"
	case EventBatchDone:
		return "batch-done"
	case EventBatchFailed:
		return "batch-failed"
	case EventBatchUnparsed:
		return "batch-unparsed"
	case EventFileSaved:
		return "file-saved"
	case EventFileUnchanged:
		return "file-unchanged"
	case EventFileFailed:
		return "file-failed"
	}
	return "unknown"
}

// Event reports run progress. Batch events carry the batch's counts and its
// 1-based entry range First..Last within the file's selection; file events
// carry the file's counts.
type Event struct {
	Kind  EventKind
	File  string
	Lang  string
	Model string
	// Total is the number of entries planned for the file.
	Total int

	Batch   int
	Batches int
	First   int
	Last    int

	Counts Counts
	Err    error
}
