package translate

import (
	"context"
	"fmt"
)

// Translator sends a prompt to a language model and returns the raw reply.
type Translator interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, model, prompt string) (string, error)

// Complete calls f.
func (f TranslatorFunc) Complete(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

// Target describes the catalog a batch belongs to.
type Target struct {
	// Lang is the target language code.
	Lang string
	// SourceLang is the language of the msgids, DefaultSourceLang when empty.
	SourceLang string
	// Plurals is the number of forms written into plural entries.
	Plurals int
}

// OutcomeKind classifies what happened to one entry of a batch.
type OutcomeKind int

const (
	// OutcomeSkipped means the entry was left as it was.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeTranslated means a translation was written.
	OutcomeTranslated
	// OutcomeError means the request failed and an error placeholder was written.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeTranslated:
		return "translated"
	case OutcomeError:
		return "error"
	default:
		return "skipped"
	}
}

// Outcome is the result for a single entry. Text holds the translation or
// the error message.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// BatchResult holds one outcome per batch entry, in batch order.
type BatchResult struct {
	Outcomes []Outcome
	// Lines is the number of usable reply lines.
	Lines int
	// Err is the request failure, if any.
	Err error
}

// Counts tallies the outcomes of the batch.
func (r BatchResult) Counts() Counts {
	var c Counts
	for _, o := range r.Outcomes {
		c.Add(o)
	}
	return c
}

// ErrorPlaceholder is the text stored in entries whose request failed.
func ErrorPlaceholder(msg string) string {
	return fmt.Sprintf("[ERROR: %s]", msg)
}

// Reconcile translates one batch: it sends the prompt, parses the reply and
// writes translations into the entries by position. A failed request marks
// every entry still lacking a translation as an error. Entries that gained a
// translation elsewhere are never overwritten.
func Reconcile(ctx context.Context, b Batch, target Target, model string, tr Translator) BatchResult {
	res := BatchResult{Outcomes: make([]Outcome, b.Len())}

	raw, err := tr.Complete(ctx, model, BuildPrompt(b, target))
	if err != nil {
		res.Err = err
		msg := err.Error()
		for i, e := range b.Entries {
			if hasTarget(e) {
				continue
			}
			e.SetTarget(ErrorPlaceholder(msg), target.Plurals)
			res.Outcomes[i] = Outcome{Kind: OutcomeError, Text: msg}
		}
		return res
	}

	lines := ParseResponse(raw, b.Len())
	res.Lines = len(lines)
	for i, line := range lines {
		e := b.Entries[i]
		if hasTarget(e) {
			continue
		}
		// A blank translation would leave the entry untranslated.
		text := TranslationText(line)
		if text == "" {
			continue
		}
		e.SetTarget(text, target.Plurals)
		res.Outcomes[i] = Outcome{Kind: OutcomeTranslated, Text: text}
	}
	return res
}
