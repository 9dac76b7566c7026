package translate

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	po "github.com/minios-linux/poai/pofile"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type fakeCatalog struct {
	name    string
	lang    string
	entries []*po.Entry
	saves   int
	saveErr error
}

func (c *fakeCatalog) Name() string         { return c.name }
func (c *fakeCatalog) Language() string     { return c.lang }
func (c *fakeCatalog) Entries() []*po.Entry { return c.entries }
func (c *fakeCatalog) Plurals() int         { return 2 }
func (c *fakeCatalog) Save() error {
	c.saves++
	return c.saveErr
}

func entries(ids ...string) []*po.Entry {
	out := make([]*po.Entry, len(ids))
	for i, id := range ids {
		out[i] = &po.Entry{MsgID: id}
	}
	return out
}

// scripted replies in call order; an error value makes that call fail.
type scripted struct {
	replies []any
	prompts []string
}

func (s *scripted) Complete(_ context.Context, _ string, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if err, ok := r.(error); ok {
		return "", err
	}
	return r.(string), nil
}

func batchOf(ids ...string) Batch {
	return Batch{Entries: entries(ids...)}
}

func kinds(res BatchResult) []OutcomeKind {
	out := make([]OutcomeKind, len(res.Outcomes))
	for i, o := range res.Outcomes {
		out[i] = o.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// planner
// ---------------------------------------------------------------------------

func TestNeedsTranslation(t *testing.T) {
	tests := []struct {
		name  string
		entry *po.Entry
		want  bool
	}{
		{"untranslated", &po.Entry{MsgID: "Hello"}, true},
		{"blank source", &po.Entry{MsgID: "   "}, false},
		{"header", &po.Entry{MsgID: "", MsgStr: "Language: fr\n"}, false},
		{"translated", &po.Entry{MsgID: "Hello", MsgStr: "Bonjour"}, false},
		{"whitespace target counts as translated", &po.Entry{MsgID: "Hello", MsgStr: "  "}, false},
		{"obsolete", &po.Entry{MsgID: "Gone", Obsolete: true}, false},
		{"fuzzy with text", &po.Entry{MsgID: "Hi", MsgStr: "Salut", Flags: []string{"fuzzy"}}, false},
		{"fuzzy without text", &po.Entry{MsgID: "Hi", Flags: []string{"fuzzy"}}, true},
		{"plural empty", &po.Entry{MsgID: "a", MsgIDPlural: "b", MsgStrPlural: map[int]string{0: "", 1: ""}}, true},
		{"plural partly filled", &po.Entry{MsgID: "a", MsgIDPlural: "b", MsgStrPlural: map[int]string{0: "x", 1: ""}}, false},
	}
	for _, tc := range tests {
		if got := NeedsTranslation(tc.entry); got != tc.want {
			t.Errorf("%s: NeedsTranslation() = %v, want %v", tc.name, got, tc.want)
		}
	}

	blank := []*po.Entry{{MsgID: "Hello", MsgStr: "  "}}
	if batches, err := Plan(blank, 10); err != nil || len(batches) != 0 {
		t.Fatalf("Plan(whitespace target) = %d batches, err %v; want none", len(batches), err)
	}
}

func TestPlanRejectsNonPositiveBatchSize(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := Plan(entries("a"), n)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Plan(batch=%d) error = %v, want ConfigurationError", n, err)
		}
		if cfgErr.Field != "batch size" {
			t.Fatalf("Field = %q", cfgErr.Field)
		}
	}
}

func TestPlanPartitionsSelectionInOrder(t *testing.T) {
	all := entries("one", "two", "three", "four", "five", "six", "seven")
	all[1].MsgStr = "deux"
	all[4].MsgID = " "

	batches, err := Plan(all, 2)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}

	var sizes []int
	var flat []*po.Entry
	for _, b := range batches {
		sizes = append(sizes, b.Len())
		flat = append(flat, b.Entries...)
	}
	if !reflect.DeepEqual(sizes, []int{2, 2, 1}) {
		t.Fatalf("batch sizes = %v, want [2 2 1]", sizes)
	}
	want := []*po.Entry{all[0], all[2], all[3], all[5], all[6]}
	if !reflect.DeepEqual(flat, want) {
		t.Fatal("concatenated batches differ from the selection")
	}
	if batches[1].Start != 2 || batches[2].Start != 4 {
		t.Fatalf("starts = %d, %d", batches[1].Start, batches[2].Start)
	}

	again, _ := Plan(all, 2)
	if !reflect.DeepEqual(batches, again) {
		t.Fatal("Plan is not deterministic")
	}
}

func TestPlanEmptySelection(t *testing.T) {
	batches, err := Plan(entries(), 10)
	if err != nil || len(batches) != 0 {
		t.Fatalf("Plan(empty) = %v, %v", batches, err)
	}
}

func TestBatchIsAViewOverTheCatalog(t *testing.T) {
	all := entries("a", "b")
	batches, _ := Plan(all, 5)
	batches[0].Entries[1].SetTarget("B", 0)
	if all[1].MsgStr != "B" {
		t.Fatal("writing through a batch did not update the catalog entry")
	}
}

// ---------------------------------------------------------------------------
// prompt and parsing
// ---------------------------------------------------------------------------

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(batchOf("Hello", "Goodbye"), Target{Lang: "fr"})

	if !strings.Contains(p, "English phrases to French (fr)") {
		t.Fatalf("prompt does not name the languages:\n%s", p)
	}
	if !strings.Contains(p, "EXACTLY one numbered translation per line") {
		t.Fatalf("prompt lacks the one-line-per-input instruction:\n%s", p)
	}
	if !strings.HasSuffix(p, "\n\n1. Hello\n2. Goodbye") {
		t.Fatalf("prompt lines wrong:\n%s", p)
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("de"); got != "German" {
		t.Fatalf("LanguageName(de) = %q", got)
	}
	if got := LanguageName("not a code"); got != "not a code" {
		t.Fatalf("LanguageName(invalid) = %q", got)
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		limit int
		want  []string
	}{
		{"numbered", "1. Bonjour\n2. Au revoir", 2, []string{"1. Bonjour", "2. Au revoir"}},
		{"chatter dropped", "Sure! Here you go:\n1. Bonjour\n\n2. Au revoir\nHope it helps.", 5, []string{"1. Bonjour", "2. Au revoir"}},
		{"truncated", "1. a\n2. b\n3. c", 2, []string{"1. a", "2. b"}},
		{"numbers ignored for order", "2. b\n1. a", 2, []string{"2. b", "1. a"}},
		{"bare number counts", "7\n1. a", 2, []string{"7", "1. a"}},
		{"fallback separator", "a. Bonjour\nb. Salut\nnothing", 5, []string{"a. Bonjour", "b. Salut"}},
		{"numbered wins over fallback", "x. one\n1.two", 5, []string{"1.two"}},
		{"nothing usable", "Bonjour\nAu revoir", 2, nil},
		{"empty", "  \n ", 2, nil},
		{"crlf", "1. a\r\n2. b\r\n", 2, []string{"1. a", "2. b"}},
	}
	for _, tc := range tests {
		got := ParseResponse(tc.raw, tc.limit)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: ParseResponse() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTranslationText(t *testing.T) {
	tests := map[string]string{
		"1. Bonjour":        "Bonjour",
		"  12.  Au revoir ": "Au revoir",
		"1.Oui":             "1.Oui",
		"3. Mr. Smith":      "Mr. Smith",
	}
	for line, want := range tests {
		if got := TranslationText(line); got != want {
			t.Errorf("TranslationText(%q) = %q, want %q", line, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// reconciliation
// ---------------------------------------------------------------------------

func TestReconcileAlignsByPosition(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []OutcomeKind
	}{
		{"all lines", "1. A\n2. B\n3. C", []OutcomeKind{OutcomeTranslated, OutcomeTranslated, OutcomeTranslated}},
		{"short reply", "1. A", []OutcomeKind{OutcomeTranslated, OutcomeSkipped, OutcomeSkipped}},
		{"long reply", "1. A\n2. B\n3. C\n4. D\n5. E", []OutcomeKind{OutcomeTranslated, OutcomeTranslated, OutcomeTranslated}},
		{"fallback", "Here: A\nx. A\ny. B", []OutcomeKind{OutcomeTranslated, OutcomeTranslated, OutcomeSkipped}},
		{"nothing parseable", "I cannot help with that", []OutcomeKind{OutcomeSkipped, OutcomeSkipped, OutcomeSkipped}},
	}
	for _, tc := range tests {
		b := batchOf("a", "b", "c")
		res := Reconcile(context.Background(), b, Target{Lang: "fr"}, "m", &scripted{replies: []any{tc.reply}})
		if res.Err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, res.Err)
		}
		if got := kinds(res); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: outcomes = %v, want %v", tc.name, got, tc.want)
		}
		for i, o := range res.Outcomes {
			hasText := b.Entries[i].MsgStr != ""
			if (o.Kind == OutcomeTranslated) != hasText {
				t.Errorf("%s: entry %d outcome %v but msgstr %q", tc.name, i, o.Kind, b.Entries[i].MsgStr)
			}
		}
	}
}

func TestReconcileIgnoresReplyNumbering(t *testing.T) {
	b := batchOf("first", "second")
	res := Reconcile(context.Background(), b, Target{Lang: "fr"}, "m", &scripted{replies: []any{"2. premier\n1. second"}})
	if res.Outcomes[0].Text != "premier" || b.Entries[0].MsgStr != "premier" {
		t.Fatalf("entry 0 = %q", b.Entries[0].MsgStr)
	}
	if b.Entries[1].MsgStr != "second" {
		t.Fatalf("entry 1 = %q", b.Entries[1].MsgStr)
	}
}

func TestReconcileNeverOverwrites(t *testing.T) {
	b := batchOf("a", "b")
	b.Entries[0].MsgStr = "set elsewhere"

	res := Reconcile(context.Background(), b, Target{Lang: "fr"}, "m", &scripted{replies: []any{"1. A\n2. B"}})
	if b.Entries[0].MsgStr != "set elsewhere" {
		t.Fatalf("entry overwritten: %q", b.Entries[0].MsgStr)
	}
	if got := res.Counts(); got != (Counts{Translated: 1, Skipped: 1}) {
		t.Fatalf("Counts() = %+v", got)
	}
}

func TestReconcileBlankTranslationIsSkipped(t *testing.T) {
	b := batchOf("a", "b")
	res := Reconcile(context.Background(), b, Target{Lang: "fr"}, "m", &scripted{replies: []any{"1.   \n2. B"}})
	if res.Outcomes[0].Kind != OutcomeSkipped || b.Entries[0].MsgStr != "" {
		t.Fatalf("outcome = %v, msgstr = %q", res.Outcomes[0].Kind, b.Entries[0].MsgStr)
	}
	if res.Outcomes[1].Kind != OutcomeTranslated {
		t.Fatalf("second outcome = %v", res.Outcomes[1].Kind)
	}
}

func TestReconcileTransportFailure(t *testing.T) {
	b := batchOf("a", "b", "c")
	b.Entries[2].MsgStr = "kept"
	failure := errors.New("context deadline exceeded")

	res := Reconcile(context.Background(), b, Target{Lang: "fr"}, "m", &scripted{replies: []any{failure}})
	if !errors.Is(res.Err, failure) {
		t.Fatalf("Err = %v", res.Err)
	}
	want := []OutcomeKind{OutcomeError, OutcomeError, OutcomeSkipped}
	if got := kinds(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("outcomes = %v, want %v", got, want)
	}
	if res.Outcomes[0].Text != failure.Error() {
		t.Fatalf("message = %q", res.Outcomes[0].Text)
	}
	if b.Entries[0].MsgStr != "[ERROR: context deadline exceeded]" {
		t.Fatalf("placeholder = %q", b.Entries[0].MsgStr)
	}
	if b.Entries[2].MsgStr != "kept" {
		t.Fatalf("existing translation touched: %q", b.Entries[2].MsgStr)
	}
}

func TestReconcilePluralEntry(t *testing.T) {
	b := Batch{Entries: []*po.Entry{{MsgID: "%d file", MsgIDPlural: "%d files"}}}
	Reconcile(context.Background(), b, Target{Lang: "ru", Plurals: 3}, "m", &scripted{replies: []any{"1. %d файлов"}})
	if len(b.Entries[0].MsgStrPlural) != 3 || !b.Entries[0].IsTranslated() {
		t.Fatalf("plural forms = %v", b.Entries[0].MsgStrPlural)
	}
}

// ---------------------------------------------------------------------------
// runs
// ---------------------------------------------------------------------------

func openerFor(cats map[string]*fakeCatalog) Opener {
	return func(path string) (Catalog, error) {
		c, ok := cats[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		return c, nil
	}
}

func TestRunScenarioAllTranslated(t *testing.T) {
	cat := &fakeCatalog{name: "app/fr/app.po", lang: "fr", entries: entries("Hello", "Goodbye", "Yes")}
	tr := &scripted{replies: []any{"1. Bonjour\n2. Au revoir", "1. Oui"}}

	var events []EventKind
	summary, err := Run(context.Background(), []string{"fr"}, openerFor(map[string]*fakeCatalog{"fr": cat}), Options{
		Translator: tr,
		Model:      "gpt-4o-mini",
		BatchSize:  2,
		OnEvent:    func(ev Event) { events = append(events, ev.Kind) },
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got := []string{cat.entries[0].MsgStr, cat.entries[1].MsgStr, cat.entries[2].MsgStr}
	if !reflect.DeepEqual(got, []string{"Bonjour", "Au revoir", "Oui"}) {
		t.Fatalf("translations = %q", got)
	}
	if len(summary.Files) != 1 {
		t.Fatalf("files = %d", len(summary.Files))
	}
	fs := summary.Files[0]
	if fs.Counts != (Counts{Translated: 3}) || !fs.Saved || fs.File != "app/fr/app.po" {
		t.Fatalf("stats = %+v", fs)
	}
	if cat.saves != 1 {
		t.Fatalf("saves = %d, want 1", cat.saves)
	}
	if summary.Requests != 2 {
		t.Fatalf("requests = %d, want 2", summary.Requests)
	}
	if !strings.HasSuffix(tr.prompts[1], "\n\n1. Yes") {
		t.Fatalf("second batch renumbered wrong:\n%s", tr.prompts[1])
	}
	wantEvents := []EventKind{EventFileStarted, EventBatchDone, EventBatchDone, EventFileSaved}
	if !reflect.DeepEqual(events, wantEvents) {
		t.Fatalf("events = %v, want %v", events, wantEvents)
	}
}

func TestRunScenarioFirstBatchTimesOut(t *testing.T) {
	cat := &fakeCatalog{name: "fr.po", lang: "fr", entries: entries("Hello", "Goodbye", "Yes")}
	tr := &scripted{replies: []any{errors.New("request timed out"), "1. Oui"}}

	var failed Event
	summary, err := Run(context.Background(), []string{"fr"}, openerFor(map[string]*fakeCatalog{"fr": cat}), Options{
		Translator: tr,
		BatchSize:  2,
		OnEvent: func(ev Event) {
			if ev.Kind == EventBatchFailed {
				failed = ev
			}
		},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if cat.entries[0].MsgStr != "[ERROR: request timed out]" || cat.entries[1].MsgStr != "[ERROR: request timed out]" {
		t.Fatalf("placeholders = %q, %q", cat.entries[0].MsgStr, cat.entries[1].MsgStr)
	}
	if cat.entries[2].MsgStr != "Oui" {
		t.Fatalf("second batch = %q", cat.entries[2].MsgStr)
	}
	if summary.Requests != 2 {
		t.Fatalf("requests = %d, want 2", summary.Requests)
	}
	if got := summary.Files[0].Counts; got != (Counts{Translated: 1, Errors: 2}) {
		t.Fatalf("counts = %+v", got)
	}
	if failed.First != 1 || failed.Last != 2 || failed.Err == nil {
		t.Fatalf("failed event = %+v", failed)
	}
}

func TestRunLeavesUnchangedCatalogAlone(t *testing.T) {
	done := &fakeCatalog{name: "done.po", lang: "de", entries: entries("a")}
	done.entries[0].MsgStr = "A"
	junk := &fakeCatalog{name: "junk.po", lang: "de", entries: entries("b", "c")}

	tr := &scripted{replies: []any{"no numbering here"}}
	summary, err := Run(context.Background(), []string{"done", "junk"}, openerFor(map[string]*fakeCatalog{"done": done, "junk": junk}), Options{
		Translator: tr,
		BatchSize:  10,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if done.saves != 0 || junk.saves != 0 {
		t.Fatalf("saves = %d, %d, want none", done.saves, junk.saves)
	}
	if summary.Requests != 1 {
		t.Fatalf("requests = %d, want 1", summary.Requests)
	}
	if got := summary.Files[1].Counts; got != (Counts{Skipped: 2}) {
		t.Fatalf("junk counts = %+v", got)
	}
	if got := summary.Files[0]; got.Planned != 0 || got.Counts != (Counts{}) {
		t.Fatalf("done stats = %+v", got)
	}
}

func TestRunIsolatesFileFailures(t *testing.T) {
	broken := &fakeCatalog{name: "broken.po", lang: "fr", entries: entries("a"), saveErr: errors.New("disk full")}
	good := &fakeCatalog{name: "good.po", lang: "de", entries: entries("b")}
	tr := &scripted{replies: []any{"1. A", "1. B"}}

	summary, err := Run(context.Background(), []string{"missing", "broken", "good"},
		openerFor(map[string]*fakeCatalog{"broken": broken, "good": good}),
		Options{Translator: tr, BatchSize: 1})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(summary.Files) != 3 {
		t.Fatalf("files = %d, want 3", len(summary.Files))
	}
	if summary.Files[0].Err == nil || !strings.Contains(summary.Files[0].Err.Error(), "loading missing") {
		t.Fatalf("missing file error = %v", summary.Files[0].Err)
	}
	if summary.Files[1].Err == nil || summary.Files[1].Saved {
		t.Fatalf("broken stats = %+v", summary.Files[1])
	}
	if !summary.Files[2].Saved || good.entries[0].MsgStr != "B" {
		t.Fatalf("good stats = %+v", summary.Files[2])
	}
	if len(summary.Failed()) != 2 {
		t.Fatalf("Failed() = %d, want 2", len(summary.Failed()))
	}
	if got := summary.Totals(); got != (Counts{Translated: 2}) {
		t.Fatalf("Totals() = %+v", got)
	}
}

func TestRunStopsAtBatchBoundary(t *testing.T) {
	cat := &fakeCatalog{name: "fr.po", lang: "fr", entries: entries("a", "b", "c")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	tr := TranslatorFunc(func(ctx context.Context, _, _ string) (string, error) {
		calls++
		cancel()
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "1. A", nil
	})

	summary, err := Run(ctx, []string{"fr"}, openerFor(map[string]*fakeCatalog{"fr": cat}), Options{Translator: tr, BatchSize: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if cat.entries[0].MsgStr != "A" {
		t.Fatalf("in-flight batch was cut short: %q", cat.entries[0].MsgStr)
	}
	fs := summary.Files[0]
	if fs.Counts != (Counts{Translated: 1, Skipped: 2}) || cat.saves != 1 {
		t.Fatalf("stats = %+v, saves = %d", fs, cat.saves)
	}
}

func TestRunValidatesBeforeOpening(t *testing.T) {
	opened := false
	open := func(string) (Catalog, error) {
		opened = true
		return nil, errors.New("unreachable")
	}

	_, err := Run(context.Background(), []string{"x"}, open, Options{Translator: &scripted{}, BatchSize: 0})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || opened {
		t.Fatalf("err = %v, opened = %v", err, opened)
	}

	_, err = Run(context.Background(), []string{"x"}, open, Options{BatchSize: 1})
	if !errors.As(err, &cfgErr) || cfgErr.Field != "translator" || opened {
		t.Fatalf("missing translator: err = %v, opened = %v", err, opened)
	}
}

func TestTranslateCatalogCountsRequests(t *testing.T) {
	cat := &fakeCatalog{name: "x.po", lang: "fr", entries: entries("a", "b", "c")}
	summary := &RunSummary{Requests: 4}
	opts := Options{
		Translator: &scripted{replies: []any{"1. A", "1. B", "1. C"}},
		BatchSize:  1,
	}
	fs := translateCatalog(context.Background(), cat, &opts, summary)
	if summary.Requests != 7 || fs.Translated != 3 || !fs.Saved {
		t.Fatalf("requests = %d, stats = %+v", summary.Requests, fs)
	}
}

func TestTranslateCatalogBadBatchSize(t *testing.T) {
	cat := &fakeCatalog{name: "x.po", lang: "fr", entries: entries("a")}
	var got []EventKind
	opts := Options{
		Translator: &scripted{},
		BatchSize:  0,
		OnEvent:    func(ev Event) { got = append(got, ev.Kind) },
	}
	fs := translateCatalog(context.Background(), cat, &opts, &RunSummary{})

	var cfgErr *ConfigurationError
	if !errors.As(fs.Err, &cfgErr) {
		t.Fatalf("Err = %v, want ConfigurationError", fs.Err)
	}
	if cat.saves != 0 || !reflect.DeepEqual(got, []EventKind{EventFileFailed}) {
		t.Fatalf("saves = %d, events = %v", cat.saves, got)
	}
}

func TestRunWaitsAfterEveryBatch(t *testing.T) {
	const delay = 30 * time.Millisecond
	cat := &fakeCatalog{name: "fr.po", lang: "fr", entries: entries("a", "b", "c")}
	tr := &scripted{replies: []any{errors.New("boom"), "1. B", "no numbered line"}}

	start := time.Now()
	summary, err := Run(context.Background(), []string{"fr"}, openerFor(map[string]*fakeCatalog{"fr": cat}), Options{
		Translator:   tr,
		BatchSize:    1,
		RequestDelay: delay,
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Requests != 3 {
		t.Fatalf("requests = %d, want 3", summary.Requests)
	}
	if got := summary.Files[0].Counts; got != (Counts{Translated: 1, Errors: 1, Skipped: 1}) {
		t.Fatalf("counts = %+v", got)
	}
	// One pause after the failed, the successful and the unparsed batch.
	if elapsed < 3*delay {
		t.Fatalf("elapsed %v, want at least %v", elapsed, 3*delay)
	}
}

func TestRunCancelInterruptsDelay(t *testing.T) {
	cat := &fakeCatalog{name: "fr.po", lang: "fr", entries: entries("a", "b")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr := TranslatorFunc(func(context.Context, string, string) (string, error) {
		cancel()
		return "1. A", nil
	})

	start := time.Now()
	summary, err := Run(ctx, []string{"fr"}, openerFor(map[string]*fakeCatalog{"fr": cat}), Options{
		Translator:   tr,
		BatchSize:    1,
		RequestDelay: time.Minute,
	})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancelled run still waited %v", elapsed)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if summary.Requests != 1 || cat.saves != 1 {
		t.Fatalf("requests = %d, saves = %d", summary.Requests, cat.saves)
	}
}

func TestPause(t *testing.T) {
	start := time.Now()
	pause(context.Background(), 0)
	pause(context.Background(), -time.Second)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("non-positive delay waited %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	pause(ctx, time.Minute)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancelled pause waited %v", elapsed)
	}

	start = time.Now()
	pause(context.Background(), 20*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("pause returned after %v, want at least 20ms", elapsed)
	}
}
