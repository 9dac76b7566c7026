// Package pofile reads and writes gettext PO catalogs.
//
// Writing never wraps long strings and never rewrites header fields, so a
// catalog that was parsed and written without changes produces the same bytes
// on every subsequent save.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Entry is a single message in a PO catalog.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines.
	References []string
	// Flags are the comma separated "#," values.
	Flags []string
	// PreviousMsgID is the "#| msgid" value of fuzzy entries.
	PreviousMsgID string

	MsgCtxt      string
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural map[int]string

	// Obsolete marks "#~" entries.
	Obsolete bool
}

// IsTranslated reports whether the entry counts as translated by gettext
// rules: it has a msgid, is not fuzzy or obsolete, and every form is filled.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" || e.Obsolete || e.IsFuzzy() {
		return false
	}
	if e.MsgIDPlural != "" {
		if len(e.MsgStrPlural) == 0 {
			return false
		}
		for _, v := range e.MsgStrPlural {
			if v == "" {
				return false
			}
		}
		return true
	}
	return e.MsgStr != ""
}

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag reports whether flag is present on the entry.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Target returns the entry's translation. For plural entries the forms are
// joined with newlines in index order, so an entry with any non-blank form
// has a non-blank target.
func (e *Entry) Target() string {
	if e.MsgIDPlural == "" {
		return e.MsgStr
	}
	idx := e.pluralIndices()
	forms := make([]string, 0, len(idx))
	for _, i := range idx {
		if v := e.MsgStrPlural[i]; v != "" {
			forms = append(forms, v)
		}
	}
	return strings.Join(forms, "\n")
}

// SetTarget stores a translation. Plural entries receive the same text in
// forms 0..nplurals-1.
func (e *Entry) SetTarget(text string, nplurals int) {
	if e.MsgIDPlural == "" {
		e.MsgStr = text
		return
	}
	if e.MsgStrPlural == nil {
		e.MsgStrPlural = make(map[int]string)
	}
	if nplurals < 1 {
		nplurals = 2
	}
	for i := 0; i < nplurals; i++ {
		e.MsgStrPlural[i] = text
	}
}

func (e *Entry) pluralIndices() []int {
	idx := make([]int, 0, len(e.MsgStrPlural))
	for i := range e.MsgStrPlural {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// File is a parsed PO or POT catalog.
type File struct {
	// Header is the msgid "" entry, nil when the catalog has none.
	Header *Entry
	// Entries holds every other entry in file order, obsolete ones included.
	Entries []*Entry
}

// HeaderField returns the value of a header field, matched case-insensitively.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// PluralCount returns nplurals from the Plural-Forms header, or 0 when the
// header is missing or malformed.
func (f *File) PluralCount() int {
	forms := f.HeaderField("Plural-Forms")
	for _, part := range strings.Split(forms, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || strings.TrimSpace(key) != "nplurals" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Stats counts live entries by state.
func (f *File) Stats() (total, translated, fuzzy, untranslated int) {
	for _, e := range f.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		total++
		switch {
		case e.IsFuzzy():
			fuzzy++
		case e.IsTranslated():
			translated++
		default:
			untranslated++
		}
	}
	return
}

// ---------------------------------------------------------------------------
// Reading
// ---------------------------------------------------------------------------

// field identifies which string a continuation line appends to.
type field int

const (
	fieldNone field = iota
	fieldCtxt
	fieldID
	fieldIDPlural
	fieldStr
	fieldStrPlural
)

type parser struct {
	file    *File
	cur     *Entry
	last    field
	plural  int
	lineNum int
}

func (p *parser) entry() *Entry {
	if p.cur == nil {
		p.cur = &Entry{MsgStrPlural: make(map[int]string)}
	}
	return p.cur
}

func (p *parser) flush() {
	if p.cur == nil {
		return
	}
	if p.cur.MsgID == "" && !p.cur.Obsolete && p.file.Header == nil {
		p.file.Header = p.cur
	} else {
		p.file.Entries = append(p.file.Entries, p.cur)
	}
	p.cur = nil
	p.last = fieldNone
}

func (p *parser) comment(line string) {
	e := p.entry()
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		prev := strings.TrimSpace(line[2:])
		if rest, ok := strings.CutPrefix(prev, "msgid "); ok {
			e.PreviousMsgID = unquote(rest)
		}
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

func (p *parser) keyword(line string) error {
	e := p.entry()
	switch {
	case strings.HasPrefix(line, "msgctxt "):
		e.MsgCtxt, p.last = unquote(line[len("msgctxt "):]), fieldCtxt
	case strings.HasPrefix(line, "msgid_plural "):
		e.MsgIDPlural, p.last = unquote(line[len("msgid_plural "):]), fieldIDPlural
	case strings.HasPrefix(line, "msgid "):
		e.MsgID, p.last = unquote(line[len("msgid "):]), fieldID
	case strings.HasPrefix(line, "msgstr["):
		end := strings.Index(line, "]")
		if end < 0 {
			return fmt.Errorf("line %d: invalid msgstr index: %s", p.lineNum, line)
		}
		idx, err := strconv.Atoi(line[len("msgstr["):end])
		if err != nil {
			return fmt.Errorf("line %d: invalid msgstr index: %s", p.lineNum, line)
		}
		e.MsgStrPlural[idx] = unquote(line[end+1:])
		p.last, p.plural = fieldStrPlural, idx
	case strings.HasPrefix(line, "msgstr "):
		e.MsgStr, p.last = unquote(line[len("msgstr "):]), fieldStr
	case strings.HasPrefix(line, `"`):
		p.continuation(unquote(line))
	}
	return nil
}

func (p *parser) continuation(val string) {
	e := p.entry()
	switch p.last {
	case fieldCtxt:
		e.MsgCtxt += val
	case fieldID:
		e.MsgID += val
	case fieldIDPlural:
		e.MsgIDPlural += val
	case fieldStr:
		e.MsgStr += val
	case fieldStrPlural:
		e.MsgStrPlural[p.plural] += val
	}
}

// Parse reads a PO catalog.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: &File{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		p.lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			p.flush()
			continue
		}
		if rest, ok := strings.CutPrefix(line, "#~"); ok {
			p.entry().Obsolete = true
			line = strings.TrimPrefix(rest, " ")
			if strings.HasPrefix(line, "#") {
				p.comment(line)
				continue
			}
		} else if strings.HasPrefix(line, "#") {
			p.comment(line)
			continue
		}
		if err := p.keyword(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	p.flush()
	return p.file, nil
}

// ParseFile reads a PO catalog from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Write serialises the catalog.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	emit := func(e *Entry) {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		writeEntry(bw, e)
	}
	if f.Header != nil {
		emit(f.Header)
	}
	for _, e := range f.Entries {
		emit(e)
	}
	return bw.Flush()
}

// WriteFile writes the catalog to path, replacing the file atomically.
func (f *File) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".po-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	} else {
		_ = os.Chmod(tmp.Name(), 0644)
	}
	return os.Rename(tmp.Name(), path)
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	for _, c := range e.TranslatorComments {
		if c == "" {
			w.WriteString("#\n")
			continue
		}
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}
	if e.MsgCtxt != "" {
		writeField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix+"msgid", e.MsgID)
	if e.MsgIDPlural != "" {
		writeField(w, prefix+"msgid_plural", e.MsgIDPlural)
		if len(e.MsgStrPlural) > 0 {
			for _, i := range e.pluralIndices() {
				writeField(w, fmt.Sprintf("%smsgstr[%d]", prefix, i), e.MsgStrPlural[i])
			}
			return
		}
	}
	writeField(w, prefix+"msgstr", e.MsgStr)
}

// writeField writes a keyword and its string. Multi-line values start with an
// empty string and continue with one quoted line per source line.
func writeField(w *bufio.Writer, keyword, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", keyword, quote(value))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", keyword)
	parts := strings.SplitAfter(value, "\n")
	for _, part := range parts {
		if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// PluralFormsForLang returns the usual nplurals for a language code, used
// when a catalog has no Plural-Forms header.
func PluralFormsForLang(lang string) int {
	base := lang
	if i := strings.IndexAny(lang, "_-@"); i > 0 {
		base = lang[:i]
	}
	switch strings.ToLower(base) {
	case "ja", "ko", "zh", "vi", "th", "id", "ms":
		return 1
	case "ru", "uk", "be", "hr", "sr", "bs", "pl", "cs", "sk", "ro", "lt", "lv":
		return 3
	case "ar":
		return 6
	default:
		return 2
	}
}
