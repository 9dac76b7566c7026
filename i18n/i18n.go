// Package i18n translates poai's own messages.
//
// Catalogs are embedded from locales/<lang>/LC_MESSAGES/poai.po and parsed
// with gotext. Lookups return the msgid itself when no catalog or no
// translation exists, so callers can always pass the result on as a format.
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/leonelquinteros/gotext/plurals"
)

//go:embed all:locales
var locales embed.FS

const domain = "poai"

// messages is one loaded catalog.
type messages struct {
	lang   string
	byID   map[string]*gotext.Translation
	plural plurals.Expression
}

// active is the catalog selected by Init; nil means no translation.
var active *messages

// Init selects the catalog for lang. An empty lang is taken from the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG). "ru_RU" falls back to
// "ru"; a language without a catalog leaves messages untranslated.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	active = nil
	for _, candidate := range candidates(lang) {
		if m, err := load(locales, candidate); err == nil {
			active = m
			return
		}
	}
}

// Language reports the catalog in use, or "" when messages are untranslated.
func Language() string {
	if active == nil {
		return ""
	}
	return active.lang
}

// T returns the translation of msgid.
func T(msgid string) string {
	if active != nil {
		if tr, ok := active.byID[msgid]; ok {
			return tr.Get()
		}
	}
	return msgid
}

// N returns the plural form of singular/plural matching n.
func N(singular, plural string, n int) string {
	if active != nil {
		if tr, ok := active.byID[singular]; ok {
			return tr.GetN(active.form(n))
		}
	}
	if n == 1 {
		return singular
	}
	return plural
}

func (m *messages) form(n int) int {
	if m.plural == nil {
		if n == 1 {
			return 0
		}
		return 1
	}
	return m.plural.Eval(uint32(max(n, 0)))
}

func load(fsys fs.FS, lang string) (*messages, error) {
	data, err := fs.ReadFile(fsys, path.Join("locales", lang, "LC_MESSAGES", domain+".po"))
	if err != nil {
		return nil, err
	}
	po := gotext.NewPo()
	po.Parse(data)
	dom := po.GetDomain()

	m := &messages{lang: lang, byID: dom.GetTranslations()}
	for _, field := range strings.Split(dom.PluralForms, ";") {
		key, expr, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(key) != "plural" {
			continue
		}
		if compiled, err := plurals.Compile(strings.TrimSpace(expr)); err == nil {
			m.plural = compiled
		}
	}
	return m, nil
}

// candidates lists the catalog names to try for a locale, most specific
// first: "pt_BR.UTF-8@euro" gives "pt_BR", "pt".
func candidates(lang string) []string {
	lang, _, _ = strings.Cut(lang, "@")
	lang, _, _ = strings.Cut(lang, ".")
	lang = strings.ReplaceAll(lang, "-", "_")
	if lang == "" {
		return nil
	}
	out := []string{lang}
	if base, _, ok := strings.Cut(lang, "_"); ok && base != "" {
		out = append(out, base)
	}
	return out
}

// detectLanguage follows gettext's variable precedence. LANGUAGE may hold a
// colon-separated list; its first element wins. C and POSIX mean no
// translation.
func detectLanguage() string {
	for _, name := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val, _, _ := strings.Cut(os.Getenv(name), ":")
		val, _, _ = strings.Cut(val, ".")
		switch val {
		case "", "C", "POSIX":
			continue
		}
		return val
	}
	return "en"
}
