package catalog

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Categories lists the directories under root that hold at least one
// subdirectory, sorted. Hidden directories are ignored.
func Categories(root string) ([]string, error) {
	dirs, err := subdirs(root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, d := range dirs {
		langs, err := subdirs(filepath.Join(root, d))
		if err != nil {
			return nil, err
		}
		if len(langs) > 0 {
			out = append(out, d)
		}
	}
	return out, nil
}

// Languages lists the language directories of a category, sorted.
func Languages(root, category string) ([]string, error) {
	return subdirs(filepath.Join(root, category))
}

// Files lists every <category>/<lang>/*.po path relative to root, sorted.
func Files(root, category string) ([]string, error) {
	return LanguageFiles(root, category, "")
}

// LanguageFiles is Files without the catalogs of the except language, which
// is matched case-insensitively and regardless of '-' or '_' separators.
// Pass the source language to get every catalog that needs translating.
func LanguageFiles(root, category, except string) ([]string, error) {
	langs, err := Languages(root, category)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, lang := range langs {
		if except != "" && SameLanguage(lang, except) {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(root, category, lang, "*.po"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			rel, err := filepath.Rel(root, m)
			if err != nil {
				return nil, err
			}
			out = append(out, filepath.ToSlash(rel))
		}
	}
	sort.Strings(out)
	return out, nil
}

// SameLanguage reports whether two directory names denote the same language
// code, e.g. "pt_BR" and "pt-br".
func SameLanguage(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	ta, errA := parseLanguage(a)
	tb, errB := parseLanguage(b)
	return errA == nil && errB == nil && ta == tb
}

func parseLanguage(code string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(code, "_", "-"))
}

func isLanguage(code string) bool {
	_, err := parseLanguage(code)
	return err == nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Info describes a catalog file on disk.
type Info struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Describe stats the file at path.
func Describe(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Name: filepath.Base(path), Size: st.Size(), ModTime: st.ModTime()}, nil
}

// SizeKB returns the size in kilobytes rounded to one decimal.
func (i Info) SizeKB() float64 {
	return math.Round(float64(i.Size)/1024*10) / 10
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%.1f KB, modified %s)", i.Name, i.SizeKB(), i.ModTime.Format("2006-01-02 15:04"))
}
