// Package catalog locates PO catalogs laid out as <root>/<category>/<lang>/*.po
// and adapts them to the translate engine.
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	po "github.com/minios-linux/poai/pofile"
	"github.com/minios-linux/poai/translate"
)

// Catalog is a PO file loaded from under a run root.
type Catalog struct {
	root string
	path string
	name string
	lang string
	file *po.File
}

// Load parses the catalog at path. A relative path is taken relative to root.
func Load(root, path string) (*Catalog, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	file, err := po.ParseFile(path)
	if err != nil {
		return nil, err
	}

	name := path
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		name = filepath.ToSlash(rel)
	}

	lang := filepath.Base(filepath.Dir(path))
	if !isLanguage(lang) {
		if header := file.HeaderField("Language"); header != "" {
			lang = header
		}
	}
	return &Catalog{root: root, path: path, name: name, lang: lang, file: file}, nil
}

// Opener returns a translate.Opener loading catalogs relative to root.
func Opener(root string) translate.Opener {
	return func(path string) (translate.Catalog, error) {
		c, err := Load(root, path)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Name is the catalog path relative to the run root, with forward slashes.
func (c *Catalog) Name() string { return c.name }

// Path is the file system path the catalog was loaded from.
func (c *Catalog) Path() string { return c.path }

// Language is the name of the directory holding the catalog, or the header's
// Language field when that directory is not a language code.
func (c *Catalog) Language() string { return c.lang }

// File exposes the parsed catalog.
func (c *Catalog) File() *po.File { return c.file }

// Entries returns the catalog entries, header excluded.
func (c *Catalog) Entries() []*po.Entry { return c.file.Entries }

// Plurals returns nplurals from the Plural-Forms header, falling back to the
// usual count for the catalog's language.
func (c *Catalog) Plurals() int {
	if n := c.file.PluralCount(); n > 0 {
		return n
	}
	return po.PluralFormsForLang(c.lang)
}

// Save writes the catalog back under the same name.
func (c *Catalog) Save() error {
	if err := c.file.WriteFile(c.path); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}
