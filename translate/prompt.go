package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultSourceLang is assumed when a run does not name its source language.
const DefaultSourceLang = "en"

// LanguageName returns the English name of a language code such as "fr" or
// "pt_BR". Codes that cannot be resolved are returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// describeLanguage renders "French (fr)", or just the code when it has no
// known name.
func describeLanguage(code string) string {
	name := LanguageName(code)
	if name == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

// BuildPrompt renders the request for one batch. Each source text is placed
// on its own line as "<n>. <text>", numbered from 1 within the batch, and the
// reply is expected in the same shape.
func BuildPrompt(b Batch, target Target) string {
	source := target.SourceLang
	if source == "" {
		source = DefaultSourceLang
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Translate ONLY the following %s phrases to %s.\n", LanguageName(source), describeLanguage(target.Lang))
	sb.WriteString("Respond with EXACTLY one numbered translation per line, without any introduction, notes, or comments.\n")
	sb.WriteString("Keep the order. Start each line with its number and a dot, like '1. ...'\n\n")
	for i, e := range b.Entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, e.MsgID)
	}
	return sb.String()
}
