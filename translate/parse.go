package translate

import (
	"strings"
	"unicode"
)

// ParseResponse extracts at most limit translation lines from a model reply.
//
// Lines whose text before the first '.' is all digits are translation lines.
// When the reply has none, lines containing ". " are used instead. Line
// numbers are only used for recognition: the result keeps reply order and is
// paired with the batch by position.
func ParseResponse(raw string, limit int) []string {
	lines := splitLines(raw)

	var numbered []string
	for _, line := range lines {
		if isNumbered(line) {
			numbered = append(numbered, line)
		}
	}
	if len(numbered) > 0 {
		return head(numbered, limit)
	}

	var separated []string
	for _, line := range lines {
		if strings.Contains(line, ". ") {
			separated = append(separated, line)
		}
	}
	return head(separated, limit)
}

// TranslationText returns what follows the first ". " in a reply line, or
// the whole line when there is no separator, trimmed.
func TranslationText(line string) string {
	if _, after, ok := strings.Cut(line, ". "); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(line)
}

func isNumbered(line string) bool {
	prefix, _, _ := strings.Cut(strings.TrimSpace(line), ".")
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func splitLines(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}

func head(lines []string, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(lines) > limit {
		return lines[:limit]
	}
	return lines
}
