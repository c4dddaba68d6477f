package college

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// trailingParenRegex matches one or more parenthetical suffixes at the end
// of a name, e.g. "Purdue University (Fort Wayne) (Online)" -> "Purdue
// University". Consuming the whole run in one match keeps AggressiveKey
// idempotent: stripping only the last parenthetical would leave a key that
// re-normalizes to a different key.
var trailingParenRegex = regexp.MustCompile(`(?:\s*\([^)]*\))+\s*$`)

// ExactKey returns the exact lookup key for a name: NFC-normalized,
// trimmed and lowercased. Imported spreadsheets carry mixed Unicode
// composition forms, so both index and query sides go through NFC.
func ExactKey(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// AggressiveKey returns the aggressively normalized lookup key for a name.
// Starting from ExactKey it:
//   - strips trailing parenthetical suffixes
//   - replaces "@" with " at " (before filler removal, so "@" and a literal
//     "at" normalize identically and the function stays idempotent)
//   - removes periods
//   - drops the filler tokens "in", "at", "and" and the phrase "of the"
//   - expands the abbreviation token "co" to "community college"
//   - collapses repeated whitespace and trims
//
// Only whole tokens are touched: "Flint" keeps its "in", "Coe" keeps its "co".
// AggressiveKey is pure, deterministic and idempotent.
func AggressiveKey(s string) string {
	key := ExactKey(s)
	key = trailingParenRegex.ReplaceAllString(key, "")
	key = strings.ReplaceAll(key, "@", " at ")
	key = strings.ReplaceAll(key, ".", "")

	words := strings.Fields(key)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		switch words[i] {
		case "in", "at", "and":
			continue
		case "of":
			if i+1 < len(words) && words[i+1] == "the" {
				i++
				continue
			}
			out = append(out, "of")
		case "co":
			out = append(out, "community", "college")
		default:
			out = append(out, words[i])
		}
	}
	return strings.Join(out, " ")
}

// SplitAliases splits a raw alias field on "," ";" or "|" and returns the
// trimmed non-empty parts. Placeholder values like "-" or "n/a" are dropped.
func SplitAliases(aliasField string) []string {
	if strings.TrimSpace(aliasField) == "" {
		return nil
	}
	parts := strings.FieldsFunc(aliasField, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || isAliasPlaceholder(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isAliasPlaceholder reports whether an alias value is a non-name filler
// that sometimes appears in the source dataset's alias column.
func isAliasPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "-", "--", "n/a", "na", "none", "null":
		return true
	}
	return false
}
