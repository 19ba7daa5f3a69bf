// Package textnorm cleans text fragments pulled out of encyclopedia markup.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// [1], [a], [note], [12b]
	citationMarker = regexp.MustCompile(`\[(?:\d+|[A-Za-z]+|\d+[A-Za-z]+)\]`)
	// Non-nested only: "(a (b) c)" loses "(a (b)" and keeps " c)".
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	bracketed     = regexp.MustCompile(`\[[^\]]*\]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	markupTag     = regexp.MustCompile(`<[^>]*>`)

	decorativeGlyphs = strings.NewReplacer("†", "", "‡", "", "*", "")
)

// Clean applies the normalization rules in a fixed order. Later rules rely on
// earlier ones, so the order must not change. Empty input yields "".
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	s := citationMarker.ReplaceAllString(raw, "")
	s = parenthetical.ReplaceAllString(s, "")
	s = bracketed.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = norm.NFKC.String(s)
	s = markupTag.ReplaceAllString(s, "")
	s = decorativeGlyphs.Replace(s)
	return strings.TrimSpace(s)
}
