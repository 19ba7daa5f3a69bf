// Package redact hides every surface form of a subject's name in the
// free-text fields of a career record.
package redact

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperifyio/careerquiz/internal/model"
)

// Block is the glyph a redacted rune is replaced with.
const Block = '█'

// wordToken matches a word: letters, digits, marks and already redacted
// glyphs, joined across internal hyphens, dashes, apostrophes, dots and
// slashes.
var wordToken = regexp.MustCompile(`^[\p{L}\p{N}\p{M}█]+(?:[-–—'’./][\p{L}\p{N}\p{M}█]+)*`)

// attaching punctuation suppresses the space on its side when reassembling.
const attaching = ".,:;!?"

// Variants returns the surface forms of name that must be hidden: the name
// and each part longer than one rune, and for multi-part names the
// first+last form, the initial-dot-last form and the bare first and last
// parts. Every form is present as written and in lowercase.
func Variants(name string) map[string]struct{} {
	out := make(map[string]struct{})
	name = strings.TrimSpace(name)
	if name == "" {
		return out
	}
	add := func(v string) {
		out[v] = struct{}{}
		out[strings.ToLower(v)] = struct{}{}
	}
	add(name)
	parts := strings.Fields(name)
	for _, p := range parts {
		if utf8.RuneCountInString(p) > 1 {
			add(p)
		}
	}
	if len(parts) >= 2 {
		first, last := parts[0], parts[len(parts)-1]
		initial, _ := utf8.DecodeRuneInString(first)
		add(first + " " + last)
		add(string(initial) + ". " + last)
		add(first)
		add(last)
	}
	return out
}

// Union merges variant sets.
func Union(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for v := range s {
			out[v] = struct{}{}
		}
	}
	return out
}

// Tokenize splits text into word tokens and single-rune punctuation tokens.
// Whitespace separates tokens and is dropped. A trailing possessive 's is
// split off its word.
func Tokenize(text string) []string {
	var tokens []string
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		if loc := wordToken.FindStringIndex(text[i:]); loc != nil {
			word := text[i : i+loc[1]]
			tokens = append(tokens, splitPossessive(word)...)
			i += loc[1]
			continue
		}
		tokens = append(tokens, text[i:i+size])
		i += size
	}
	return tokens
}

func splitPossessive(word string) []string {
	lower := strings.ToLower(word)
	for _, suffix := range []string{"'s", "’s"} {
		if strings.HasSuffix(lower, suffix) && len(word) > len(suffix) {
			cut := len(word) - len(suffix)
			return []string{word[:cut], word[cut:]}
		}
	}
	return []string{word}
}

type variant struct {
	text   string
	tokens []string
}

// prepare tokenizes variants and orders them longest token run first.
func prepare(variants map[string]struct{}) []variant {
	out := make([]variant, 0, len(variants))
	for v := range variants {
		toks := Tokenize(v)
		if len(toks) == 0 {
			continue
		}
		out = append(out, variant{text: v, tokens: toks})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].tokens) != len(out[j].tokens) {
			return len(out[i].tokens) > len(out[j].tokens)
		}
		return out[i].text < out[j].text
	})
	return out
}

// Obscure replaces every token run of text that case-insensitively equals a
// variant with block glyphs, one per rune of each matched word. Punctuation
// inside a matched run joins the preceding word's run, so "J. Doe" becomes
// two runs.
// Multi-token variants are tried before single tokens. Text without any match is
// returned unchanged.
func Obscure(text string, variants map[string]struct{}) string {
	if text == "" || len(variants) == 0 {
		return text
	}
	vs := prepare(variants)
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	matched := false

	for i := 0; i < len(tokens); {
		if n := matchRun(tokens[i:], vs); n > 0 {
			for k, tok := range tokens[i : i+n] {
				if k > 0 && !isWord(tok) {
					// A dot after an initial belongs to that word's run.
					out[len(out)-1] += blocks(tok)
					continue
				}
				out = append(out, blocks(tok))
			}
			i += n
			matched = true
			continue
		}
		tok := tokens[i]
		if matchSingle(tok, vs) {
			out = append(out, blocks(tok))
			matched = true
		} else {
			out = append(out, tok)
		}
		i++
	}
	if !matched {
		return text
	}
	return join(out)
}

// matchRun returns the length of the longest multi-token variant matching
// the start of tokens, or zero.
func matchRun(tokens []string, vs []variant) int {
	for _, v := range vs {
		n := len(v.tokens)
		if n < 2 || n > len(tokens) {
			continue
		}
		ok := true
		for k, vt := range v.tokens {
			if !strings.EqualFold(tokens[k], vt) {
				ok = false
				break
			}
		}
		if ok {
			return n
		}
	}
	return 0
}

func matchSingle(tok string, vs []variant) bool {
	for _, v := range vs {
		if strings.EqualFold(tok, v.text) {
			return true
		}
	}
	return false
}

func isWord(tok string) bool {
	return wordToken.MatchString(tok)
}

func blocks(tok string) string {
	return strings.Repeat(string(Block), utf8.RuneCountInString(tok))
}

func join(tokens []string) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			prev := tokens[i-1]
			if !endsWithAny(prev, attaching) && !startsWithAny(tok, attaching) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok)
	}
	return b.String()
}

func endsWithAny(s, set string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r != utf8.RuneError && strings.ContainsRune(set, r)
}

func startsWithAny(s, set string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && strings.ContainsRune(set, r)
}

// Redact returns a copy of rec with the subject's name hidden. Variants of
// queryName and of the record's own full name are both applied. Only the
// full name and honours are prose; club and team names, position, dates,
// height and image URL are left byte-identical.
func Redact(rec model.CareerRecord, queryName string) model.CareerRecord {
	out := rec.Clone()
	variants := Union(Variants(queryName), Variants(rec.FullName))
	if len(variants) == 0 {
		return out
	}
	out.FullName = Obscure(out.FullName, variants)
	for i, h := range out.Honours {
		out.Honours[i] = Obscure(h, variants)
	}
	return out
}
