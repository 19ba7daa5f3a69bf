// Package rank orders search candidates by how strongly their title and
// snippet suggest a footballer biography.
package rank

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hyperifyio/careerquiz/internal/search"
	"github.com/hyperifyio/careerquiz/internal/vocab"
)

var (
	statsLanguage  = regexp.MustCompile(`(?i)\b(?:caps|goals|appearances|matches|scored)\b`)
	careerLanguage = regexp.MustCompile(`(?i)\b(?:career|season|signed|transfer|club|team)\b`)
)

// Score rates a candidate. Title disambiguator +50, a domain term in the
// title +30 (once), +10 per domain term in the snippet, +5 per competition in
// title and snippet, +15 for statistics language and +10 for career language
// in the snippet.
func Score(title, snippet string) int {
	score := 0
	if vocab.HasDisambiguator(title) {
		score += 50
	}
	if vocab.ContainsAny(title, vocab.DomainTerms) {
		score += 30
	}
	score += 10 * vocab.CountIn(snippet, vocab.DomainTerms)
	score += 5 * vocab.CountIn(title+" "+snippet, vocab.Competitions)
	if statsLanguage.MatchString(snippet) {
		score += 15
	}
	if careerLanguage.MatchString(snippet) {
		score += 10
	}
	return score
}

// IsDisambiguation reports whether title is a disambiguation page.
func IsDisambiguation(title string) bool {
	return strings.Contains(strings.ToLower(title), "(disambiguation)")
}

// Rank drops disambiguation pages and returns the remaining titles sorted by
// descending Score. Ties keep their input order.
func Rank(results []search.Result) []string {
	type scored struct {
		title string
		score int
	}
	kept := make([]scored, 0, len(results))
	for _, r := range results {
		if r.Title == "" || IsDisambiguation(r.Title) {
			continue
		}
		kept = append(kept, scored{title: r.Title, score: Score(r.Title, r.Snippet)})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	out := make([]string, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.title)
	}
	return out
}
