package acquire

import (
	"context"
	"net/url"
	"strings"

	"github.com/hyperifyio/careerquiz/internal/search"
	"github.com/hyperifyio/careerquiz/internal/vocab"
)

// Suggestion is one autocomplete entry.
type Suggestion struct {
	Name      string `json:"name"`
	PageTitle string `json:"page_title"`
}

// Suggest returns up to limit autocomplete entries for a partial name.
// Footballer-looking titles from a football-scoped prefix search come first;
// an unscoped prefix search tops the list up.
func (a *Acquirer) Suggest(ctx context.Context, partial string, limit int) []Suggestion {
	partial = strings.TrimSpace(partial)
	if len([]rune(partial)) < MinQueryLen || a.general == nil {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}
	scoped, err := a.general.Search(ctx, partial+" footballer", limit*2)
	if err != nil {
		a.metrics.RecordRemoteCall("suggest_scoped", "error")
		a.log.Warn().Err(err).Str("partial", partial).Msg("scoped suggestion search failed")
	}
	var footballers []search.Result
	for _, r := range scoped {
		if likelyFootballerTitle(r.Title) {
			footballers = append(footballers, r)
		}
	}

	var general []search.Result
	if len(footballers) < limit {
		general, err = a.general.Search(ctx, partial, limit*2)
		if err != nil {
			a.metrics.RecordRemoteCall("suggest_general", "error")
			a.log.Warn().Err(err).Str("partial", partial).Msg("general suggestion search failed")
		}
	}

	merged := search.Merge(footballers, general)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	out := make([]Suggestion, 0, len(merged))
	for _, r := range merged {
		out = append(out, Suggestion{Name: r.Title, PageTitle: pageTitleFromURL(r.URL, r.Title)})
	}
	return out
}

func likelyFootballerTitle(title string) bool {
	return vocab.HasDisambiguator(title) || vocab.ContainsAny(title, []string{"football player", "soccer player"})
}

func pageTitleFromURL(rawURL, fallback string) string {
	_, after, ok := strings.Cut(rawURL, "/wiki/")
	if !ok || after == "" {
		return fallback
	}
	if unescaped, err := url.PathUnescape(after); err == nil {
		after = unescaped
	}
	return strings.ReplaceAll(after, "_", " ")
}
