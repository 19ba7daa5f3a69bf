// Package acquire resolves free-text names to page titles and retrieves page
// markup, trying an ordered list of strategies for each step and caching
// the results.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/careerquiz/internal/cache"
	"github.com/hyperifyio/careerquiz/internal/httputil"
	"github.com/hyperifyio/careerquiz/internal/metrics"
	"github.com/hyperifyio/careerquiz/internal/model"
	"github.com/hyperifyio/careerquiz/internal/rank"
	"github.com/hyperifyio/careerquiz/internal/search"
	"github.com/hyperifyio/careerquiz/internal/vocab"
)

// MinQueryLen is the shortest query worth sending to the search endpoints.
const MinQueryLen = 2

// scopedTerms is how many leading domain terms are OR'ed into the scoped
// search query.
const scopedTerms = 5

// TitleLookup resolves a literal title to its canonical form.
type TitleLookup interface {
	LookupTitle(ctx context.Context, title string) (string, error)
}

// Strategy is one way of producing a value for a key. A zero result with a
// nil error means the strategy found nothing.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context, key string) (T, error)
}

// Preference reports whether a fetched candidate should win over earlier
// candidates. The subject classifier is the usual implementation.
type Preference func(ctx context.Context, ref string, doc *model.Document) bool

// Options configures New.
type Options struct {
	Titles  TitleLookup
	Scoped  search.Provider
	General search.Provider
	Pages   PageSource

	// SearchCache and PageCache default to one-hour caches.
	SearchCache *cache.TTL[[]string]
	PageCache   *cache.TTL[model.Document]

	// SearchLimit bounds each search call. Zero means 10.
	SearchLimit int
	// MaxCandidates bounds how many resolved titles ResolveAndFetch fetches.
	// Zero means 5.
	MaxCandidates int

	Metrics *metrics.Metrics
	Log     zerolog.Logger
	Now     func() time.Time
}

// Acquirer isolates the network from the rest of the pipeline. Its methods
// never return errors: absence is reported as nil.
type Acquirer struct {
	resolvers []Strategy[[]string]
	fetchers  []Strategy[string]
	general   search.Provider

	searchCache *cache.TTL[[]string]
	pageCache   *cache.TTL[model.Document]
	prefer      Preference

	searchLimit   int
	maxCandidates int
	metrics       *metrics.Metrics
	log           zerolog.Logger
	now           func() time.Time
}

// New builds an Acquirer. Nil collaborators simply drop their strategy.
func New(opt Options) *Acquirer {
	a := &Acquirer{
		general:       opt.General,
		searchCache:   opt.SearchCache,
		pageCache:     opt.PageCache,
		searchLimit:   opt.SearchLimit,
		maxCandidates: opt.MaxCandidates,
		metrics:       opt.Metrics,
		log:           opt.Log,
		now:           opt.Now,
	}
	if a.searchCache == nil {
		a.searchCache = cache.New[[]string](cache.DefaultTTL)
	}
	if a.pageCache == nil {
		a.pageCache = cache.New[model.Document](cache.DefaultTTL)
	}
	if a.searchLimit <= 0 {
		a.searchLimit = 10
	}
	if a.maxCandidates <= 0 {
		a.maxCandidates = 5
	}
	if a.now == nil {
		a.now = time.Now
	}

	if opt.Titles != nil {
		a.resolvers = append(a.resolvers, Strategy[[]string]{Name: "exact_title", Run: exactTitle(opt.Titles)})
	}
	if opt.Scoped != nil {
		a.resolvers = append(a.resolvers, Strategy[[]string]{Name: "scoped_search", Run: a.scopedSearch(opt.Scoped)})
	}
	if opt.General != nil {
		a.resolvers = append(a.resolvers, Strategy[[]string]{Name: "general_search", Run: a.generalSearch(opt.General)})
	}
	if opt.Pages != nil {
		a.fetchers = []Strategy[string]{
			{Name: "rest", Run: opt.Pages.REST},
			{Name: "view", Run: opt.Pages.View},
			{Name: "parse", Run: opt.Pages.Parse},
		}
	}
	return a
}

// SetPrefer installs the candidate preference used by ResolveAndFetch.
func (a *Acquirer) SetPrefer(p Preference) { a.prefer = p }

// Resolve maps a query to candidate titles, best first. The first strategy
// that yields titles wins. Non-empty results are cached.
func (a *Acquirer) Resolve(ctx context.Context, query string) []string {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinQueryLen {
		return nil
	}
	if titles, ok := a.searchCache.Get(q); ok {
		a.metrics.RecordCacheLookup("search", true)
		a.log.Debug().Str("query", q).Msg("search cache hit")
		return append([]string(nil), titles...)
	}
	a.metrics.RecordCacheLookup("search", false)

	titles, name := firstOf(ctx, a, q, a.resolvers, func(v []string) bool { return len(v) > 0 })
	if len(titles) == 0 {
		a.log.Warn().Str("query", q).Msg("no candidates from any resolution strategy")
		return nil
	}
	a.log.Debug().Str("query", q).Str("strategy", name).Strs("titles", titles).Msg("resolved")
	a.searchCache.Set(q, titles)
	return append([]string(nil), titles...)
}

// Fetch returns the markup for ref, or false when every strategy failed.
func (a *Acquirer) Fetch(ctx context.Context, ref string) (*model.Document, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	if doc, ok := a.pageCache.Get(ref); ok {
		a.metrics.RecordCacheLookup("page", true)
		a.log.Debug().Str("ref", ref).Msg("page cache hit")
		return &doc, true
	}
	a.metrics.RecordCacheLookup("page", false)

	content, name := firstOf(ctx, a, ref, a.fetchers, func(v string) bool { return strings.TrimSpace(v) != "" })
	if content == "" {
		a.log.Warn().Str("ref", ref).Msg("no fetch strategy returned content")
		return nil, false
	}
	doc := model.Document{Ref: ref, Content: content, RetrievedAt: a.now()}
	a.pageCache.Set(ref, doc)
	a.log.Debug().Str("ref", ref).Str("strategy", name).Int("bytes", len(content)).Msg("fetched")
	return &doc, true
}

// ResolveAndFetch resolves query and fetches the best candidate. With a
// preference installed, candidates are fetched in order and the first one it
// accepts wins; otherwise the first fetchable candidate wins. It returns
// ("", nil) when nothing resolves and (top candidate, nil) when no candidate
// could be fetched.
func (a *Acquirer) ResolveAndFetch(ctx context.Context, query string) (string, *model.Document) {
	candidates := a.Resolve(ctx, query)
	if len(candidates) == 0 {
		return "", nil
	}
	if len(candidates) > a.maxCandidates {
		candidates = candidates[:a.maxCandidates]
	}
	var firstRef string
	var firstDoc *model.Document
	for _, ref := range candidates {
		if ctx.Err() != nil {
			break
		}
		doc, ok := a.Fetch(ctx, ref)
		if !ok {
			continue
		}
		if a.prefer == nil {
			return ref, doc
		}
		if a.prefer(ctx, ref, doc) {
			return ref, doc
		}
		a.log.Debug().Str("ref", ref).Msg("candidate not preferred")
		if firstDoc == nil {
			firstRef, firstDoc = ref, doc
		}
	}
	if firstDoc != nil {
		return firstRef, firstDoc
	}
	return candidates[0], nil
}

// ClearCache drops cached resolutions and pages.
func (a *Acquirer) ClearCache() {
	a.searchCache.Clear()
	a.pageCache.Clear()
}

// Cached reports whether query has a fresh resolution in the search cache.
func (a *Acquirer) Cached(query string) bool {
	return a.searchCache.Fresh(query)
}

// PurgeCache removes expired resolutions and pages. It returns how many
// entries were dropped and how many remain.
func (a *Acquirer) PurgeCache() (removed, remaining int) {
	removed = a.searchCache.Purge() + a.pageCache.Purge()
	return removed, a.searchCache.Len() + a.pageCache.Len()
}

// firstOf runs strategies in order and returns the first useful result with
// the winning strategy's name. Failures are logged and counted.
func firstOf[T any](ctx context.Context, a *Acquirer, key string, strategies []Strategy[T], useful func(T) bool) (T, string) {
	var zero T
	for _, s := range strategies {
		if ctx.Err() != nil {
			break
		}
		v, err := s.Run(ctx, key)
		switch {
		case err != nil && !errors.Is(err, httputil.ErrNotFound):
			a.metrics.RecordRemoteCall(s.Name, "error")
			a.log.Warn().Err(err).Str("strategy", s.Name).Str("key", key).Msg("strategy failed")
			continue
		case err != nil || !useful(v):
			a.metrics.RecordRemoteCall(s.Name, "empty")
			continue
		}
		a.metrics.RecordRemoteCall(s.Name, "ok")
		return v, s.Name
	}
	return zero, ""
}

func exactTitle(lookup TitleLookup) func(context.Context, string) ([]string, error) {
	return func(ctx context.Context, q string) ([]string, error) {
		probes := make([]string, 0, 1+len(vocab.TitleSuffixes))
		probes = append(probes, q)
		for _, s := range vocab.TitleSuffixes {
			probes = append(probes, q+s)
		}
		for _, p := range probes {
			title, err := lookup.LookupTitle(ctx, p)
			if err == nil && title != "" {
				return []string{title}, nil
			}
			if err != nil && !errors.Is(err, httputil.ErrNotFound) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("exact title %q: %w", q, httputil.ErrNotFound)
	}
}

func (a *Acquirer) scopedSearch(p search.Provider) func(context.Context, string) ([]string, error) {
	return func(ctx context.Context, q string) ([]string, error) {
		terms := strings.Join(vocab.DomainTerms[:scopedTerms], " OR ")
		results, err := p.Search(ctx, fmt.Sprintf("%s (%s)", q, terms), a.searchLimit)
		if err != nil {
			return nil, err
		}
		return rank.Rank(results), nil
	}
}

func (a *Acquirer) generalSearch(p search.Provider) func(context.Context, string) ([]string, error) {
	return func(ctx context.Context, q string) ([]string, error) {
		results, err := p.Search(ctx, q, a.searchLimit)
		if err != nil {
			return nil, err
		}
		return search.Titles(results), nil
	}
}
