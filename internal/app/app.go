// Package app wires the lookup pipeline together: configuration, transport,
// caches, acquisition, classification, extraction and redaction.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/careerquiz/internal/acquire"
	"github.com/hyperifyio/careerquiz/internal/cache"
	"github.com/hyperifyio/careerquiz/internal/classify"
	"github.com/hyperifyio/careerquiz/internal/extract"
	"github.com/hyperifyio/careerquiz/internal/fetch"
	"github.com/hyperifyio/careerquiz/internal/httputil"
	"github.com/hyperifyio/careerquiz/internal/metrics"
	"github.com/hyperifyio/careerquiz/internal/model"
	"github.com/hyperifyio/careerquiz/internal/redact"
	"github.com/hyperifyio/careerquiz/internal/search"
)

// Lookup outcomes. Each maps to a distinct user-facing status.
var (
	ErrMissingQuery        = errors.New("player name is required")
	ErrNotFound            = errors.New("player not found")
	ErrFetchFailed         = errors.New("failed to fetch player page")
	ErrOutOfDomain         = errors.New("not a football player")
	ErrExtractionShortfall = errors.New("failed to extract career information")
)

// Result is a redacted lookup answer.
type Result struct {
	Query  string             `json:"search_query"`
	Title  string             `json:"wikipedia_title"`
	Career model.CareerRecord `json:"career"`
}

// App is the pipeline facade shared by the CLI and the JSON handler.
type App struct {
	cfg        Config
	log        zerolog.Logger
	acq        *acquire.Acquirer
	classifier *classify.Classifier
	extractor  *extract.Extractor
	metrics    *metrics.Metrics
	registry   *prometheus.Registry
}

// New validates cfg and builds the pipeline.
func New(cfg Config, log zerolog.Logger) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	policy := httputil.Policy{Attempts: cfg.MaxAttempts, Delay: cfg.RetryDelay}
	if cfg.RetryDelay == 0 {
		policy.Delay = -1
	}
	httpClient := newHTTPClient(maxDuration(cfg.SearchTimeout, cfg.PageTimeout))

	transportLog := log.With().Str("component", "fetch").Logger()
	searchClient := &fetch.Client{
		HTTPClient:        httpClient,
		UserAgent:         cfg.UserAgent,
		Policy:            policy,
		PerRequestTimeout: cfg.SearchTimeout,
		Log:               transportLog,
	}
	pageClient := &fetch.Client{
		HTTPClient:        httpClient,
		UserAgent:         cfg.UserAgent,
		Policy:            policy,
		PerRequestTimeout: cfg.PageTimeout,
		Log:               transportLog,
	}

	wiki := &search.MediaWiki{Endpoint: cfg.APIEndpoint, ViewBase: cfg.ViewBase, Client: searchClient}
	acq := acquire.New(acquire.Options{
		Titles:  wiki,
		Scoped:  wiki,
		General: &search.OpenSearch{Wiki: wiki},
		Pages: &acquire.Pages{
			RESTBase:    cfg.RESTBase,
			ViewBase:    cfg.ViewBase,
			APIEndpoint: cfg.APIEndpoint,
			Client:      pageClient,
		},
		SearchCache:   cache.New[[]string](cfg.CacheTTL),
		PageCache:     cache.New[model.Document](cfg.CacheTTL),
		SearchLimit:   cfg.SearchLimit,
		MaxCandidates: cfg.MaxCandidates,
		Metrics:       m,
		Log:           log.With().Str("component", "acquire").Logger(),
	})
	classifier := classify.New(acq, cache.New[bool](cfg.CacheTTL), m, log.With().Str("component", "classify").Logger())
	acq.SetPrefer(classifier.Prefer)

	return &App{
		cfg:        cfg,
		log:        log,
		acq:        acq,
		classifier: classifier,
		extractor:  extract.New(log.With().Str("component", "extract").Logger()),
		metrics:    m,
		registry:   reg,
	}, nil
}

// Lookup resolves name to a page, checks it is a footballer, extracts the
// career record and hides the name. On ErrFetchFailed and
// ErrExtractionShortfall the returned Result carries whatever is known.
func (a *App) Lookup(ctx context.Context, name string) (*Result, error) {
	q := strings.TrimSpace(name)
	if q == "" {
		a.metrics.RecordLookup("missing_query")
		return nil, ErrMissingQuery
	}
	start := time.Now()
	cached := a.acq.Cached(q)

	ref, doc := a.acq.ResolveAndFetch(ctx, q)
	switch {
	case ref == "":
		a.metrics.RecordLookup("not_found")
		a.log.Info().Str("query", q).Msg("no page found")
		return nil, fmt.Errorf("%w: %q", ErrNotFound, q)
	case doc == nil:
		a.metrics.RecordLookup("fetch_failed")
		a.log.Warn().Str("query", q).Str("title", ref).Msg("page could not be fetched")
		return &Result{Query: q, Title: ref, Career: model.NewCareerRecord()}, fmt.Errorf("%w: %q", ErrFetchFailed, ref)
	}

	if !a.classifier.IsInDomain(ctx, ref, doc) {
		a.metrics.RecordLookup("out_of_domain")
		a.log.Info().Str("query", q).Str("title", ref).Msg("page is not about a footballer")
		return nil, fmt.Errorf("%w: %q does not describe a footballer", ErrOutOfDomain, ref)
	}

	rec := a.extractor.Extract(*doc, q)
	res := &Result{Query: q, Title: ref, Career: redact.Redact(rec, q)}
	if len(rec.Clubs) == 0 {
		a.metrics.RecordLookup("extraction_shortfall")
		a.log.Warn().Str("query", q).Str("title", ref).Msg("no club entries extracted")
		return res, fmt.Errorf("%w: %q has no club career", ErrExtractionShortfall, ref)
	}

	a.metrics.RecordLookup("ok")
	a.log.Info().
		Str("query", q).
		Str("title", ref).
		Int("clubs", len(rec.Clubs)).
		Int("national", len(rec.NationalTeam)).
		Bool("cached", cached).
		Dur("elapsed", time.Since(start)).
		Msg("lookup complete")
	return res, nil
}

// Suggest returns autocomplete candidates for a partial name. Inputs shorter
// than two runes yield an empty list.
func (a *App) Suggest(ctx context.Context, partial string) []acquire.Suggestion {
	if len([]rune(strings.TrimSpace(partial))) < acquire.MinQueryLen {
		return []acquire.Suggestion{}
	}
	out := a.acq.Suggest(ctx, partial, a.cfg.SuggestLimit)
	if out == nil {
		return []acquire.Suggestion{}
	}
	return out
}

// ClearCaches drops every cached resolution, page and classification.
func (a *App) ClearCaches() {
	a.acq.ClearCache()
	a.classifier.Clear()
	a.log.Info().Msg("caches cleared")
}

// PurgeExpired drops expired entries from every cache. It returns how many
// entries were removed and how many remain.
func (a *App) PurgeExpired() (removed, remaining int) {
	r1, n1 := a.acq.PurgeCache()
	r2, n2 := a.classifier.Purge()
	removed, remaining = r1+r2, n1+n2
	a.log.Debug().Int("removed", removed).Int("remaining", remaining).Msg("expired cache entries purged")
	return removed, remaining
}

// SweepCaches calls PurgeExpired every interval until ctx is done. A
// non-positive interval returns immediately.
func (a *App) SweepCaches(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.PurgeExpired()
		}
	}
}

// Registry exposes the metrics registry for the /metrics endpoint.
func (a *App) Registry() *prometheus.Registry { return a.registry }

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
