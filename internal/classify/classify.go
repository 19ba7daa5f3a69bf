// Package classify decides whether a page describes a footballer.
package classify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/careerquiz/internal/cache"
	"github.com/hyperifyio/careerquiz/internal/metrics"
	"github.com/hyperifyio/careerquiz/internal/model"
	"github.com/hyperifyio/careerquiz/internal/page"
)

// Fetcher retrieves a page when the caller did not supply one.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*model.Document, bool)
}

// Classifier caches decisions by case-folded title.
type Classifier struct {
	fetcher Fetcher
	cache   *cache.TTL[bool]
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// New returns a Classifier. A nil decisions cache gets a one-hour default.
func New(f Fetcher, decisions *cache.TTL[bool], m *metrics.Metrics, log zerolog.Logger) *Classifier {
	if decisions == nil {
		decisions = cache.New[bool](cache.DefaultTTL)
	}
	return &Classifier{fetcher: f, cache: decisions, metrics: m, log: log}
}

// IsInDomain reports whether ref describes a footballer. doc is used when
// given; otherwise the page is fetched. A page that cannot be fetched is
// reported as out of domain and the decision is not cached.
func (c *Classifier) IsInDomain(ctx context.Context, ref string, doc *model.Document) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if v, ok := c.cache.Get(ref); ok {
		c.metrics.RecordCacheLookup("classification", true)
		return v
	}
	c.metrics.RecordCacheLookup("classification", false)

	if doc == nil {
		if c.fetcher == nil {
			return false
		}
		fetched, ok := c.fetcher.Fetch(ctx, ref)
		if !ok || fetched == nil {
			c.log.Debug().Str("ref", ref).Msg("classification skipped: page unavailable")
			return false
		}
		doc = fetched
	}

	inDomain, rule := Evaluate(ref, page.Parse(doc.Content))
	c.cache.Set(ref, inDomain)
	c.metrics.RecordClassification(inDomain)
	c.log.Debug().Str("ref", ref).Bool("in_domain", inDomain).Str("rule", rule).Msg("classified")
	return inDomain
}

// Prefer adapts IsInDomain to the acquirer's candidate preference.
func (c *Classifier) Prefer(ctx context.Context, ref string, doc *model.Document) bool {
	return c.IsInDomain(ctx, ref, doc)
}

// Clear drops cached decisions.
func (c *Classifier) Clear() { c.cache.Clear() }

// Purge removes expired decisions and returns how many were dropped and how
// many remain.
func (c *Classifier) Purge() (removed, remaining int) {
	removed = c.cache.Purge()
	return removed, c.cache.Len()
}
