package acquire

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/careerquiz/internal/fetch"
	"github.com/hyperifyio/careerquiz/internal/httputil"
	"github.com/hyperifyio/careerquiz/internal/model"
	"github.com/hyperifyio/careerquiz/internal/search"
)

// fakeWiki serves the action API, the REST renderer and the view URLs from
// in-memory maps.
type fakeWiki struct {
	titles map[string]string // lower-cased probe -> canonical title
	search []map[string]string
	open   map[string][]string // opensearch query -> titles
	rest   map[string]string
	view   map[string]string
	parse  map[string]string

	mu         sync.Mutex
	hits       map[string]int
	lastSearch string
	rest503    int
}

func (f *fakeWiki) count(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hits == nil {
		f.hits = map[string]int{}
	}
	f.hits[kind]++
}

func (f *fakeWiki) calls(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[kind]
}

func (f *fakeWiki) searched() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSearch
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/w/api.php":
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("action") == "opensearch":
			f.count("opensearch")
			titles := f.open[q.Get("search")]
			urls := make([]string, 0, len(titles))
			for _, t := range titles {
				urls = append(urls, "https://en.wikipedia.org/wiki/"+url.PathEscape(strings.ReplaceAll(t, " ", "_")))
			}
			_ = json.NewEncoder(w).Encode([]any{q.Get("search"), titles, make([]string, len(titles)), urls})
		case q.Get("action") == "parse":
			f.count("parse")
			text, ok := f.parse[q.Get("page")]
			if !ok {
				_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": "missingtitle"}})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"parse": map[string]any{"title": q.Get("page"), "text": text}})
		case q.Get("list") == "search":
			f.count("search")
			f.mu.Lock()
			f.lastSearch = q.Get("srsearch")
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{"query": map[string]any{"search": f.search}})
		default:
			f.count("titles")
			probe := q.Get("titles")
			page := map[string]any{"title": probe, "missing": true}
			if canon, ok := f.titles[strings.ToLower(probe)]; ok {
				page = map[string]any{"pageid": 7, "title": canon}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"query": map[string]any{"pages": []any{page}}})
		}
	case strings.HasPrefix(path, "/api/rest_v1/page/html/"):
		f.count("rest")
		f.mu.Lock()
		fail := f.rest503 > 0
		if fail {
			f.rest503--
		}
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		f.servePage(w, r, f.rest, strings.TrimPrefix(path, "/api/rest_v1/page/html/"))
	case strings.HasPrefix(path, "/wiki/"):
		f.count("view")
		f.servePage(w, r, f.view, strings.TrimPrefix(path, "/wiki/"))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeWiki) servePage(w http.ResponseWriter, r *http.Request, pages map[string]string, escaped string) {
	body, ok := pages[strings.ReplaceAll(escaped, "_", " ")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func newTestAcquirer(t *testing.T, f *fakeWiki) *Acquirer {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	client := &fetch.Client{UserAgent: "careerquiz-test", Policy: httputil.Policy{Attempts: 3, Delay: -1}}
	wiki := &search.MediaWiki{Endpoint: srv.URL + "/w/api.php", ViewBase: srv.URL + "/wiki/", Client: client}
	return New(Options{
		Titles:  wiki,
		Scoped:  wiki,
		General: &search.OpenSearch{Wiki: wiki},
		Pages: &Pages{
			RESTBase:    srv.URL + "/api/rest_v1/page",
			ViewBase:    srv.URL + "/wiki/",
			APIEndpoint: srv.URL + "/w/api.php",
			Client:      client,
		},
	})
}

func TestResolve_ExactTitleWithSuffixAndCache(t *testing.T) {
	f := &fakeWiki{titles: map[string]string{"john doe (footballer)": "John Doe (footballer)"}}
	a := newTestAcquirer(t, f)

	got := a.Resolve(context.Background(), "  john doe ")
	assert.Equal(t, []string{"John Doe (footballer)"}, got)
	assert.Equal(t, 2, f.calls("titles"), "bare title probe then the footballer suffix")
	assert.Zero(t, f.calls("search"))

	again := a.Resolve(context.Background(), "JOHN DOE")
	assert.Equal(t, got, again)
	assert.Equal(t, 2, f.calls("titles"), "second resolve must be served from cache")
}

func TestResolve_ScopedSearchIsRanked(t *testing.T) {
	f := &fakeWiki{search: []map[string]string{
		{"title": "John Doe", "snippet": "an American actor"},
		{"title": "John Doe (disambiguation)", "snippet": "footballer footballer"},
		{"title": "Johnny Doe", "snippet": `English <span class="searchmatch">footballer</span> who plays as a midfielder`},
	}}
	a := newTestAcquirer(t, f)

	got := a.Resolve(context.Background(), "John Doe")
	assert.Equal(t, []string{"Johnny Doe", "John Doe"}, got)
	assert.Equal(t, 4, f.calls("titles"))
	assert.Equal(t, "John Doe (footballer OR soccer player OR football player OR midfielder OR forward)", f.searched())
	assert.Zero(t, f.calls("opensearch"))
}

func TestResolve_FallsBackToGeneralSearch(t *testing.T) {
	f := &fakeWiki{open: map[string][]string{"Jon Doh": {"Jon Doh", "Jon Doh (band)"}}}
	a := newTestAcquirer(t, f)

	got := a.Resolve(context.Background(), "Jon Doh")
	assert.Equal(t, []string{"Jon Doh", "Jon Doh (band)"}, got)
	assert.Equal(t, 1, f.calls("opensearch"))
}

func TestResolve_EmptyResultsAreNotCached(t *testing.T) {
	f := &fakeWiki{}
	a := newTestAcquirer(t, f)

	assert.Nil(t, a.Resolve(context.Background(), "Nobody Atall"))
	assert.Nil(t, a.Resolve(context.Background(), "Nobody Atall"))
	assert.Equal(t, 2, f.calls("search"))
	assert.Equal(t, 2, f.calls("opensearch"))
}

func TestResolve_ShortQueryMakesNoCalls(t *testing.T) {
	f := &fakeWiki{}
	a := newTestAcquirer(t, f)

	assert.Nil(t, a.Resolve(context.Background(), " J "))
	assert.Zero(t, f.calls("titles"))
}

func TestFetch_StrategyOrder(t *testing.T) {
	f := &fakeWiki{
		rest:  map[string]string{"Rest Page": "<html><body>rest</body></html>"},
		view:  map[string]string{"Rest Page": "view", "View Page": "<html><body>view</body></html>"},
		parse: map[string]string{"Parse Page": "<p>Parse Page is a footballer.</p>"},
	}
	a := newTestAcquirer(t, f)
	ctx := context.Background()

	doc, ok := a.Fetch(ctx, "Rest Page")
	require.True(t, ok)
	assert.Equal(t, "Rest Page", doc.Ref)
	assert.Contains(t, doc.Content, "rest")
	assert.False(t, doc.RetrievedAt.IsZero())
	assert.Zero(t, f.calls("view"))

	doc, ok = a.Fetch(ctx, "View Page")
	require.True(t, ok)
	assert.Contains(t, doc.Content, "view")

	doc, ok = a.Fetch(ctx, "Parse Page")
	require.True(t, ok)
	assert.Contains(t, doc.Content, `<h1 id="firstHeading">Parse Page</h1>`)
	assert.Contains(t, doc.Content, `<div class="mw-parser-output"><p>Parse Page is a footballer.</p></div>`)

	doc, ok = a.Fetch(ctx, "Missing Page")
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestFetch_RetriesTransientAndCaches(t *testing.T) {
	f := &fakeWiki{rest: map[string]string{"John Doe": "<html>doe</html>"}, rest503: 2}
	a := newTestAcquirer(t, f)

	doc, ok := a.Fetch(context.Background(), "John Doe")
	require.True(t, ok)
	assert.Equal(t, "<html>doe</html>", doc.Content)
	assert.Equal(t, 3, f.calls("rest"))

	_, ok = a.Fetch(context.Background(), "john doe")
	require.True(t, ok)
	assert.Equal(t, 3, f.calls("rest"), "cache hit must not touch the network")

	a.ClearCache()
	_, ok = a.Fetch(context.Background(), "John Doe")
	require.True(t, ok)
	assert.Equal(t, 4, f.calls("rest"))
}

func TestResolveAndFetch(t *testing.T) {
	f := &fakeWiki{
		search: []map[string]string{{"title": "Alpha Doe"}, {"title": "Beta Doe"}},
		rest:   map[string]string{"Alpha Doe": "<p>actor</p>", "Beta Doe": "<p>footballer</p>"},
	}
	ctx := context.Background()

	t.Run("first fetched wins without preference", func(t *testing.T) {
		a := newTestAcquirer(t, f)
		ref, doc := a.ResolveAndFetch(ctx, "Doe")
		assert.Equal(t, "Alpha Doe", ref)
		require.NotNil(t, doc)
	})

	t.Run("preference picks a later candidate", func(t *testing.T) {
		a := newTestAcquirer(t, f)
		a.SetPrefer(func(_ context.Context, _ string, doc *model.Document) bool {
			return strings.Contains(doc.Content, "footballer")
		})
		ref, doc := a.ResolveAndFetch(ctx, "Doe")
		assert.Equal(t, "Beta Doe", ref)
		require.NotNil(t, doc)
		assert.Equal(t, "<p>footballer</p>", doc.Content)
	})

	t.Run("falls back to first fetched when nothing is preferred", func(t *testing.T) {
		a := newTestAcquirer(t, f)
		a.SetPrefer(func(context.Context, string, *model.Document) bool { return false })
		ref, doc := a.ResolveAndFetch(ctx, "Doe")
		assert.Equal(t, "Alpha Doe", ref)
		require.NotNil(t, doc)
	})
}

func TestResolveAndFetch_Absence(t *testing.T) {
	ctx := context.Background()

	a := newTestAcquirer(t, &fakeWiki{})
	ref, doc := a.ResolveAndFetch(ctx, "Nobody")
	assert.Equal(t, "", ref)
	assert.Nil(t, doc)

	b := newTestAcquirer(t, &fakeWiki{titles: map[string]string{"ghost": "Ghost"}})
	ref, doc = b.ResolveAndFetch(ctx, "ghost")
	assert.Equal(t, "Ghost", ref)
	assert.Nil(t, doc)
}

func TestSuggest_ScopedThenGeneral(t *testing.T) {
	f := &fakeWiki{open: map[string][]string{
		"joh footballer": {"John Doe (footballer)", "John Smith"},
		"joh":            {"John Doe (footballer)", "Johan Cruyff", "Johor"},
	}}
	a := newTestAcquirer(t, f)

	got := a.Suggest(context.Background(), "joh", 2)
	assert.Equal(t, []Suggestion{
		{Name: "John Doe (footballer)", PageTitle: "John Doe (footballer)"},
		{Name: "Johan Cruyff", PageTitle: "Johan Cruyff"},
	}, got)

	assert.Nil(t, a.Suggest(context.Background(), "j", 5))
}

func TestEnvelope_EscapesTitleAndKeepsFullDocuments(t *testing.T) {
	got := Envelope("A & B", "<p>x</p>")
	assert.Contains(t, got, `<h1 id="firstHeading">A &amp; B</h1>`)

	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, Envelope("A", full))
}
