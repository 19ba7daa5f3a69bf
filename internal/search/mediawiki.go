package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/careerquiz/internal/fetch"
	"github.com/hyperifyio/careerquiz/internal/httputil"
)

// MediaWiki talks to a MediaWiki action API (api.php). Search implements
// Provider with full-text search and snippets.
type MediaWiki struct {
	// Endpoint is the api.php URL.
	Endpoint string
	// ViewBase prefixes titles to build page URLs, e.g. "https://en.wikipedia.org/wiki/".
	ViewBase string
	Client   *fetch.Client
}

func (m *MediaWiki) Name() string { return "mediawiki" }

// LookupTitle treats title as a literal page title, following redirects.
// It returns the canonical title of the first existing page, or an error
// wrapping httputil.ErrNotFound.
func (m *MediaWiki) LookupTitle(ctx context.Context, title string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("titles", title)
	q.Set("redirects", "1")
	var resp struct {
		Query struct {
			Pages []struct {
				PageID int    `json:"pageid"`
				Title  string `json:"title"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := m.call(ctx, q, &resp); err != nil {
		return "", err
	}
	for _, p := range resp.Query.Pages {
		if p.PageID > 0 && p.Title != "" {
			return p.Title, nil
		}
	}
	return "", fmt.Errorf("title %q: %w", title, httputil.ErrNotFound)
}

// Search runs a main-namespace full-text search. Snippet highlighting markup
// is removed.
func (m *MediaWiki) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", strconv.Itoa(limit))
	q.Set("srprop", "snippet")
	q.Set("srnamespace", "0")
	var resp struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := m.call(ctx, q, &resp); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(resp.Query.Search))
	for _, r := range resp.Query.Search {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		out = append(out, Result{
			Title:   title,
			URL:     m.PageURL(title),
			Snippet: StripMarkup(r.Snippet),
			Source:  m.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// PageURL builds the document-view URL for title.
func (m *MediaWiki) PageURL(title string) string {
	if m.ViewBase == "" {
		return ""
	}
	return strings.TrimRight(m.ViewBase, "/") + "/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

func (m *MediaWiki) call(ctx context.Context, q url.Values, v any) error {
	if m.Endpoint == "" {
		return fmt.Errorf("missing mediawiki endpoint")
	}
	if m.Client == nil {
		return fmt.Errorf("missing http client")
	}
	u, err := url.Parse(m.Endpoint)
	if err != nil {
		return err
	}
	q.Set("format", "json")
	if q.Get("action") == "query" {
		q.Set("formatversion", "2")
	}
	u.RawQuery = q.Encode()
	return m.Client.GetJSON(ctx, u.String(), v)
}

// OpenSearch implements Provider with the prefix-matching opensearch action.
// Results keep the endpoint's order and carry no snippet.
type OpenSearch struct {
	Wiki *MediaWiki
}

func (o *OpenSearch) Name() string { return "opensearch" }

func (o *OpenSearch) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if o.Wiki == nil {
		return nil, fmt.Errorf("opensearch: missing wiki")
	}
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("action", "opensearch")
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("namespace", "0")
	var raw []json.RawMessage
	if err := o.Wiki.call(ctx, q, &raw); err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, nil
	}
	var titles, urls []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("opensearch titles: %w", err)
	}
	if len(raw) >= 4 {
		_ = json.Unmarshal(raw[3], &urls)
	}
	out := make([]Result, 0, len(titles))
	for i, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		r := Result{Title: t, Source: o.Name()}
		if i < len(urls) {
			r.URL = urls[i]
		} else {
			r.URL = o.Wiki.PageURL(t)
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// StripMarkup returns the text content of an HTML fragment with entities
// decoded.
func StripMarkup(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
