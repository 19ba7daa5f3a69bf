package acquire

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/hyperifyio/careerquiz/internal/fetch"
	"github.com/hyperifyio/careerquiz/internal/httputil"
)

// PageSource retrieves rendered markup for a title through three request
// shapes.
type PageSource interface {
	// REST uses the structured content-rendering endpoint.
	REST(ctx context.Context, title string) (string, error)
	// View requests the public document-view URL.
	View(ctx context.Context, title string) (string, error)
	// Parse uses the generic parse action and returns the fragment wrapped in
	// a heading plus content envelope.
	Parse(ctx context.Context, title string) (string, error)
}

// Pages is the MediaWiki implementation of PageSource.
type Pages struct {
	// RESTBase is e.g. "https://en.wikipedia.org/api/rest_v1/page".
	RESTBase string
	// ViewBase is e.g. "https://en.wikipedia.org/wiki/".
	ViewBase string
	// APIEndpoint is the api.php URL.
	APIEndpoint string
	Client      *fetch.Client
}

func (p *Pages) REST(ctx context.Context, title string) (string, error) {
	return p.Client.GetHTML(ctx, strings.TrimRight(p.RESTBase, "/")+"/html/"+escapeTitle(title))
}

func (p *Pages) View(ctx context.Context, title string) (string, error) {
	return p.Client.GetHTML(ctx, strings.TrimRight(p.ViewBase, "/")+"/"+escapeTitle(title))
}

func (p *Pages) Parse(ctx context.Context, title string) (string, error) {
	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", title)
	q.Set("prop", "text")
	q.Set("formatversion", "2")
	q.Set("format", "json")
	var resp struct {
		Parse struct {
			Title string `json:"title"`
			Text  string `json:"text"`
		} `json:"parse"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := p.Client.GetJSON(ctx, p.APIEndpoint+"?"+q.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("parse %q: %s: %w", title, resp.Error.Code, httputil.ErrNotFound)
	}
	if strings.TrimSpace(resp.Parse.Text) == "" {
		return "", nil
	}
	return Envelope(title, resp.Parse.Text), nil
}

// Envelope wraps a bare content fragment in the document structure the
// extractor expects: a top-level heading carrying the title and a content
// container.
func Envelope(title, fragment string) string {
	if strings.HasPrefix(strings.TrimSpace(strings.ToLower(fragment)), "<!doctype html") {
		return fragment
	}
	t := html.EscapeString(title)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>")
	b.WriteString(t)
	b.WriteString("</title></head>\n<body>\n<h1 id=\"firstHeading\">")
	b.WriteString(t)
	b.WriteString("</h1>\n<div class=\"mw-parser-output\">")
	b.WriteString(fragment)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

func escapeTitle(title string) string {
	return url.PathEscape(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
}
