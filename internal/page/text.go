package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the visible text of the selection's first node with
// whitespace collapsed. Scripts, styles and edit links are skipped and line
// breaks become spaces.
func Text(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	collectText(&b, s.Get(0))
	return collapseSpaces(strings.TrimSpace(b.String()))
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if isSkipped(n) {
			return
		}
		switch n.Data {
		case "br", "hr", "li", "dd", "p", "div", "td", "th":
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func isSkipped(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "noscript":
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, "mw-editsection") {
			return true
		}
	}
	return false
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\u00a0' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
