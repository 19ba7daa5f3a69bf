// Package page wraps parsed wiki markup in a small document model:
// headings, the lead paragraph, the info-card, sections and tables.
package page

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a parsed document. The zero value is not usable; call Parse.
type Page struct {
	doc *goquery.Document
	src string
}

// Heading is an h2–h4 section heading.
type Heading struct {
	Level int
	Text  string
}

// Parse builds a Page from markup. It never fails: unparseable input yields
// an empty page.
func Parse(content string) *Page {
	node, err := html.Parse(strings.NewReader(content))
	if err != nil || node == nil {
		node = &html.Node{Type: html.DocumentNode}
	}
	return &Page{doc: goquery.NewDocumentFromNode(node), src: content}
}

// Source returns the markup the page was parsed from.
func (p *Page) Source() string { return p.src }

// Heading returns the top-level page heading, preferring h1#firstHeading.
func (p *Page) Heading() string {
	h := p.doc.Find("h1#firstHeading").First()
	if h.Length() == 0 {
		h = p.doc.Find("h1").First()
	}
	return Text(h)
}

// FirstParagraph returns the text of the first non-empty paragraph outside
// tables.
func (p *Page) FirstParagraph() string {
	var out string
	p.doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.ParentsFiltered("table").Length() > 0 {
			return true
		}
		if t := Text(s); t != "" {
			out = t
			return false
		}
		return true
	})
	return out
}

// Headings lists h2–h4 headings in document order.
func (p *Page) Headings() []Heading {
	var out []Heading
	p.doc.Find("h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		out = append(out, Heading{Level: headingLevel(s), Text: Text(s)})
	})
	return out
}

// Tables returns every table.wikitable in the document.
func (p *Page) Tables() []*Table {
	return parseTables(p.doc.Find("table.wikitable"))
}

// Section finds the first h2–h4 heading whose text contains one of titles,
// trying titles in priority order and shallower levels first. The section
// runs until the next heading of the same or a higher level. It returns nil
// when no heading matches.
func (p *Page) Section(titles ...string) *Section {
	for _, title := range titles {
		want := strings.ToLower(title)
		for level := 2; level <= 4; level++ {
			var found *goquery.Selection
			p.doc.Find(fmt.Sprintf("h%d", level)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if strings.Contains(strings.ToLower(Text(s)), want) {
					found = s
					return false
				}
				return true
			})
			if found == nil {
				continue
			}
			anchor := found
			if parent := found.Parent(); parent.HasClass("mw-heading") {
				anchor = parent
			}
			return &Section{Title: Text(found), Level: level, sel: anchor.NextUntil(stopSelector(level))}
		}
	}
	return nil
}

// stopSelector matches headings at or above level, bare or wrapped in the
// div.mw-heading container newer skins emit.
func stopSelector(level int) string {
	parts := make([]string, 0, 2*level)
	for l := 1; l <= level; l++ {
		parts = append(parts, "h"+strconv.Itoa(l), "div.mw-heading"+strconv.Itoa(l))
	}
	return strings.Join(parts, ", ")
}

func headingLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

// Section is the run of sibling elements that follows a heading.
type Section struct {
	Title string
	Level int
	sel   *goquery.Selection
}

// Tables returns the wikitables inside the section in document order.
func (s *Section) Tables() []*Table {
	var tables []*html.Node
	s.sel.Each(func(_ int, el *goquery.Selection) {
		if goquery.NodeName(el) == "table" && el.HasClass("wikitable") {
			tables = append(tables, el.Get(0))
			return
		}
		tables = append(tables, el.Find("table.wikitable").Nodes...)
	})
	return parseTables(s.sel.Slice(0, 0).AddNodes(tables...))
}

// ListItems returns the text of every li and dd element in the section.
func (s *Section) ListItems() []string {
	var out []string
	s.sel.Each(func(_ int, el *goquery.Selection) {
		el.Find("li, dd").Each(func(_ int, item *goquery.Selection) {
			if t := Text(item); t != "" {
				out = append(out, t)
			}
		})
	})
	return out
}

// Infobox returns the info-card panel, or nil when the page has none.
func (p *Page) Infobox() *Infobox {
	box := p.doc.Find("table.infobox").First()
	if box.Length() == 0 {
		return nil
	}
	return &Infobox{sel: box}
}

// Infobox is the key/value panel summarizing biographical facts.
type Infobox struct {
	sel *goquery.Selection
}

// Field is one labelled info-card row.
type Field struct {
	Label string
	Text  string
	cell  *goquery.Selection
}

// Find returns the text of the first element inside the field's value cell
// matching selector, or "".
func (f Field) Find(selector string) string {
	if f.cell == nil {
		return ""
	}
	return Text(f.cell.Find(selector).First())
}

// Class returns the info-card's class attribute.
func (b *Infobox) Class() string {
	c, _ := b.sel.Attr("class")
	return c
}

// Caption returns the panel caption or its title row.
func (b *Infobox) Caption() string {
	if t := Text(b.sel.Find("caption").First()); t != "" {
		return t
	}
	return Text(b.sel.Find("th.infobox-above").First())
}

// Row returns the first row whose lower-cased label satisfies match.
func (b *Infobox) Row(match func(label string) bool) (Field, bool) {
	var out Field
	found := false
	b.sel.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		th := tr.ChildrenFiltered("th").First()
		td := tr.ChildrenFiltered("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return true
		}
		label := Text(th)
		if !match(strings.ToLower(label)) {
			return true
		}
		out = Field{Label: label, Text: Text(td), cell: td}
		found = true
		return false
	})
	return out, found
}

// Image returns the first image source in the panel with protocol-relative
// URLs made explicit.
func (b *Infobox) Image() string {
	src, ok := b.sel.Find("img").First().Attr("src")
	if !ok {
		return ""
	}
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
