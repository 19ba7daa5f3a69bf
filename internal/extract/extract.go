// Package extract turns a footballer page into a structured career record.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/careerquiz/internal/model"
	"github.com/hyperifyio/careerquiz/internal/page"
	"github.com/hyperifyio/careerquiz/internal/textnorm"
	"github.com/hyperifyio/careerquiz/internal/vocab"
)

const (
	// maxYearsLen rejects prose that leaked into a years cell.
	maxYearsLen = 30
	// maxHonourLen rejects paragraphs that are not honour entries.
	maxHonourLen = 100
)

var (
	dayMonthYear = regexp.MustCompile(`(\d{1,2}\s+\w+\s+\d{4})`)
	fourDigits   = regexp.MustCompile(`^\d{4}$`)
	rolePatterns = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(vocab.Positions))
		for _, pos := range vocab.Positions {
			m[pos] = regexp.MustCompile(`(?:is|was) an? ((?:[\w\s-]+ )?` + regexp.QuoteMeta(pos) + `)`)
		}
		return m
	}()
)

// Extractor builds career records. It is safe for concurrent use.
type Extractor struct {
	log zerolog.Logger
}

// New returns an Extractor that reports recovered faults to log.
func New(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract parses doc into a record. Every field is extracted independently
// and best-effort; a fault in one step is logged and the fields gathered so
// far are returned. Career lists are never nil.
func (e *Extractor) Extract(doc model.Document, queryName string) (rec model.CareerRecord) {
	rec = model.NewCareerRecord()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("ref", doc.Ref).Str("panic", fmt.Sprint(r)).Msg("extraction aborted; returning partial record")
			if rec.Clubs == nil {
				rec.Clubs = []model.CareerEntry{}
			}
			if rec.NationalTeam == nil {
				rec.NationalTeam = []model.CareerEntry{}
			}
		}
	}()

	p := page.Parse(doc.Content)
	box := p.Infobox()

	rec.FullName = fullName(p, box, queryName)
	rec.Position = position(p, box)
	rec.BirthDate = birthDate(box)
	rec.Height = height(box)
	if box != nil {
		rec.ImageURL = box.Image()
	}

	clubTables := careerTables(p)
	rec.Clubs = readTables(clubTables, clubRole)
	rec.NationalTeam = nationalTeams(p, clubTables)
	rec.Honours = honours(p)

	e.log.Debug().Str("ref", doc.Ref).Int("clubs", len(rec.Clubs)).Int("national", len(rec.NationalTeam)).Msg("extracted")
	return rec
}

// firstNonEmpty returns the first rule result that is non-empty.
func firstNonEmpty(rules ...func() string) string {
	for _, r := range rules {
		if v := r(); v != "" {
			return v
		}
	}
	return ""
}

func fullName(p *page.Page, box *page.Infobox, queryName string) string {
	return firstNonEmpty(
		func() string { return textnorm.Clean(p.Heading()) },
		func() string {
			if box == nil {
				return ""
			}
			return textnorm.Clean(box.Caption())
		},
		func() string { return textnorm.Clean(queryName) },
	)
}

func labelContains(terms ...string) func(string) bool {
	return func(label string) bool {
		for _, t := range terms {
			if strings.Contains(label, t) {
				return true
			}
		}
		return false
	}
}

func infoboxText(box *page.Infobox, terms ...string) string {
	if box == nil {
		return ""
	}
	f, ok := box.Row(labelContains(terms...))
	if !ok {
		return ""
	}
	return textnorm.Clean(f.Text)
}

func position(p *page.Page, box *page.Infobox) string {
	return firstNonEmpty(
		func() string { return infoboxText(box, "position") },
		func() string { return positionFromLead(p.FirstParagraph()) },
	)
}

// positionFromLead returns the longest "is/was a ... <role>" clause in the
// lead paragraph without its copula, or the first role term mentioned.
func positionFromLead(lead string) string {
	para := strings.ToLower(textnorm.Clean(lead))
	if para == "" {
		return ""
	}
	best, fallback := "", ""
	for _, pos := range vocab.Positions {
		if !strings.Contains(para, pos) {
			continue
		}
		if fallback == "" {
			fallback = pos
		}
		if m := rolePatterns[pos].FindStringSubmatch(para); m != nil && len(m[1]) > len(best) {
			best = strings.TrimSpace(m[1])
		}
	}
	if best == "" {
		best = fallback
	}
	return capitalize(best)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func birthDate(box *page.Infobox) string {
	if box == nil {
		return ""
	}
	f, ok := box.Row(labelContains("birth date", "born", "date of birth"))
	if !ok {
		return ""
	}
	return firstNonEmpty(
		func() string { return textnorm.Clean(f.Find("span.bday")) },
		func() string { return dayMonthYear.FindString(textnorm.Clean(f.Text)) },
		func() string { return textnorm.Clean(f.Text) },
	)
}

func height(box *page.Infobox) string {
	return infoboxText(box, "height")
}

func honours(p *page.Page) []string {
	sec := p.Section(vocab.HonoursSections...)
	if sec == nil {
		return nil
	}
	var out []string
	for _, item := range sec.ListItems() {
		if t := textnorm.Clean(item); t != "" && utf8.RuneCountInString(t) < maxHonourLen {
			out = append(out, t)
		}
	}
	return out
}
