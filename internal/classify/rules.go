package classify

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/careerquiz/internal/page"
	"github.com/hyperifyio/careerquiz/internal/textnorm"
	"github.com/hyperifyio/careerquiz/internal/vocab"
)

// Rule is one independent in-domain test.
type Rule struct {
	Name  string
	Match func(ref string, p *page.Page) bool
}

// Rules are evaluated in order; the first match decides.
var Rules = []Rule{
	{Name: "title", Match: titleRule},
	{Name: "role_clause", Match: roleClauseRule},
	{Name: "lead_term", Match: leadTermRule},
	{Name: "infobox", Match: infoboxRule},
	{Name: "career_heading", Match: careerHeadingRule},
}

var (
	playsAs       = regexp.MustCompile(`plays as an? ([\w\s-]+)`)
	isA           = regexp.MustCompile(`is an? ([\w\s-]+)`)
	infoboxClass  = regexp.MustCompile(`(?i)infobox[ _-]football`)
	infoboxMarker = regexp.MustCompile(`(?i)infobox[ _]football[ _](?:biography|player)`)
)

// Evaluate applies Rules and returns the decision with the name of the rule
// that matched.
func Evaluate(ref string, p *page.Page) (bool, string) {
	for _, r := range Rules {
		if r.Match(ref, p) {
			return true, r.Name
		}
	}
	return false, ""
}

func titleRule(ref string, _ *page.Page) bool {
	return vocab.HasDisambiguator(ref)
}

func lead(p *page.Page) string {
	return strings.ToLower(textnorm.Clean(p.FirstParagraph()))
}

func roleClauseRule(_ string, p *page.Page) bool {
	para := lead(p)
	if para == "" {
		return false
	}
	m := playsAs.FindStringSubmatch(para)
	if m == nil {
		m = isA.FindStringSubmatch(para)
	}
	return m != nil && vocab.ContainsAny(m[1], vocab.DomainTerms)
}

func leadTermRule(_ string, p *page.Page) bool {
	para := lead(p)
	return para != "" && vocab.ContainsAny(para, vocab.DomainTerms)
}

func infoboxRule(_ string, p *page.Page) bool {
	if box := p.Infobox(); box != nil && infoboxClass.MatchString(box.Class()) {
		return true
	}
	return infoboxMarker.MatchString(p.Source())
}

func careerHeadingRule(_ string, p *page.Page) bool {
	for _, h := range p.Headings() {
		if vocab.ContainsAny(h.Text, vocab.CareerSections) {
			return true
		}
	}
	return false
}
