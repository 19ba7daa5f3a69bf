// Package vocab holds the fixed football vocabulary shared by ranking,
// classification and extraction.
package vocab

import (
	"regexp"
	"strings"
)

// DomainTerms are profession and role phrases that mark a page as being
// about a footballer. Order matters: ScopedTerms takes the leading entries.
var DomainTerms = []string{
	"footballer", "soccer player", "football player",
	"midfielder", "forward", "defender", "goalkeeper",
	"striker", "winger", "centre-back", "full-back",
	"football career", "football club", "national team",
}

// Competitions are league, tournament and governing-body names.
var Competitions = []string{
	"Premier League", "La Liga", "Bundesliga", "Serie A",
	"Ligue 1", "Champions League", "World Cup", "UEFA", "FIFA",
	"Copa America", "CONMEBOL", "CONCACAF", "AFC", "CAF",
}

// Positions are the playing roles recognised in lead paragraphs.
var Positions = []string{
	"goalkeeper", "defender", "midfielder", "forward",
	"striker", "winger", "centre-back", "full-back",
}

// TitleSuffixes are appended to a bare name when probing for an exact title.
var TitleSuffixes = []string{" (footballer)", " (soccer player)", " (soccer)"}

// Section headings, in priority order.
var (
	ClubSections     = []string{"Career statistics", "Club career", "Senior career", "Club"}
	NationalSections = []string{"International career", "National team", "International"}
	HonoursSections  = []string{"Honours", "Honors", "Achievements", "Awards"}
	CareerSections   = []string{"Club career", "International career"}
)

// CareerColumns are header terms that mark a table as career data.
var CareerColumns = []string{"club", "team", "years", "season", "apps", "appearances", "caps", "goals"}

var totalNames = map[string]struct{}{
	"total":             {},
	"totals":            {},
	"career total":      {},
	"career totals":     {},
	"career statistics": {},
	"club total":        {},
}

// Nations lists national team names as they appear in career tables.
var Nations = []string{
	"Albania", "Algeria", "Argentina", "Australia", "Austria", "Belgium",
	"Bolivia", "Bosnia and Herzegovina", "Brazil", "Bulgaria", "Cameroon",
	"Canada", "Chile", "China", "Colombia", "Costa Rica", "Croatia",
	"Czech Republic", "Czechoslovakia", "Denmark", "DR Congo", "Ecuador",
	"Egypt", "England", "Finland", "France", "Germany", "West Germany",
	"Ghana", "Greece", "Hungary", "Iceland", "Iran", "Ireland",
	"Republic of Ireland", "Northern Ireland", "Israel", "Italy",
	"Ivory Coast", "Jamaica", "Japan", "Mexico", "Morocco", "Netherlands",
	"New Zealand", "Nigeria", "North Macedonia", "Norway", "Paraguay",
	"Peru", "Poland", "Portugal", "Qatar", "Romania", "Russia",
	"Saudi Arabia", "Scotland", "Senegal", "Serbia", "Slovakia",
	"Slovenia", "South Africa", "South Korea", "Soviet Union", "Spain",
	"Sweden", "Switzerland", "Tunisia", "Turkey", "Ukraine",
	"United States", "Uruguay", "Venezuela", "Wales", "Yugoslavia",
}

var nationSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Nations))
	for _, n := range Nations {
		m[strings.ToLower(n)] = struct{}{}
	}
	return m
}()

// clubMarkers are words that appear in club names but never in national
// team names.
var clubMarkers = []string{
	"fc", "f.c.", "cf", "sc", "afc", "club", "city", "town", "rovers",
	"athletic", "wanderers", "academy", "youth", "reserves", "sporting",
	"real", "inter", "dynamo", "calcio",
}

var disambiguator = regexp.MustCompile(`(?i)\((?:football(?:er)?|soccer(?: player)?)\)`)

// HasDisambiguator reports whether title carries a football disambiguation
// suffix such as "(footballer)".
func HasDisambiguator(title string) bool {
	return disambiguator.MatchString(title)
}

// ContainsAny reports whether lower-cased text contains any of terms,
// compared case-insensitively.
func ContainsAny(text string, terms []string) bool {
	lt := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lt, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// CountIn returns how many of terms occur in text, case-insensitively.
func CountIn(text string, terms []string) int {
	lt := strings.ToLower(text)
	n := 0
	for _, t := range terms {
		if strings.Contains(lt, strings.ToLower(t)) {
			n++
		}
	}
	return n
}

// IsTotal reports whether a row label names an aggregate row.
func IsTotal(name string) bool {
	_, ok := totalNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// IsNational reports whether a team name refers to a national side:
// a known nation, a nation followed by a qualifier ("England U21"), or
// anything mentioning "national".
func IsNational(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	if strings.Contains(n, "national") {
		return true
	}
	if _, ok := nationSet[n]; ok {
		return true
	}
	for nation := range nationSet {
		if strings.HasPrefix(n, nation+" ") {
			return true
		}
	}
	return false
}

// LooksLikeClub reports whether name carries a club marker word.
func LooksLikeClub(name string) bool {
	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == ','
	}) {
		for _, m := range clubMarkers {
			if w == m {
				return true
			}
		}
	}
	return false
}
