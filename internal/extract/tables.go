package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperifyio/careerquiz/internal/model"
	"github.com/hyperifyio/careerquiz/internal/page"
	"github.com/hyperifyio/careerquiz/internal/textnorm"
	"github.com/hyperifyio/careerquiz/internal/vocab"
)

// role selects the name column and decides which team names a list keeps.
type role struct {
	nameColumns  []string
	nameFallback bool // use column 0 when no header names the team
	keep         func(name string) bool
}

var (
	clubRole = role{
		nameColumns: []string{"club", "team"},
		keep:        func(name string) bool { return !vocab.IsNational(name) },
	}
	nationalRole = role{
		nameColumns:  []string{"team", "country", "national"},
		nameFallback: true,
		keep: func(name string) bool {
			return vocab.IsNational(name) || !vocab.LooksLikeClub(name)
		},
	}
	// mixedRole pulls national sides out of club-shaped tables.
	mixedRole = role{
		nameColumns: []string{"club", "team"},
		keep:        vocab.IsNational,
	}
)

// careerTables returns the tables of the club section, or every table when
// the page has no such section.
func careerTables(p *page.Page) []*page.Table {
	if sec := p.Section(vocab.ClubSections...); sec != nil {
		return sec.Tables()
	}
	return p.Tables()
}

// nationalTeams reads the national section's tables. When that yields
// nothing, national rows are pulled out of the club tables instead.
func nationalTeams(p *page.Page, clubTables []*page.Table) []model.CareerEntry {
	var out []model.CareerEntry
	if sec := p.Section(vocab.NationalSections...); sec != nil {
		out = readTables(sec.Tables(), nationalRole)
	}
	if len(out) > 0 {
		return out
	}
	seen := map[string]struct{}{}
	out = []model.CareerEntry{}
	for _, e := range readTables(clubTables, mixedRole) {
		key := strings.ToLower(e.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func readTables(tables []*page.Table, r role) []model.CareerEntry {
	out := []model.CareerEntry{}
	for _, t := range tables {
		out = append(out, readTable(t, r)...)
	}
	return out
}

func isCareerTable(t *page.Table) bool {
	return t.Column(vocab.CareerColumns...) >= 0
}

func readTable(t *page.Table, r role) []model.CareerEntry {
	if !isCareerTable(t) {
		return nil
	}
	nameCol := t.Column(r.nameColumns...)
	if nameCol < 0 {
		if !r.nameFallback {
			return nil
		}
		nameCol = 0
	}
	yearsCol := t.Column("years", "season", "period")
	appsCol := t.Column("app", "caps", "games", "match")
	goalsCol := t.Column("goal", "score")

	var out []model.CareerEntry
	for _, row := range t.Rows {
		if skipRow(row) {
			continue
		}
		cell, ok := row.At(nameCol)
		if !ok {
			continue
		}
		name := textnorm.Clean(cell.Text)
		if name == "" || vocab.IsTotal(name) || !r.keep(name) {
			continue
		}
		entry := model.CareerEntry{Name: name}
		if v := columnText(row, yearsCol); validYears(v) {
			entry.Years = v
		}
		if v := columnText(row, appsCol); validCount(v) {
			entry.Appearances = v
		}
		if v := columnText(row, goalsCol); validCount(v) {
			entry.Goals = v
		}
		out = append(out, entry)
	}
	return out
}

// skipRow drops single-cell rows, sub-heading rows and header rows.
func skipRow(row page.Row) bool {
	if len(row.Cells) <= 1 {
		return true
	}
	for _, c := range row.Cells {
		if c.Header && c.Colspan > 1 {
			return true
		}
	}
	return row.AllHeader()
}

func columnText(row page.Row, col int) string {
	if col < 0 {
		return ""
	}
	c, ok := row.At(col)
	if !ok {
		return ""
	}
	return textnorm.Clean(c.Text)
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func validYears(s string) bool {
	return hasDigit(s) && utf8.RuneCountInString(s) < maxYearsLen
}

// validCount rejects values without digits and bare years, which appear
// when columns are misaligned.
func validCount(s string) bool {
	return hasDigit(s) && !fourDigits.MatchString(s)
}
