// Package model defines the values passed between pipeline stages.
package model

import "time"

// Document is the retrieved markup for one page. Ref is its canonical title.
type Document struct {
	Ref         string
	Content     string
	RetrievedAt time.Time
}

// CareerEntry is one row of participation with a club or national side.
// Empty optional fields mean the value could not be confirmed.
type CareerEntry struct {
	Name        string `json:"name"`
	Years       string `json:"years,omitempty"`
	Appearances string `json:"apps,omitempty"`
	Goals       string `json:"goals,omitempty"`
}

// CareerRecord is the structured result of extraction.
type CareerRecord struct {
	FullName     string        `json:"full_name"`
	Position     string        `json:"position,omitempty"`
	BirthDate    string        `json:"birth_date,omitempty"`
	Height       string        `json:"height,omitempty"`
	ImageURL     string        `json:"image_url,omitempty"`
	Clubs        []CareerEntry `json:"clubs"`
	NationalTeam []CareerEntry `json:"national_team"`
	Honours      []string      `json:"honours,omitempty"`
}

// NewCareerRecord returns a record with empty, non-nil career lists.
func NewCareerRecord() CareerRecord {
	return CareerRecord{Clubs: []CareerEntry{}, NationalTeam: []CareerEntry{}}
}

// Clone returns a deep copy of r. Nil career lists become empty.
func (r CareerRecord) Clone() CareerRecord {
	out := r
	out.Clubs = append(make([]CareerEntry, 0, len(r.Clubs)), r.Clubs...)
	out.NationalTeam = append(make([]CareerEntry, 0, len(r.NationalTeam)), r.NationalTeam...)
	if r.Honours != nil {
		out.Honours = append([]string(nil), r.Honours...)
	}
	return out
}
