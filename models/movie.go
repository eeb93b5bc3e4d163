// Package models defines the data structures used throughout the application.
package models

import "strconv"

// GenreRef identifies a genre attached to a movie
type GenreRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// KeywordRef identifies a descriptive keyword attached to a movie
type KeywordRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// CastMember represents one credited cast entry
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     *int   `json:"order,omitempty"`
}

// CrewMember represents one credited crew entry
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job,omitempty"`
	Department string `json:"department,omitempty"`
}

// CompanyRef identifies a production company
type CompanyRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// CountryRef identifies a production country
type CountryRef struct {
	ISO  string `json:"iso_3166_1,omitempty"`
	Name string `json:"name"`
}

// LanguageRef identifies a spoken language
type LanguageRef struct {
	ISO  string `json:"iso_639_1,omitempty"`
	Name string `json:"name"`
}

// Movie represents one catalog entry. The ID is assigned by the store and
// never reused; is_favorite, personal_rating and personal_notes are the
// user-owned fields that mutations patch individually.
type Movie struct {
	ID                  int           `json:"id"`
	Title               string        `json:"title"`
	Overview            string        `json:"overview,omitempty"`
	Tagline             string        `json:"tagline,omitempty"`
	Genres              []GenreRef    `json:"genres"`
	Keywords            []KeywordRef  `json:"keywords"`
	Cast                []CastMember  `json:"cast"`
	Crew                []CrewMember  `json:"crew"`
	ProductionCompanies []CompanyRef  `json:"production_companies"`
	ProductionCountries []CountryRef  `json:"production_countries"`
	SpokenLanguages     []LanguageRef `json:"spoken_languages"`
	OriginalLanguage    string        `json:"original_language,omitempty"`
	OriginalTitle       string        `json:"original_title,omitempty"`
	ReleaseDate         *string       `json:"release_date"`
	Runtime             *int          `json:"runtime"` // in minutes
	VoteAverage         *float64      `json:"vote_average"`
	VoteCount           *int          `json:"vote_count"`
	Popularity          *float64      `json:"popularity"`
	IsFavorite          bool          `json:"is_favorite"`
	PersonalRating      *int          `json:"personal_rating"`
	PersonalNotes       *string       `json:"personal_notes"`
}

// ReleaseYear returns the year parsed from the release date, or false when
// the date is absent or malformed.
func (m *Movie) ReleaseYear() (int, bool) {
	if m.ReleaseDate == nil || len(*m.ReleaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi((*m.ReleaseDate)[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Clone returns a deep copy of the movie so callers can hand out records
// without exposing store-owned slices and pointers.
func (m *Movie) Clone() *Movie {
	c := *m
	c.Genres = append([]GenreRef(nil), m.Genres...)
	c.Keywords = append([]KeywordRef(nil), m.Keywords...)
	c.Cast = append([]CastMember(nil), m.Cast...)
	c.Crew = append([]CrewMember(nil), m.Crew...)
	c.ProductionCompanies = append([]CompanyRef(nil), m.ProductionCompanies...)
	c.ProductionCountries = append([]CountryRef(nil), m.ProductionCountries...)
	c.SpokenLanguages = append([]LanguageRef(nil), m.SpokenLanguages...)
	c.ReleaseDate = cloneStringPtr(m.ReleaseDate)
	c.Runtime = cloneIntPtr(m.Runtime)
	c.VoteAverage = cloneFloatPtr(m.VoteAverage)
	c.VoteCount = cloneIntPtr(m.VoteCount)
	c.Popularity = cloneFloatPtr(m.Popularity)
	c.PersonalRating = cloneIntPtr(m.PersonalRating)
	c.PersonalNotes = cloneStringPtr(m.PersonalNotes)
	for i := range m.Cast {
		c.Cast[i].Order = cloneIntPtr(m.Cast[i].Order)
	}
	return &c
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
