package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CreateMovieCommand carries the fields a caller may set when creating a
// movie. Identifier, favorite flag and the personal fields are owned by the
// store and always start zeroed.
type CreateMovieCommand struct {
	Title               string        `json:"title"`
	Overview            string        `json:"overview,omitempty"`
	Tagline             string        `json:"tagline,omitempty"`
	Genres              []GenreRef    `json:"genres,omitempty"`
	Keywords            []KeywordRef  `json:"keywords,omitempty"`
	Cast                []CastMember  `json:"cast,omitempty"`
	Crew                []CrewMember  `json:"crew,omitempty"`
	ProductionCompanies []CompanyRef  `json:"production_companies,omitempty"`
	ProductionCountries []CountryRef  `json:"production_countries,omitempty"`
	SpokenLanguages     []LanguageRef `json:"spoken_languages,omitempty"`
	OriginalLanguage    string        `json:"original_language,omitempty"`
	OriginalTitle       string        `json:"original_title,omitempty"`
	ReleaseDate         *string       `json:"release_date,omitempty"`
	Runtime             *int          `json:"runtime,omitempty"`
	VoteAverage         *float64      `json:"vote_average,omitempty"`
	VoteCount           *int          `json:"vote_count,omitempty"`
	Popularity          *float64      `json:"popularity,omitempty"`
}

// Validate checks required fields and numeric bounds, returning a
// ValidationError describing every offending field.
func (c *CreateMovieCommand) Validate() error {
	v := NewValidator()
	v.Check(strings.TrimSpace(c.Title) != "", "title", "must not be empty")
	if c.ReleaseDate != nil && *c.ReleaseDate != "" {
		if _, err := time.Parse("2006-01-02", *c.ReleaseDate); err != nil {
			v.Check(false, "release_date", "must be a date in YYYY-MM-DD format")
		}
	}
	if c.Runtime != nil {
		v.Check(*c.Runtime >= 0, "runtime", "must not be negative")
	}
	if c.VoteAverage != nil {
		v.Check(*c.VoteAverage >= 0 && *c.VoteAverage <= 10, "vote_average", "must be between 0 and 10")
	}
	if c.VoteCount != nil {
		v.Check(*c.VoteCount >= 0, "vote_count", "must not be negative")
	}
	if c.Popularity != nil {
		v.Check(*c.Popularity >= 0, "popularity", "must not be negative")
	}
	return v.Err()
}

// Movie builds the record the command describes. The ID is left for the
// store to assign.
func (c *CreateMovieCommand) Movie() *Movie {
	return &Movie{
		Title:               strings.TrimSpace(c.Title),
		Overview:            c.Overview,
		Tagline:             c.Tagline,
		Genres:              emptyIfNilGenres(c.Genres),
		Keywords:            emptyIfNilKeywords(c.Keywords),
		Cast:                emptyIfNilCast(c.Cast),
		Crew:                emptyIfNilCrew(c.Crew),
		ProductionCompanies: emptyIfNilCompanies(c.ProductionCompanies),
		ProductionCountries: emptyIfNilCountries(c.ProductionCountries),
		SpokenLanguages:     emptyIfNilLanguages(c.SpokenLanguages),
		OriginalLanguage:    c.OriginalLanguage,
		OriginalTitle:       c.OriginalTitle,
		ReleaseDate:         cloneStringPtr(c.ReleaseDate),
		Runtime:             cloneIntPtr(c.Runtime),
		VoteAverage:         cloneFloatPtr(c.VoteAverage),
		VoteCount:           cloneIntPtr(c.VoteCount),
		Popularity:          cloneFloatPtr(c.Popularity),
	}
}

// UpdateMovieCommand is a partial patch: only non-nil fields are applied.
type UpdateMovieCommand struct {
	Title          *string `json:"title,omitempty"`
	Overview       *string `json:"overview,omitempty"`
	IsFavorite     *bool   `json:"is_favorite,omitempty"`
	PersonalRating *int    `json:"personal_rating,omitempty"`
	PersonalNotes  *string `json:"personal_notes,omitempty"`
}

// Validate checks the supplied patch fields.
func (c *UpdateMovieCommand) Validate() error {
	v := NewValidator()
	if c.Title != nil {
		v.Check(strings.TrimSpace(*c.Title) != "", "title", "must not be empty")
	}
	if c.PersonalRating != nil {
		v.Check(*c.PersonalRating >= 1 && *c.PersonalRating <= 10, "personal_rating", "must be between 1 and 10")
	}
	return v.Err()
}

// Apply merges the non-nil patch fields into the movie.
func (c *UpdateMovieCommand) Apply(m *Movie) {
	if c.Title != nil {
		m.Title = strings.TrimSpace(*c.Title)
	}
	if c.Overview != nil {
		m.Overview = *c.Overview
	}
	if c.IsFavorite != nil {
		m.IsFavorite = *c.IsFavorite
	}
	if c.PersonalRating != nil {
		v := *c.PersonalRating
		m.PersonalRating = &v
	}
	if c.PersonalNotes != nil {
		v := *c.PersonalNotes
		m.PersonalNotes = &v
	}
}

// ValidationError reports field-level validation failures.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator collects field-level failures during input checking.
type Validator struct {
	fields map[string]string
}

// NewValidator returns an empty validator.
func NewValidator() *Validator {
	return &Validator{fields: make(map[string]string)}
}

// Check records message under field when ok is false. The first message for
// a field wins.
func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

// Err returns a ValidationError when any check failed, nil otherwise.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func emptyIfNilGenres(s []GenreRef) []GenreRef {
	if s == nil {
		return []GenreRef{}
	}
	return s
}

func emptyIfNilKeywords(s []KeywordRef) []KeywordRef {
	if s == nil {
		return []KeywordRef{}
	}
	return s
}

func emptyIfNilCast(s []CastMember) []CastMember {
	if s == nil {
		return []CastMember{}
	}
	return s
}

func emptyIfNilCrew(s []CrewMember) []CrewMember {
	if s == nil {
		return []CrewMember{}
	}
	return s
}

func emptyIfNilCompanies(s []CompanyRef) []CompanyRef {
	if s == nil {
		return []CompanyRef{}
	}
	return s
}

func emptyIfNilCountries(s []CountryRef) []CountryRef {
	if s == nil {
		return []CountryRef{}
	}
	return s
}

func emptyIfNilLanguages(s []LanguageRef) []LanguageRef {
	if s == nil {
		return []LanguageRef{}
	}
	return s
}
