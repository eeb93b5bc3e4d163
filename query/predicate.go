// Package query implements filtering, sorting and pagination over the
// movie store.
package query

import (
	"strings"

	"github.com/Vaaraprasad44/movies2/models"
)

// Matches reports whether the movie satisfies every constraint in the
// filters. It is a pure function of its arguments.
func Matches(m *models.Movie, f models.Filters) bool {
	if !matchesSearch(m, f.Search) {
		return false
	}
	if !matchesGenres(m, f.Genres) {
		return false
	}
	if f.YearFrom != nil || f.YearTo != nil {
		year, ok := m.ReleaseYear()
		if !ok {
			return false
		}
		if f.YearFrom != nil && year < *f.YearFrom {
			return false
		}
		if f.YearTo != nil && year > *f.YearTo {
			return false
		}
	}
	if !inFloatRange(m.VoteAverage, f.RatingFrom, f.RatingTo) {
		return false
	}
	if !inIntRange(m.Runtime, f.RuntimeFrom, f.RuntimeTo) {
		return false
	}
	if f.Language != "" && !strings.EqualFold(m.OriginalLanguage, f.Language) {
		return false
	}
	if f.IsFavorite != nil && m.IsFavorite != *f.IsFavorite {
		return false
	}
	if f.PersonalRatingFrom != nil || f.PersonalRatingTo != nil {
		if m.PersonalRating == nil {
			return false
		}
		rating := float64(*m.PersonalRating)
		if f.PersonalRatingFrom != nil && rating < *f.PersonalRatingFrom {
			return false
		}
		if f.PersonalRatingTo != nil && rating > *f.PersonalRatingTo {
			return false
		}
	}
	return true
}

// matchesSearch does a case-insensitive substring match against the title,
// overview and flattened cast/crew names. An empty term matches everything.
func matchesSearch(m *models.Movie, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(m.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Overview), needle) {
		return true
	}
	for _, c := range m.Cast {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	for _, c := range m.Crew {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}

// matchesGenres requires a non-empty overlap between the movie's genres and
// the wanted set, not a subset relation.
func matchesGenres(m *models.Movie, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, g := range m.Genres {
		for _, w := range wanted {
			if strings.EqualFold(g.Name, w) {
				return true
			}
		}
	}
	return false
}

// Range checks are inclusive; a movie missing the field does not match when
// either bound is set.
func inFloatRange(value, from, to *float64) bool {
	if from == nil && to == nil {
		return true
	}
	if value == nil {
		return false
	}
	if from != nil && *value < *from {
		return false
	}
	if to != nil && *value > *to {
		return false
	}
	return true
}

func inIntRange(value, from, to *int) bool {
	if from == nil && to == nil {
		return true
	}
	if value == nil {
		return false
	}
	if from != nil && *value < *from {
		return false
	}
	if to != nil && *value > *to {
		return false
	}
	return true
}
