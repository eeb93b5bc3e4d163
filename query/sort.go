package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Vaaraprasad44/movies2/models"
)

// newCollator compares titles with locale-aware, case-insensitive rules so
// accented titles interleave with their plain counterparts. A Collator is
// not safe for concurrent use, so each sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Loose)
}

// sortMovies orders the slice in place by the requested key. Records
// missing the sort field take the lowest value. The default ordering places
// favorites first, then collated title, so an unsorted query is still
// deterministic.
func sortMovies(movies []*models.Movie, key models.SortKey, dir models.SortDirection) {
	desc := dir == models.SortDesc
	collator := newCollator()

	var less func(a, b *models.Movie) bool
	switch key {
	case models.SortTitle:
		less = func(a, b *models.Movie) bool {
			return collator.CompareString(a.Title, b.Title) < 0
		}
	case models.SortYear:
		less = func(a, b *models.Movie) bool {
			return yearOrZero(a) < yearOrZero(b)
		}
	case models.SortRating:
		less = func(a, b *models.Movie) bool {
			return floatOrZero(a.VoteAverage) < floatOrZero(b.VoteAverage)
		}
	case models.SortPopularity:
		less = func(a, b *models.Movie) bool {
			return floatOrZero(a.Popularity) < floatOrZero(b.Popularity)
		}
	default:
		sort.SliceStable(movies, func(i, j int) bool {
			a, b := movies[i], movies[j]
			if a.IsFavorite != b.IsFavorite {
				return a.IsFavorite
			}
			return collator.CompareString(a.Title, b.Title) < 0
		})
		return
	}

	sort.SliceStable(movies, func(i, j int) bool {
		if desc {
			return less(movies[j], movies[i])
		}
		return less(movies[i], movies[j])
	})
}

func yearOrZero(m *models.Movie) int {
	year, ok := m.ReleaseYear()
	if !ok {
		return 0
	}
	return year
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
