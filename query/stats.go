package query

import (
	"sort"

	"github.com/Vaaraprasad44/movies2/models"
	"github.com/Vaaraprasad44/movies2/store"
)

const topGenreLimit = 10

// Stats aggregates catalog-wide counts for the statistics endpoint.
func Stats(s *store.Store) *models.LibraryStats {
	movies := s.All()

	stats := &models.LibraryStats{
		TotalMovies:        len(movies),
		TopGenres:          []models.GenreCount{},
		DecadeDistribution: []models.DecadeCount{},
	}

	genreCounts := make(map[string]int)
	decadeCounts := make(map[int]int)
	for _, m := range movies {
		if m.IsFavorite {
			stats.FavoritesCount++
		}
		if m.PersonalRating != nil {
			stats.RatedCount++
		}
		for _, g := range m.Genres {
			name := g.Name
			if name == "" {
				name = "Unknown"
			}
			genreCounts[name]++
		}
		if year, ok := m.ReleaseYear(); ok {
			decadeCounts[(year/10)*10]++
		}
	}

	for name, count := range genreCounts {
		stats.TopGenres = append(stats.TopGenres, models.GenreCount{Name: name, Count: count})
	}
	sort.Slice(stats.TopGenres, func(i, j int) bool {
		a, b := stats.TopGenres[i], stats.TopGenres[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(stats.TopGenres) > topGenreLimit {
		stats.TopGenres = stats.TopGenres[:topGenreLimit]
	}

	for decade, count := range decadeCounts {
		stats.DecadeDistribution = append(stats.DecadeDistribution, models.DecadeCount{Decade: decade, Count: count})
	}
	sort.Slice(stats.DecadeDistribution, func(i, j int) bool {
		return stats.DecadeDistribution[i].Decade < stats.DecadeDistribution[j].Decade
	})

	return stats
}
