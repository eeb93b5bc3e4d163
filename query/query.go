package query

import (
	"errors"
	"fmt"

	"github.com/Vaaraprasad44/movies2/models"
	"github.com/Vaaraprasad44/movies2/store"
)

// ErrInvalidArgument is returned for out-of-range pagination parameters;
// the engine reports them instead of silently clamping.
var ErrInvalidArgument = errors.New("invalid argument")

// Search scans the store, keeps the movies matching the filters, sorts the
// survivors and slices out the requested page. The total always counts every
// match, not just the returned page.
func Search(s *store.Store, f models.Filters) (*models.PaginatedMovies, error) {
	if f.Page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d: %w", f.Page, ErrInvalidArgument)
	}
	if f.Size < 1 || f.Size > models.MaxSize {
		return nil, fmt.Errorf("size must be between 1 and %d, got %d: %w", models.MaxSize, f.Size, ErrInvalidArgument)
	}
	if !f.Sort.Valid() {
		return nil, fmt.Errorf("unknown sort key %q: %w", f.Sort, ErrInvalidArgument)
	}

	var matched []*models.Movie
	for _, m := range s.All() {
		if Matches(m, f) {
			matched = append(matched, m)
		}
	}

	total := len(matched)
	sortMovies(matched, f.Sort, f.Direction)

	start := (f.Page - 1) * f.Size
	end := start + f.Size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := matched[start:end]
	if items == nil {
		items = []*models.Movie{}
	}

	return &models.PaginatedMovies{
		Items: items,
		Total: total,
		Page:  f.Page,
		Size:  f.Size,
		Pages: pageCount(total, f.Size),
	}, nil
}

// pageCount is ceil(total/size), with one (empty) page for an empty result.
func pageCount(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
