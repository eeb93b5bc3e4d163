package state

import (
	"net/url"
	"sync"

	"github.com/Vaaraprasad44/movies2/models"
)

// FilterState owns the current filter/sort/page selection. The URL is
// parsed inward exactly once, at mount; afterwards every change flows
// outward only, so renders can never re-trigger the initial parse.
type FilterState struct {
	mu          sync.Mutex
	filters     models.Filters
	initialized bool
}

// NewFilterState returns a state holding the default filters, not yet
// initialized from a URL.
func NewFilterState() *FilterState {
	return &FilterState{filters: models.NewFilters()}
}

// Init parses the raw query string into the initial selection. Only the
// first call takes effect; later calls report false and change nothing.
func (s *FilterState) Init(rawQuery string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return false, nil
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false, err
	}
	filters, err := ParseQuery(values)
	if err != nil {
		return false, err
	}
	s.filters = filters
	s.initialized = true
	return true, nil
}

// Filters returns the current selection.
func (s *FilterState) Filters() models.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Query returns the URL query string for the current selection, with
// defaults omitted. Callers replace (not push) browser history with it.
func (s *FilterState) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodeQuery(s.filters).Encode()
}

// SetSearch updates the free-text query and resets to the first page.
func (s *FilterState) SetSearch(term string) {
	s.update(func(f *models.Filters) { f.Search = term })
}

// SetGenres replaces the required genre set and resets to the first page.
func (s *FilterState) SetGenres(genres []string) {
	s.update(func(f *models.Filters) { f.Genres = append([]string(nil), genres...) })
}

// SetYearRange updates the release-year bounds and resets to the first page.
func (s *FilterState) SetYearRange(from, to *int) {
	s.update(func(f *models.Filters) { f.YearFrom, f.YearTo = from, to })
}

// SetRatingRange updates the vote-average bounds and resets to the first page.
func (s *FilterState) SetRatingRange(from, to *float64) {
	s.update(func(f *models.Filters) { f.RatingFrom, f.RatingTo = from, to })
}

// SetRuntimeRange updates the runtime bounds and resets to the first page.
func (s *FilterState) SetRuntimeRange(from, to *int) {
	s.update(func(f *models.Filters) { f.RuntimeFrom, f.RuntimeTo = from, to })
}

// SetLanguage updates the language filter and resets to the first page.
func (s *FilterState) SetLanguage(lang string) {
	s.update(func(f *models.Filters) { f.Language = lang })
}

// SetFavoriteOnly updates the favorites-only flag and resets to the first
// page. Pass nil to clear the constraint.
func (s *FilterState) SetFavoriteOnly(fav *bool) {
	s.update(func(f *models.Filters) { f.IsFavorite = fav })
}

// SetPersonalRatingRange updates the personal-rating bounds and resets to
// the first page.
func (s *FilterState) SetPersonalRatingRange(from, to *float64) {
	s.update(func(f *models.Filters) { f.PersonalRatingFrom, f.PersonalRatingTo = from, to })
}

// SetSort updates the sort key and direction and resets to the first page.
func (s *FilterState) SetSort(key models.SortKey, dir models.SortDirection) {
	s.update(func(f *models.Filters) { f.Sort, f.Direction = key, dir })
}

// SetSize updates the page size and resets to the first page.
func (s *FilterState) SetSize(size int) {
	s.update(func(f *models.Filters) { f.Size = size })
}

// SetPage moves to the given page. Page is the one change that does not
// reset pagination.
func (s *FilterState) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Page = page
}

func (s *FilterState) update(apply func(*models.Filters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.filters)
	s.filters.Page = models.DefaultPage
}
