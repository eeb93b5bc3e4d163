package models

// Pagination defaults and limits shared by the server and the client.
const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// SortKey selects the field a query is ordered by. The empty key means the
// default ordering: favorites first, then title.
type SortKey string

const (
	SortDefault    SortKey = ""
	SortTitle      SortKey = "title"
	SortYear       SortKey = "year"
	SortRating     SortKey = "rating"
	SortPopularity SortKey = "popularity"
)

// Valid reports whether the key is one the query engine understands.
func (k SortKey) Valid() bool {
	switch k {
	case SortDefault, SortTitle, SortYear, SortRating, SortPopularity:
		return true
	}
	return false
}

// SortDirection is the ordering direction for a sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Filters is the full set of search, filter, sort and page parameters for
// one query. Nil pointer fields are unconstrained; range bounds are
// inclusive.
type Filters struct {
	Search             string
	Genres             []string
	YearFrom           *int
	YearTo             *int
	RatingFrom         *float64
	RatingTo           *float64
	RuntimeFrom        *int
	RuntimeTo          *int
	Language           string
	IsFavorite         *bool
	PersonalRatingFrom *float64
	PersonalRatingTo   *float64
	Sort               SortKey
	Direction          SortDirection
	Page               int
	Size               int
}

// NewFilters returns filters with default pagination and no constraints.
func NewFilters() Filters {
	return Filters{Page: DefaultPage, Size: DefaultSize, Direction: SortAsc}
}

// PaginatedMovies is one page of query results.
type PaginatedMovies struct {
	Items []*Movie `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
	Pages int      `json:"pages"`
}

// GenreCount pairs a genre name with the number of movies carrying it.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DecadeCount pairs a decade (e.g. 1990) with the number of movies
// released in it.
type DecadeCount struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// LibraryStats summarizes the catalog for the statistics endpoint.
type LibraryStats struct {
	TotalMovies        int           `json:"total_movies"`
	FavoritesCount     int           `json:"favorites_count"`
	RatedCount         int           `json:"rated_count"`
	TopGenres          []GenreCount  `json:"top_genres"`
	DecadeDistribution []DecadeCount `json:"decade_distribution"`
}
