package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Vaaraprasad44/movies2/models"
)

// LoadCSV populates the store from the source dataset. Rows that cannot be
// parsed are logged and skipped; the dataset is never written back. Returns
// the number of movies loaded.
func (s *Store) LoadCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close dataset file: %v", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return 0, fmt.Errorf("failed to read dataset: %w", err)
	}

	// The upstream export is Latin-1 encoded; fall back to it whenever the
	// bytes are not valid UTF-8.
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return 0, fmt.Errorf("failed to decode dataset as latin-1: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read dataset header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	loaded, skipped := 0, 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			log.Printf("Skipping malformed dataset row: %v", err)
			continue
		}

		movie, err := movieFromRow(row, cols, loaded+1)
		if err != nil {
			skipped++
			log.Printf("Skipping dataset row %d: %v", loaded+skipped, err)
			continue
		}
		s.insert(movie)
		loaded++
	}

	if skipped > 0 {
		log.Printf("Loaded %d movies from %s (%d rows skipped)", loaded, path, skipped)
	} else {
		log.Printf("Loaded %d movies from %s", loaded, path)
	}
	return loaded, nil
}

func movieFromRow(row []string, cols map[string]int, id int) (*models.Movie, error) {
	empty := true
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil, fmt.Errorf("row has no data")
	}

	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	title := field("title_y")
	if title == "" {
		title = field("title")
	}
	if title == "" {
		title = "Untitled"
	}

	m := &models.Movie{
		ID:                  id,
		Title:               title,
		Overview:            field("overview"),
		Tagline:             field("tagline"),
		OriginalLanguage:    field("original_language"),
		OriginalTitle:       field("original_title"),
		ReleaseDate:         optionalString(field("release_date")),
		Runtime:             parseOptionalInt(field("runtime")),
		VoteAverage:         parseOptionalFloat(field("vote_average")),
		VoteCount:           parseOptionalInt(field("vote_count")),
		Popularity:          parseOptionalFloat(field("popularity")),
		Genres:              []models.GenreRef{},
		Keywords:            []models.KeywordRef{},
		Cast:                []models.CastMember{},
		Crew:                []models.CrewMember{},
		ProductionCompanies: []models.CompanyRef{},
		ProductionCountries: []models.CountryRef{},
		SpokenLanguages:     []models.LanguageRef{},
	}

	parseJSONList(field("genres"), &m.Genres)
	parseJSONList(field("keywords"), &m.Keywords)
	parseJSONList(field("cast"), &m.Cast)
	parseJSONList(field("crew"), &m.Crew)
	parseJSONList(field("production_companies"), &m.ProductionCompanies)
	parseJSONList(field("production_countries"), &m.ProductionCountries)
	parseJSONList(field("spoken_languages"), &m.SpokenLanguages)

	return m, nil
}

// parseJSONList decodes a nested JSON column. Malformed values are treated
// as empty lists rather than failing the whole row.
func parseJSONList(raw string, dst interface{}) {
	if raw == "" {
		return
	}
	// Some exports double the inner quotes a second time.
	cleaned := strings.ReplaceAll(raw, `""`, `"`)
	if err := json.Unmarshal([]byte(raw), dst); err == nil {
		return
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		// Leave the destination as the empty list.
		return
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
