// Package state keeps the client's filter selection consistent with its
// shareable URL representation.
package state

import (
	"net/url"
	"strconv"

	"github.com/Vaaraprasad44/movies2/models"
)

// ParseQuery decodes filters from a URL query string. Missing parameters
// take their defaults; malformed values are reported as a ValidationError
// naming the parameter. Both the client and the server handler decode
// requests through this function so the wire format cannot drift.
func ParseQuery(values url.Values) (models.Filters, error) {
	f := models.NewFilters()
	v := models.NewValidator()

	f.Search = values.Get("search")
	f.Genres = values["genres"]
	f.Language = values.Get("language")

	f.YearFrom = parseIntParam(values, "year_from", v)
	f.YearTo = parseIntParam(values, "year_to", v)
	f.RatingFrom = parseFloatParam(values, "rating_from", v)
	f.RatingTo = parseFloatParam(values, "rating_to", v)
	f.RuntimeFrom = parseIntParam(values, "runtime_from", v)
	f.RuntimeTo = parseIntParam(values, "runtime_to", v)
	f.PersonalRatingFrom = parseFloatParam(values, "personal_rating_from", v)
	f.PersonalRatingTo = parseFloatParam(values, "personal_rating_to", v)

	if raw := values.Get("is_favorite"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			v.Check(false, "is_favorite", "must be a boolean")
		} else {
			f.IsFavorite = &b
		}
	}

	if raw := values.Get("sort"); raw != "" {
		key := models.SortKey(raw)
		if !key.Valid() {
			v.Check(false, "sort", "must be one of title, year, rating, popularity")
		} else {
			f.Sort = key
		}
	}
	if raw := values.Get("order"); raw != "" {
		switch models.SortDirection(raw) {
		case models.SortAsc, models.SortDesc:
			f.Direction = models.SortDirection(raw)
		default:
			v.Check(false, "order", "must be asc or desc")
		}
	}

	if p := parseIntParam(values, "page", v); p != nil {
		f.Page = *p
	}
	if s := parseIntParam(values, "size", v); s != nil {
		f.Size = *s
	}

	if err := v.Err(); err != nil {
		return models.Filters{}, err
	}
	return f, nil
}

// EncodeQuery serializes filters to URL parameters, omitting defaults so
// URLs stay minimal and round-trip stably.
func EncodeQuery(f models.Filters) url.Values {
	values := url.Values{}

	if f.Search != "" {
		values.Set("search", f.Search)
	}
	for _, g := range f.Genres {
		values.Add("genres", g)
	}
	encodeIntParam(values, "year_from", f.YearFrom)
	encodeIntParam(values, "year_to", f.YearTo)
	encodeFloatParam(values, "rating_from", f.RatingFrom)
	encodeFloatParam(values, "rating_to", f.RatingTo)
	encodeIntParam(values, "runtime_from", f.RuntimeFrom)
	encodeIntParam(values, "runtime_to", f.RuntimeTo)
	if f.Language != "" {
		values.Set("language", f.Language)
	}
	if f.IsFavorite != nil {
		values.Set("is_favorite", strconv.FormatBool(*f.IsFavorite))
	}
	encodeFloatParam(values, "personal_rating_from", f.PersonalRatingFrom)
	encodeFloatParam(values, "personal_rating_to", f.PersonalRatingTo)

	if f.Sort != models.SortDefault {
		values.Set("sort", string(f.Sort))
	}
	if f.Direction == models.SortDesc {
		values.Set("order", string(models.SortDesc))
	}
	if f.Page != models.DefaultPage {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Size != models.DefaultSize {
		values.Set("size", strconv.Itoa(f.Size))
	}

	return values
}

func parseIntParam(values url.Values, name string, v *models.Validator) *int {
	raw := values.Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Check(false, name, "must be an integer")
		return nil
	}
	return &n
}

func parseFloatParam(values url.Values, name string, v *models.Validator) *float64 {
	raw := values.Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.Check(false, name, "must be a number")
		return nil
	}
	return &n
}

func encodeIntParam(values url.Values, name string, p *int) {
	if p != nil {
		values.Set(name, strconv.Itoa(*p))
	}
}

func encodeFloatParam(values url.Values, name string, p *float64) {
	if p != nil {
		values.Set(name, strconv.FormatFloat(*p, 'f', -1, 64))
	}
}
