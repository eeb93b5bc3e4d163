// Package services provides the HTTP client for the catalog API.
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Vaaraprasad44/movies2/models"
	"github.com/Vaaraprasad44/movies2/state"
)

// ErrNotFound matches API errors for identifiers the server does not know.
var ErrNotFound = errors.New("not found")

// TransportError wraps network-level failures: the server was unreachable
// or the connection broke before a response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the catalog API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog API returned status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// CatalogService talks to the catalog API server.
type CatalogService struct {
	baseURL string
	client  *http.Client
}

// NewCatalogService creates a client for the API at baseURL.
func NewCatalogService(baseURL string) *CatalogService {
	return &CatalogService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// List fetches one page of movies matching the filters.
func (c *CatalogService) List(f models.Filters) (*models.PaginatedMovies, error) {
	url := c.baseURL + "/api/movies"
	if query := state.EncodeQuery(f).Encode(); query != "" {
		url += "?" + query
	}

	var page models.PaginatedMovies
	if err := c.do(http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one movie by ID.
func (c *CatalogService) Get(id int) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(http.MethodGet, fmt.Sprintf("%s/api/movies/%d", c.baseURL, id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Create adds a new movie and returns its assigned identifier.
func (c *CatalogService) Create(cmd *models.CreateMovieCommand) (int, error) {
	var id int
	if err := c.do(http.MethodPost, c.baseURL+"/api/movies", cmd, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies a partial patch and returns the updated movie.
func (c *CatalogService) Update(id int, cmd *models.UpdateMovieCommand) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(http.MethodPut, fmt.Sprintf("%s/api/movies/%d", c.baseURL, id), cmd, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Delete removes a movie.
func (c *CatalogService) Delete(id int) error {
	return c.do(http.MethodDelete, fmt.Sprintf("%s/api/movies/%d", c.baseURL, id), nil, nil)
}

// ToggleFavorite flips the server-side favorite flag and returns the new
// value.
func (c *CatalogService) ToggleFavorite(id int) (bool, error) {
	var resp struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := c.do(http.MethodPost, fmt.Sprintf("%s/api/movies/%d/favorite", c.baseURL, id), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorite, nil
}

// Rate sets the personal rating (and optionally notes) on a movie.
func (c *CatalogService) Rate(id int, rating int, notes *string) (*models.Movie, error) {
	cmd := models.UpdateMovieCommand{PersonalRating: &rating, PersonalNotes: notes}
	var movie models.Movie
	if err := c.do(http.MethodPost, fmt.Sprintf("%s/api/movies/%d/rating", c.baseURL, id), &cmd, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Stats fetches catalog-wide statistics.
func (c *CatalogService) Stats() (*models.LibraryStats, error) {
	var stats models.LibraryStats
	if err := c.do(http.MethodGet, c.baseURL+"/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *CatalogService) do(method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
			apiErr.Fields = errBody.Fields
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
