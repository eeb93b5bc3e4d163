package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaaraprasad44/movies2/models"
)

func TestCatalogService_List(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		page := models.PaginatedMovies{
			Items: []*models.Movie{{ID: 1, Title: "Test"}},
			Total: 1, Page: 1, Size: 20, Pages: 1,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	svc := NewCatalogService(server.URL)
	f := models.NewFilters()
	f.Search = "test"

	page, err := svc.List(f)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Test", page.Items[0].Title)
	assert.Equal(t, "search=test", gotQuery)
}

func TestCatalogService_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error": "Movie not found"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	svc := NewCatalogService(server.URL)
	_, err := svc.Get(999)

	assert.True(t, errors.Is(err, ErrNotFound))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Movie not found", apiErr.Message)
}

func TestCatalogService_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var cmd models.CreateMovieCommand
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
		assert.Equal(t, "New Movie", cmd.Title)

		w.WriteHeader(http.StatusCreated)
		_, err := w.Write([]byte("42"))
		require.NoError(t, err)
	}))
	defer server.Close()

	svc := NewCatalogService(server.URL)
	id, err := svc.Create(&models.CreateMovieCommand{Title: "New Movie"})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestCatalogService_ValidationErrorFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte(`{"error": "validation failed", "fields": {"title": "must not be empty"}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	svc := NewCatalogService(server.URL)
	_, err := svc.Create(&models.CreateMovieCommand{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "must not be empty", apiErr.Fields["title"])
}

func TestCatalogService_ToggleFavorite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies/5/favorite", r.URL.Path)
		_, err := w.Write([]byte(`{"is_favorite": true}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	svc := NewCatalogService(server.URL)
	fav, err := svc.ToggleFavorite(5)
	require.NoError(t, err)
	assert.True(t, fav)
}

func TestCatalogService_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // Unreachable from here on.

	svc := NewCatalogService(server.URL)
	_, err := svc.Get(1)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}
