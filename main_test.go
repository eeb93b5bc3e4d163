package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Vaaraprasad44/movies2/models"
	"github.com/Vaaraprasad44/movies2/optimistic"
	"github.com/Vaaraprasad44/movies2/services"
	"github.com/Vaaraprasad44/movies2/store"
)

func setupTestApp() *App {
	return &App{store: store.New()}
}

func seedTestMovie(t *testing.T, app *App, title string) int {
	t.Helper()
	id, err := app.store.Create(&models.CreateMovieCommand{Title: title})
	require.NoError(t, err)
	return id
}

func doRequest(app *App, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	app.router().ServeHTTP(rr, req)
	return rr
}

func TestListMoviesHandler_EmptyCatalog(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "GET", "/api/movies", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var page models.PaginatedMovies
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Size)
}

func TestListMoviesHandler_Pagination(t *testing.T) {
	app := setupTestApp()
	for i := 1; i <= 45; i++ {
		seedTestMovie(t, app, fmt.Sprintf("Movie %03d", i))
	}

	rr := doRequest(app, "GET", "/api/movies?page=3&size=20", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var page models.PaginatedMovies
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Items, 5)
}

func TestListMoviesHandler_InvalidSize(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "GET", "/api/movies?size=500", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(app, "GET", "/api/movies?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListMoviesHandler_YearFilter(t *testing.T) {
	app := setupTestApp()
	for _, date := range []string{"1990-01-01", "2005-01-01", "2020-01-01"} {
		d := date
		_, err := app.store.Create(&models.CreateMovieCommand{Title: "Year " + d[:4], ReleaseDate: &d})
		require.NoError(t, err)
	}

	rr := doRequest(app, "GET", "/api/movies?year_from=2000", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var page models.PaginatedMovies
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	for _, m := range page.Items {
		year, ok := m.ReleaseYear()
		require.True(t, ok)
		assert.GreaterOrEqual(t, year, 2000)
	}
}

func TestSearchMoviesHandler(t *testing.T) {
	app := setupTestApp()
	seedTestMovie(t, app, "Avatar")
	seedTestMovie(t, app, "Titanic")

	rr := doRequest(app, "GET", "/api/movies/search?q=avatar", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var page models.PaginatedMovies
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Avatar", page.Items[0].Title)
}

func TestSearchMoviesHandler_MissingQuery(t *testing.T) {
	app := setupTestApp()
	seedTestMovie(t, app, "Avatar")

	rr := doRequest(app, "GET", "/api/movies/search", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "q")
}

func TestFavoriteMoviesHandler(t *testing.T) {
	app := setupTestApp()
	id1 := seedTestMovie(t, app, "Favorite")
	seedTestMovie(t, app, "Regular")

	fav := true
	_, err := app.store.Update(id1, &models.UpdateMovieCommand{IsFavorite: &fav})
	require.NoError(t, err)

	rr := doRequest(app, "GET", "/api/movies/favorites", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var page models.PaginatedMovies
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Favorite", page.Items[0].Title)
}

func TestGetMovieHandler(t *testing.T) {
	app := setupTestApp()
	id := seedTestMovie(t, app, "Test Movie")

	rr := doRequest(app, "GET", fmt.Sprintf("/api/movies/%d", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var movie models.Movie
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &movie))
	assert.Equal(t, id, movie.ID)
	assert.Equal(t, "Test Movie", movie.Title)
}

func TestGetMovieHandler_NotFound(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "GET", "/api/movies/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateMovieHandler(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "POST", "/api/movies", models.CreateMovieCommand{Title: "Created"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var id int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &id))
	assert.Equal(t, 1, id)

	movie, err := app.store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Created", movie.Title)
	assert.False(t, movie.IsFavorite)
}

func TestCreateMovieHandler_ValidationError(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "POST", "/api/movies", models.CreateMovieCommand{Title: "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "title")
}

func TestUpdateMovieHandler(t *testing.T) {
	app := setupTestApp()
	id := seedTestMovie(t, app, "Before")

	title := "After"
	fav := true
	rr := doRequest(app, "PUT", fmt.Sprintf("/api/movies/%d", id), models.UpdateMovieCommand{
		Title:      &title,
		IsFavorite: &fav,
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var movie models.Movie
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &movie))
	assert.Equal(t, "After", movie.Title)
	assert.True(t, movie.IsFavorite)
}

func TestUpdateMovieHandler_NotFound(t *testing.T) {
	app := setupTestApp()

	title := "Ghost"
	rr := doRequest(app, "PUT", "/api/movies/404", models.UpdateMovieCommand{Title: &title})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteMovieHandler_CreateThenDelete(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "POST", "/api/movies", models.CreateMovieCommand{Title: "Test"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var id int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &id))

	rr = doRequest(app, "DELETE", fmt.Sprintf("/api/movies/%d", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(app, "GET", fmt.Sprintf("/api/movies/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteMovieHandler_NotFound(t *testing.T) {
	app := setupTestApp()

	rr := doRequest(app, "DELETE", "/api/movies/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestToggleFavoriteHandler(t *testing.T) {
	app := setupTestApp()
	id := seedTestMovie(t, app, "Test")

	rr := doRequest(app, "POST", fmt.Sprintf("/api/movies/%d/favorite", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body["is_favorite"])

	rr = doRequest(app, "POST", fmt.Sprintf("/api/movies/%d/favorite", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body["is_favorite"])
}

func TestRateMovieHandler(t *testing.T) {
	app := setupTestApp()
	id := seedTestMovie(t, app, "Test")

	rr := doRequest(app, "POST", fmt.Sprintf("/api/movies/%d/rating", id), map[string]interface{}{
		"personal_rating": 9,
		"personal_notes":  "Great movie!",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var movie models.Movie
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &movie))
	require.NotNil(t, movie.PersonalRating)
	assert.Equal(t, 9, *movie.PersonalRating)
	require.NotNil(t, movie.PersonalNotes)
	assert.Equal(t, "Great movie!", *movie.PersonalNotes)
}

func TestRateMovieHandler_OutOfBounds(t *testing.T) {
	app := setupTestApp()
	id := seedTestMovie(t, app, "Test")

	rr := doRequest(app, "POST", fmt.Sprintf("/api/movies/%d/rating", id), map[string]interface{}{
		"personal_rating": 11,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatsHandler(t *testing.T) {
	app := setupTestApp()
	releaseDate := "2020-01-01"
	_, err := app.store.Create(&models.CreateMovieCommand{
		Title:       "Stat Movie",
		Genres:      []models.GenreRef{{ID: 28, Name: "Action"}},
		ReleaseDate: &releaseDate,
	})
	require.NoError(t, err)

	rr := doRequest(app, "GET", "/api/stats", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var stats models.LibraryStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalMovies)
	require.Len(t, stats.TopGenres, 1)
	assert.Equal(t, "Action", stats.TopGenres[0].Name)
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(healthHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	app := setupTestApp()
	router := app.router()
	router.Use(corsMiddleware)

	req := httptest.NewRequest("GET", "/api/movies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := newRateLimiter(rate.Limit(1), 1)
	defer rl.Stop()

	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/movies", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// A different client has its own bucket.
	other := httptest.NewRequest("GET", "/api/movies", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := newRateLimiter(rate.Limit(1), 1)
	rl.Stop()
	rl.Stop()
}

// End-to-end: the client toggles a favorite optimistically, the server
// rejects it, and the visible flag reverts to its pre-toggle value.
func TestOptimisticToggle_RollbackOnServerFailure(t *testing.T) {
	app := setupTestApp()
	for i := 1; i <= 5; i++ {
		seedTestMovie(t, app, fmt.Sprintf("Movie %d", i))
	}

	server := httptest.NewServer(app.router())
	defer server.Close()

	svc := services.NewCatalogService(server.URL)
	page, err := svc.List(models.NewFilters())
	require.NoError(t, err)

	view := optimistic.NewView(nil)
	view.Load(page.Items)

	// The record vanishes server-side before the toggle lands.
	require.NoError(t, app.store.Delete(5))

	fav := true
	mut, err := view.ApplyPatch(5, &models.UpdateMovieCommand{IsFavorite: &fav})
	require.NoError(t, err)

	visible, ok := view.Get(5)
	require.True(t, ok)
	assert.True(t, visible.IsFavorite)

	_, err = svc.ToggleFavorite(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	require.NoError(t, mut.Rollback())

	visible, ok = view.Get(5)
	require.True(t, ok)
	assert.False(t, visible.IsFavorite, "favorite flag must equal its pre-toggle value")
}

// End-to-end: a successful toggle commits the authoritative server copy.
func TestOptimisticToggle_CommitOnServerSuccess(t *testing.T) {
	app := setupTestApp()
	id := seedTestMovie(t, app, "Keeper")

	server := httptest.NewServer(app.router())
	defer server.Close()

	svc := services.NewCatalogService(server.URL)
	view := optimistic.NewView(nil)
	movie, err := svc.Get(id)
	require.NoError(t, err)
	view.Put(movie)

	fav := true
	mut, err := view.ApplyPatch(id, &models.UpdateMovieCommand{IsFavorite: &fav})
	require.NoError(t, err)

	toggled, err := svc.ToggleFavorite(id)
	require.NoError(t, err)
	assert.True(t, toggled)

	authoritative, err := svc.Get(id)
	require.NoError(t, err)
	require.NoError(t, mut.Commit(authoritative))

	visible, ok := view.Get(id)
	require.True(t, ok)
	assert.True(t, visible.IsFavorite)
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
