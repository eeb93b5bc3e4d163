// Package main provides the main entry point for the movie catalog server.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/Vaaraprasad44/movies2/config"
	"github.com/Vaaraprasad44/movies2/models"
	"github.com/Vaaraprasad44/movies2/query"
	"github.com/Vaaraprasad44/movies2/state"
	"github.com/Vaaraprasad44/movies2/store"
)

// App represents the application with its dependencies
type App struct {
	store *store.Store
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	configPath := os.Getenv("CATALOG_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Ingest the source dataset. The store is in-memory; edits made through
	// the API are never written back to the file.
	movieStore := store.New()
	if _, err := movieStore.LoadCSV(cfg.Dataset.Path); err != nil {
		log.Printf("Warning: could not load dataset: %v", err)
		log.Println("Starting with an empty catalog")
	}

	app := &App{store: movieStore}

	limiter := newRateLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)
	defer limiter.Stop()

	r := app.router()
	r.Use(corsMiddleware)
	r.Use(limiter.middleware)

	log.Printf("Server starting on %s", cfg.Server.Addr)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

func (app *App) router() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Movie endpoints
	api.HandleFunc("/movies", app.listMoviesHandler).Methods("GET")
	api.HandleFunc("/movies/search", app.searchMoviesHandler).Methods("GET")
	api.HandleFunc("/movies/favorites", app.favoriteMoviesHandler).Methods("GET")
	api.HandleFunc("/movies/{id:[0-9]+}", app.getMovieHandler).Methods("GET")
	api.HandleFunc("/movies", app.createMovieHandler).Methods("POST")
	api.HandleFunc("/movies/{id:[0-9]+}", app.updateMovieHandler).Methods("PUT")
	api.HandleFunc("/movies/{id:[0-9]+}", app.deleteMovieHandler).Methods("DELETE")
	api.HandleFunc("/movies/{id:[0-9]+}/favorite", app.toggleFavoriteHandler).Methods("POST")
	api.HandleFunc("/movies/{id:[0-9]+}/rating", app.rateMovieHandler).Methods("POST")

	// Statistics endpoint
	api.HandleFunc("/stats", app.statsHandler).Methods("GET")

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (app *App) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := state.ParseQuery(r.URL.Query())
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.runQuery(w, filters)
}

func (app *App) searchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := state.ParseQuery(r.URL.Query())
	if err != nil {
		app.writeError(w, err)
		return
	}
	q := r.URL.Query().Get("q")
	v := models.NewValidator()
	v.Check(q != "", "q", "must be provided")
	if err := v.Err(); err != nil {
		app.writeError(w, err)
		return
	}
	filters.Search = q
	app.runQuery(w, filters)
}

func (app *App) favoriteMoviesHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := state.ParseQuery(r.URL.Query())
	if err != nil {
		app.writeError(w, err)
		return
	}
	favorite := true
	filters.IsFavorite = &favorite
	app.runQuery(w, filters)
}

func (app *App) runQuery(w http.ResponseWriter, filters models.Filters) {
	page, err := query.Search(app.store, filters)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, page)
}

func (app *App) getMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r)
	if !ok {
		return
	}
	movie, err := app.store.GetByID(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, movie)
}

func (app *App) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	var cmd models.CreateMovieCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id, err := app.store.Create(&cmd)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, id)
}

func (app *App) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r)
	if !ok {
		return
	}
	var cmd models.UpdateMovieCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	movie, err := app.store.Update(id, &cmd)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, movie)
}

func (app *App) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r)
	if !ok {
		return
	}
	if err := app.store.Delete(id); err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Movie deleted successfully",
		"movie_id": id,
	})
}

// toggleFavoriteHandler flips the server-side favorite flag. Modeled as a
// specialized partial update carrying only is_favorite.
func (app *App) toggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r)
	if !ok {
		return
	}
	movie, err := app.store.GetByID(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	toggled := !movie.IsFavorite
	if _, err := app.store.Update(id, &models.UpdateMovieCommand{IsFavorite: &toggled}); err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]bool{"is_favorite": toggled})
}

// rateMovieHandler sets the personal rating and notes. Modeled as a
// specialized partial update.
func (app *App) rateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		PersonalRating *int    `json:"personal_rating"`
		PersonalNotes  *string `json:"personal_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd := models.UpdateMovieCommand{
		PersonalRating: body.PersonalRating,
		PersonalNotes:  body.PersonalNotes,
	}
	movie, err := app.store.Update(id, &cmd)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, movie)
}

func (app *App) statsHandler(w http.ResponseWriter, _ *http.Request) {
	app.writeJSON(w, http.StatusOK, query.Stats(app.store))
}

func (app *App) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid movie ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (app *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy to HTTP statuses: validation and
// invalid arguments are 400 with detail, unknown identifiers are 404,
// anything else is a 500.
func (app *App) writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		app.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, query.ErrInvalidArgument):
		app.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		app.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Movie not found"})
	default:
		log.Printf("Internal error: %v", err)
		app.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

// corsMiddleware allows browser clients from any origin, mirroring the API
// the frontends were built against.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimiter keeps one token bucket per client IP and evicts buckets that
// have been idle for a few minutes.
type rateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	stopChan chan struct{}
	stopOnce sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(limit rate.Limit, burst int) *rateLimiter {
	rl := &rateLimiter{
		clients:  make(map[string]*clientLimiter),
		limit:    limit,
		burst:    burst,
		stopChan: make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Stop ends the background cleanup loop. Safe to call more than once.
func (rl *rateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		rl.mu.Lock()
		c, ok := rl.clients[ip]
		if !ok {
			c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
			rl.clients[ip] = c
		}
		c.lastSeen = time.Now()
		allowed := c.limiter.Allow()
		rl.mu.Unlock()

		if !allowed {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.lastSeen) > 3*time.Minute {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}
