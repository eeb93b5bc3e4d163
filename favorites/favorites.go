// Package favorites keeps the client-local favorites overlay: a set of
// movie IDs plus cached copies of the records, persisted outside the server
// round-trip. The overlay is independent of the server-side favorite flag
// and the two may diverge.
package favorites

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/Vaaraprasad44/movies2/database"
	"github.com/Vaaraprasad44/movies2/models"
)

const stateKey = "favorites"

// document is the persisted shape of the overlay.
type document struct {
	FavoriteIDs    []int                    `json:"favoriteIds"`
	FavoriteMovies map[string]*models.Movie `json:"favoriteMovies"`
}

// Overlay is the in-memory favorites set backed by the local store. Every
// mutation is written through immediately.
type Overlay struct {
	mu     sync.RWMutex
	db     *database.DB
	ids    map[int]struct{}
	movies map[int]*models.Movie
}

// NewOverlay loads the persisted overlay from the local store.
func NewOverlay(db *database.DB) (*Overlay, error) {
	o := &Overlay{
		db:     db,
		ids:    make(map[int]struct{}),
		movies: make(map[int]*models.Movie),
	}
	if err := o.Hydrate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Hydrate replaces the in-memory overlay with the persisted state. It runs
// at startup and whenever the backing store changes underneath us.
func (o *Overlay) Hydrate() error {
	raw, ok, err := o.db.Get(stateKey)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	ids := make(map[int]struct{})
	movies := make(map[int]*models.Movie)
	if ok {
		var doc document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return fmt.Errorf("failed to decode favorites: %w", err)
		}
		for _, id := range doc.FavoriteIDs {
			ids[id] = struct{}{}
		}
		for key, movie := range doc.FavoriteMovies {
			id, err := strconv.Atoi(key)
			if err != nil || movie == nil {
				continue
			}
			movies[id] = movie
		}
	}

	o.mu.Lock()
	o.ids = ids
	o.movies = movies
	o.mu.Unlock()
	return nil
}

// Add puts the movie into the overlay and persists it.
func (o *Overlay) Add(m *models.Movie) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ids[m.ID] = struct{}{}
	o.movies[m.ID] = m.Clone()
	return o.persistLocked()
}

// Remove drops the movie from the overlay and persists the change. Removing
// an absent ID is a no-op.
func (o *Overlay) Remove(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.ids[id]; !ok {
		return nil
	}
	delete(o.ids, id)
	delete(o.movies, id)
	return o.persistLocked()
}

// Has reports whether the movie ID is in the overlay.
func (o *Overlay) Has(id int) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.ids[id]
	return ok
}

// IDs returns the favorite IDs in ascending order.
func (o *Overlay) IDs() []int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := make([]int, 0, len(o.ids))
	for id := range o.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Movie returns the cached copy of a favorited record, if present.
func (o *Overlay) Movie(id int) (*models.Movie, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m, ok := o.movies[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// Count returns the number of favorites.
func (o *Overlay) Count() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.ids)
}

func (o *Overlay) persistLocked() error {
	doc := document{
		FavoriteIDs:    make([]int, 0, len(o.ids)),
		FavoriteMovies: make(map[string]*models.Movie, len(o.movies)),
	}
	for id := range o.ids {
		doc.FavoriteIDs = append(doc.FavoriteIDs, id)
	}
	sort.Ints(doc.FavoriteIDs)
	for id, m := range o.movies {
		doc.FavoriteMovies[strconv.Itoa(id)] = m
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := o.db.Set(stateKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}
