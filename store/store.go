// Package store holds the in-memory movie table and applies mutations to it.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Vaaraprasad44/movies2/models"
)

// ErrNotFound is returned when a movie ID does not exist in the store.
var ErrNotFound = errors.New("movie not found")

// Store is the in-memory movie table. It is populated once from the source
// dataset at startup; mutations live in process memory only and are never
// written back. Reads may run concurrently, writes are serialized.
type Store struct {
	mu     sync.RWMutex
	movies []*models.Movie
	byID   map[int]*models.Movie
	nextID int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:   make(map[int]*models.Movie),
		nextID: 1,
	}
}

// Len returns the number of movies in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// GetByID returns a copy of the movie with the given ID.
func (s *Store) GetByID(id int) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("movie with id %d: %w", id, ErrNotFound)
	}
	return m.Clone(), nil
}

// All returns a snapshot of every movie in insertion order. The snapshot
// shares record copies with no other caller, so the query engine can sort
// it in place.
func (s *Store) All() []*models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*models.Movie, len(s.movies))
	for i, m := range s.movies {
		snapshot[i] = m.Clone()
	}
	return snapshot
}

// Create validates the command, assigns the next identifier and inserts the
// new movie. Identifiers are monotonic and never reused, even after deletes.
func (s *Store) Create(cmd *models.CreateMovieCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := cmd.Movie()
	m.ID = s.nextID
	s.nextID++
	s.movies = append(s.movies, m)
	s.byID[m.ID] = m
	return m.ID, nil
}

// Update merges the non-nil patch fields into the stored movie and returns
// a copy of the result.
func (s *Store) Update(id int, cmd *models.UpdateMovieCommand) (*models.Movie, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("movie with id %d: %w", id, ErrNotFound)
	}
	cmd.Apply(m)
	return m.Clone(), nil
}

// Delete removes the movie with the given ID. The identifier becomes
// invalid immediately; there is no tombstone.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("movie with id %d: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	for i, m := range s.movies {
		if m.ID == id {
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			break
		}
	}
	return nil
}

// Replace swaps the entire table for the given movies, cloning each one.
// Meant for tests and re-ingestion; the ID counter moves past the highest
// identifier seen.
func (s *Store) Replace(movies []*models.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = make([]*models.Movie, 0, len(movies))
	s.byID = make(map[int]*models.Movie, len(movies))
	s.nextID = 1
	for _, m := range movies {
		c := m.Clone()
		s.movies = append(s.movies, c)
		s.byID[c.ID] = c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}

// insert adds an already-built movie during ingestion, bumping the ID
// counter past it. Not exported; mutations after startup go through Create.
func (s *Store) insert(m *models.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = append(s.movies, m)
	s.byID[m.ID] = m
	if m.ID >= s.nextID {
		s.nextID = m.ID + 1
	}
}
