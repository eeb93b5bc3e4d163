// Package optimistic applies tentative mutations to the client-visible
// records before the server confirms them, and reconciles each one with a
// single commit-or-rollback transition.
package optimistic

import (
	"fmt"
	"sync"

	"github.com/Vaaraprasad44/movies2/models"
)

// MutationState is the lifecycle of one optimistic mutation.
type MutationState int

const (
	// Pending means the tentative value is visible and the server has not
	// answered yet.
	Pending MutationState = iota
	// Committed means the server confirmed the mutation.
	Committed
	// RolledBack means the server rejected the mutation and the pre-image
	// was restored.
	RolledBack
)

func (s MutationState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Notifier surfaces a user-facing failure message after a rollback.
type Notifier func(message string)

// View holds the client-visible copies of records. Mutations applied
// through it take effect immediately and are reconciled when the server
// responds. Concurrent mutations to the same record are not coalesced; the
// last applied patch wins locally, and a late rollback may overwrite a
// newer optimistic change.
type View struct {
	mu      sync.Mutex
	records map[int]*models.Movie
	notify  Notifier
}

// NewView returns an empty view. The notifier may be nil.
func NewView(notify Notifier) *View {
	if notify == nil {
		notify = func(string) {}
	}
	return &View{
		records: make(map[int]*models.Movie),
		notify:  notify,
	}
}

// Load replaces the visible copies with the given records.
func (v *View) Load(movies []*models.Movie) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.records = make(map[int]*models.Movie, len(movies))
	for _, m := range movies {
		v.records[m.ID] = m.Clone()
	}
}

// Put inserts or replaces one visible record.
func (v *View) Put(m *models.Movie) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records[m.ID] = m.Clone()
}

// Get returns the visible copy of a record.
func (v *View) Get(id int) (*models.Movie, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	m, ok := v.records[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// ApplyPatch applies the patch to the visible copy immediately and returns
// the mutation handle used to commit or roll it back.
func (v *View) ApplyPatch(id int, patch *models.UpdateMovieCommand) (*Mutation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	current, ok := v.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d is not in the client view", id)
	}
	preImage := current.Clone()
	patch.Apply(current)

	return &Mutation{view: v, id: id, preImage: preImage}, nil
}

// ApplyDelete removes the record from the view immediately. Rollback
// restores it.
func (v *View) ApplyDelete(id int) (*Mutation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	current, ok := v.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d is not in the client view", id)
	}
	delete(v.records, id)

	return &Mutation{view: v, id: id, preImage: current, deleted: true}, nil
}

// Mutation is the reconciliation handle for one optimistic application.
// Exactly one of Commit or Rollback may run, exactly once.
type Mutation struct {
	mu       sync.Mutex
	view     *View
	id       int
	preImage *models.Movie
	deleted  bool
	state    MutationState
}

// State returns the mutation's current lifecycle state.
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Commit finalizes the mutation after server success. When the server
// returns an authoritative copy it replaces the optimistic value; with nil
// the optimistic value is retained.
func (m *Mutation) Commit(server *models.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Pending {
		return fmt.Errorf("cannot commit a mutation that is already %s", m.state)
	}
	m.state = Committed

	if server != nil && !m.deleted {
		m.view.Put(server)
	}
	return nil
}

// Rollback restores the pre-mutation value after server failure and raises
// the user-facing notification.
func (m *Mutation) Rollback() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Pending {
		return fmt.Errorf("cannot roll back a mutation that is already %s", m.state)
	}
	m.state = RolledBack

	m.view.Put(m.preImage)
	m.view.notify(fmt.Sprintf("Change to movie %d failed and was reverted", m.id))
	return nil
}
