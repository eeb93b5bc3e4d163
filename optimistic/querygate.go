package optimistic

import "sync"

// QueryGate makes the latest query win. Each outgoing request takes a
// ticket; a response is applied only if its ticket is still the newest, so
// a slow response for abandoned filter parameters cannot overwrite fresher
// results. Stale requests are ignored on arrival, not aborted.
type QueryGate struct {
	mu     sync.Mutex
	latest uint64
}

// Begin registers a new request and returns its ticket.
func (g *QueryGate) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// Accept reports whether the response for the given ticket may be applied.
func (g *QueryGate) Accept(ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ticket == g.latest
}
