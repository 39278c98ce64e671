// Package wishlist holds the client-side view of the server-authoritative
// wishlist set. The view is never mutated optimistically: it only ever takes
// the set the server returned, so multiple devices cannot diverge.
package wishlist

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAuthenticated is returned when a toggle is attempted with no
// established identity.
var ErrNotAuthenticated = errors.New("not authenticated")

// API is the server boundary for the wishlist set.
type API interface {
	Fetch(ctx context.Context) ([]string, error)
	Toggle(ctx context.Context, productID string) ([]string, error)
}

type Store struct {
	mu  sync.Mutex
	api API

	set    map[string]struct{}
	authed bool

	// seq numbers outbound requests; a response is applied only when it is
	// newer than the last applied one and the identity generation has not
	// changed since it was issued. Abandoned or late responses fall through.
	seq     uint64
	applied uint64
	gen     uint64
}

func New(api API) *Store {
	return &Store{api: api, set: make(map[string]struct{})}
}

// Contains is a pure local lookup against the last-synced set.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[productID]
	return ok
}

// Toggle flips membership of productID on the server and replaces the local
// view with the returned set. On failure the local view is left unchanged.
func (s *Store) Toggle(ctx context.Context, productID string) error {
	s.mu.Lock()
	if !s.authed {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	seq, gen := s.issueLocked()
	s.mu.Unlock()

	set, err := s.api.Toggle(ctx, productID)
	if err != nil {
		return err
	}

	s.apply(seq, gen, set)
	return nil
}

// Refresh replaces the local view with the server's current set.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.authed {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	seq, gen := s.issueLocked()
	s.mu.Unlock()

	set, err := s.api.Fetch(ctx)
	if err != nil {
		return err
	}

	s.apply(seq, gen, set)
	return nil
}

// HandleLogin marks the identity established and re-fetches the set.
func (s *Store) HandleLogin(ctx context.Context) error {
	s.mu.Lock()
	s.authed = true
	s.gen++
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// HandleLogout clears the view immediately, without a network round trip, and
// invalidates every in-flight response.
func (s *Store) HandleLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authed = false
	s.gen++
	s.set = make(map[string]struct{})
}

func (s *Store) issueLocked() (seq, gen uint64) {
	s.seq++
	return s.seq, s.gen
}

func (s *Store) apply(seq, gen uint64, set []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || seq <= s.applied {
		return // stale: identity changed or a newer response already landed
	}
	s.applied = seq

	next := make(map[string]struct{}, len(set))
	for _, id := range set {
		next[id] = struct{}{}
	}
	s.set = next
}
