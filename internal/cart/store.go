// Package cart holds the client-resident shopping cart. The cart is pure
// local state: no server round trip, no server authority. Every mutation is
// flushed synchronously to durable local storage so the cart survives
// restarts.
package cart

import (
	"encoding/json"
	"sync"
)

type Item struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image,omitempty"`
}

// Storage is the durable local backing for the cart (the localStorage
// analog). Load returns nil data when nothing has been stored yet.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is a constructor-injected cart instance; each client context owns its
// own rather than sharing a process-wide global.
type Store struct {
	mu      sync.Mutex
	storage Storage
	items   []Item
	subs    map[int]func()
	nextSub int
}

// New hydrates the store from storage exactly once. Corrupt or unreadable
// data starts the cart empty instead of failing.
func New(storage Storage) *Store {
	s := &Store{storage: storage, subs: make(map[int]func())}

	data, err := storage.Load()
	if err == nil && len(data) > 0 {
		var items []Item
		if json.Unmarshal(data, &items) == nil {
			s.items = items
		}
	}
	return s
}

// Add merges by product id: adding the same product twice accumulates
// quantity on the existing line instead of creating a duplicate row. New
// items append at the end. A quantity below 1 is normalized to 1.
func (s *Store) Add(item Item) {
	if item.ProductID == "" {
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.flushLocked()
	s.mu.Unlock()

	s.notify()
}

// Remove deletes the matching line. Removing an absent id is a no-op.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.flushLocked()
			s.mu.Unlock()
			s.notify()
			return
		}
	}
	s.mu.Unlock()
}

// SetQuantity replaces a line's quantity. Quantities below 1 are ignored;
// callers wanting removal must call Remove explicitly.
func (s *Store) SetQuantity(productID string, q int) {
	if q < 1 {
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = q
			s.flushLocked()
			s.mu.Unlock()
			s.notify()
			return
		}
	}
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.flushLocked()
	s.mu.Unlock()

	s.notify()
}

// Items returns a snapshot copy of the cart lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is computed, never stored, so it cannot drift.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, it := range s.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Subscribe registers fn to run after every mutation and returns an
// unsubscribe func.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// flushLocked persists the current items. Local cart operations never fail;
// a storage write error leaves the in-memory state authoritative.
func (s *Store) flushLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		return
	}
	_ = s.storage.Save(data)
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
