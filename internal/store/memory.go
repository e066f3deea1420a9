package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Listener is notified with every snapshot written to the store.
type Listener func(weather.Snapshot)

type subscription struct {
	id uuid.UUID
	fn Listener
}

// MemoryStore holds the one live weather snapshot shared by all views.
// It starts absent and is replaced wholesale by each Set; there is no
// history and no clear operation.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot weather.Snapshot
	present  bool
	revision uint64
	subs     []subscription

	// notifyMu serializes Set so subscribers see writes in completion order.
	notifyMu sync.Mutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the current snapshot and whether one is present.
func (s *MemoryStore) Get() (weather.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.present
}

// Revision counts successful Set calls.
func (s *MemoryStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Set replaces the snapshot and synchronously notifies every subscriber, in
// subscription order, before returning. Listeners may call Get but must not
// call Set.
func (s *MemoryStore) Set(snapshot weather.Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.snapshot = snapshot
	s.present = true
	s.revision++
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snapshot)
	}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *MemoryStore) Subscribe(fn Listener) (unsubscribe func()) {
	id := uuid.New()

	s.mu.Lock()
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers reports how many listeners are registered.
func (s *MemoryStore) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
