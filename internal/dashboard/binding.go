package dashboard

import (
	"sync"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// binding ties a view to the store for the view's lifetime. The view's own
// state is guarded by mu, which is held while apply runs.
type binding struct {
	mu          sync.Mutex
	renders     int
	closed      bool
	unsubscribe func()

	// Background fetches started from apply, counted under mu.
	pending int
	idle    *sync.Cond
}

// bind subscribes apply and then replays the current snapshot, unless a
// notification already beat the replay.
func (b *binding) bind(s SnapshotStore, apply func(weather.Snapshot)) {
	b.unsubscribe = s.Subscribe(func(snap weather.Snapshot) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed {
			return
		}
		b.renders++
		apply(snap)
	})

	snap, ok := s.Get()
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renders == 0 && !b.closed {
		b.renders++
		apply(snap)
	}
}

// release detaches the view. It is safe to call more than once.
func (b *binding) release() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// goFetchLocked runs fetch in the background and counts it until it returns.
// mu must be held.
func (b *binding) goFetchLocked(fetch func()) {
	b.pending++
	go func() {
		defer b.fetchDone()
		fetch()
	}()
}

func (b *binding) fetchDone() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending--
	if b.pending == 0 && b.idle != nil {
		b.idle.Broadcast()
	}
}

// Wait blocks until in-flight fetches have returned. It may run
// concurrently with store notifications.
func (b *binding) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.idle == nil {
		b.idle = sync.NewCond(&b.mu)
	}
	for b.pending > 0 {
		b.idle.Wait()
	}
}

// Renders counts the snapshots the view has rendered.
func (b *binding) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders
}
