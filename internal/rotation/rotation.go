// Package rotation holds the small display buffers that cycle on a timer.
package rotation

import (
	"math/rand/v2"
	"sync"
)

// Queue rotates its items right by one position on every Tick.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	ticks int
}

// NewQueue creates a queue over a copy of items.
func NewQueue[T any](items []T) *Queue[T] {
	q := &Queue[T]{}
	q.Reset(items)
	return q
}

// Reset replaces the buffer with a copy of items and restarts the rotation.
func (q *Queue[T]) Reset(items []T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]T(nil), items...)
	q.ticks = 0
}

// Tick moves the last item to the front.
func (q *Queue[T]) Tick() {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	if n < 2 {
		q.ticks++
		return
	}
	last := q.items[n-1]
	copy(q.items[1:], q.items[:n-1])
	q.items[0] = last
	q.ticks++
}

// Items returns a copy of the current order.
func (q *Queue[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]T(nil), q.items...)
}

// Ticks reports the rotations since the last Reset.
func (q *Queue[T]) Ticks() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ticks
}

// Len returns the number of items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Sampler shows n distinct items drawn from a fixed pool, redrawn on every Tick.
type Sampler[T any] struct {
	mu      sync.Mutex
	pool    []T
	n       int
	rng     *rand.Rand
	current []T
}

// NewSampler creates a sampler and draws the first sample. A nil rng uses a
// randomly seeded source.
func NewSampler[T any](pool []T, n int, rng *rand.Rand) *Sampler[T] {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Sampler[T]{n: n, rng: rng}
	s.Reset(pool)
	return s
}

// Reset replaces the pool with a copy of pool and draws a new sample.
func (s *Sampler[T]) Reset(pool []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool = append([]T(nil), pool...)
	s.draw()
}

// Tick draws a new sample.
func (s *Sampler[T]) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw()
}

// Items returns a copy of the current sample.
func (s *Sampler[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.current...)
}

// Update rewrites pool entries in place without changing the sample
// positions. match identifies the entry to replace.
func (s *Sampler[T]) Update(match func(T) bool, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pool {
		if match(s.pool[i]) {
			s.pool[i] = v
		}
	}
	for i := range s.current {
		if match(s.current[i]) {
			s.current[i] = v
		}
	}
}

func (s *Sampler[T]) draw() {
	k := min(s.n, len(s.pool))
	if k <= 0 {
		s.current = nil
		return
	}
	idx := s.rng.Perm(len(s.pool))[:k]
	s.current = make([]T, 0, k)
	for _, i := range idx {
		s.current = append(s.current, s.pool[i])
	}
}
