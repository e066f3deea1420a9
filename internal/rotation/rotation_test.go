package rotation

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rightRotate(in []int, n int) []int {
	k := len(in)
	if k == 0 {
		return []int{}
	}
	out := make([]int, k)
	for i, v := range in {
		out[(i+n)%k] = v
	}
	return out
}

func TestQueue_RotationMatchesRightRotate(t *testing.T) {
	original := []int{1, 2, 3, 4, 5}

	for ticks := 0; ticks <= 12; ticks++ {
		q := NewQueue(original)
		for i := 0; i < ticks; i++ {
			q.Tick()
		}
		want := rightRotate(original, ticks%len(original))
		if diff := cmp.Diff(want, q.Items()); diff != "" {
			t.Errorf("after %d ticks (-want +got):\n%s", ticks, diff)
		}
	}
}

func TestQueue_OneTickMovesLastToFront(t *testing.T) {
	q := NewQueue([]string{"Mon", "Tue", "Wed"})
	q.Tick()
	if diff := cmp.Diff([]string{"Wed", "Mon", "Tue"}, q.Items()); diff != "" {
		t.Fatal(diff)
	}
}

func TestQueue_ResetResynchronizes(t *testing.T) {
	source := []int{1, 2, 3}
	q := NewQueue(source)
	q.Tick()

	// Mutating the caller's slice must not leak into the buffer.
	source[0] = 99
	if q.Items()[1] != 1 {
		t.Fatalf("queue shares memory with its source: %v", q.Items())
	}

	q.Reset([]int{7, 8})
	if q.Ticks() != 0 {
		t.Errorf("ticks after reset = %d", q.Ticks())
	}
	if diff := cmp.Diff([]int{7, 8}, q.Items()); diff != "" {
		t.Errorf("reset order:\n%s", diff)
	}
	q.Tick()
	if diff := cmp.Diff([]int{8, 7}, q.Items()); diff != "" {
		t.Errorf("rotation after reset:\n%s", diff)
	}
}

func TestQueue_EmptyAndSingle(t *testing.T) {
	q := NewQueue[int](nil)
	q.Tick()
	if q.Len() != 0 {
		t.Fatalf("len = %d", q.Len())
	}

	q.Reset([]int{42})
	q.Tick()
	if diff := cmp.Diff([]int{42}, q.Items()); diff != "" {
		t.Fatal(diff)
	}
}

func TestSampler_DrawsDistinctItemsFromPool(t *testing.T) {
	pool := []string{"California", "Beijing", "Jerusalem", "Oslo", "Lima", "Cairo"}
	s := NewSampler(pool, 3, rand.New(rand.NewPCG(1, 2)))

	inPool := make(map[string]bool)
	for _, p := range pool {
		inPool[p] = true
	}

	for tick := 0; tick < 20; tick++ {
		got := s.Items()
		if len(got) != 3 {
			t.Fatalf("sample size = %d, want 3", len(got))
		}
		seen := make(map[string]bool)
		for _, v := range got {
			if !inPool[v] {
				t.Fatalf("sampled %q outside the pool", v)
			}
			if seen[v] {
				t.Fatalf("duplicate %q in sample %v", v, got)
			}
			seen[v] = true
		}
		s.Tick()
	}
}

func TestSampler_SmallPool(t *testing.T) {
	s := NewSampler([]int{1, 2}, 3, rand.New(rand.NewPCG(3, 4)))
	if len(s.Items()) != 2 {
		t.Fatalf("sample = %v, want both items", s.Items())
	}

	s.Reset(nil)
	if len(s.Items()) != 0 {
		t.Fatalf("sample of empty pool = %v", s.Items())
	}
}

func TestSampler_Update(t *testing.T) {
	type card struct {
		name string
		temp int
	}
	s := NewSampler([]card{{"a", 0}, {"b", 0}}, 2, rand.New(rand.NewPCG(5, 6)))
	s.Update(func(c card) bool { return c.name == "b" }, card{"b", 21})

	for _, c := range s.Items() {
		if c.name == "b" && c.temp != 21 {
			t.Fatalf("update not visible in current sample: %+v", c)
		}
	}
	s.Tick()
	for _, c := range s.Items() {
		if c.name == "b" && c.temp != 21 {
			t.Fatalf("update not kept in pool: %+v", c)
		}
	}
}
