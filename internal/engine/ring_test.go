package engine

import (
	"testing"

	"statuswatch/internal/models"
)

func TestRingAdd(t *testing.T) {
	r := NewRing[int](5)
	for i := 0; i < 3; i++ {
		r.Add(i)
	}
	if r.Len() != 3 {
		t.Errorf("expected len 3, got %d", r.Len())
	}
}

func TestRingWrap(t *testing.T) {
	r := NewRing[int](3)
	for i := 0; i < 5; i++ {
		r.Add(i)
	}
	if r.Len() != 3 {
		t.Errorf("expected len 3, got %d", r.Len())
	}
	items := r.All()
	if items[0] != 2 {
		t.Errorf("expected oldest item 2, got %d", items[0])
	}
	if items[2] != 4 {
		t.Errorf("expected newest item 4, got %d", items[2])
	}
}

func TestRingBounded(t *testing.T) {
	r := NewRing[models.StatusSample](1000)
	for i := 0; i < 1001; i++ {
		r.Add(models.StatusSample{ID: string(rune(i))})
	}
	if r.Len() != 1000 {
		t.Errorf("expected exactly 1000 retained, got %d", r.Len())
	}
	items := r.All()
	if items[0].ID != string(rune(1)) {
		t.Error("oldest sample should have been evicted")
	}
}

func TestRingEmpty(t *testing.T) {
	r := NewRing[int](10)
	if r.Len() != 0 {
		t.Error("new ring should be empty")
	}
	if items := r.All(); len(items) != 0 {
		t.Error("All() on empty ring should return empty slice")
	}
	if _, ok := r.Last(); ok {
		t.Error("Last() on empty ring should report false")
	}
}

func TestRingLast(t *testing.T) {
	r := NewRing[int](5)
	r.Add(1)
	r.Add(2)
	r.Add(3)
	last, ok := r.Last()
	if !ok {
		t.Fatal("Last() should return true for non-empty ring")
	}
	if last != 3 {
		t.Errorf("expected 3, got %d", last)
	}
}

func TestRingReset(t *testing.T) {
	r := NewRing[int](3)
	r.Add(9)
	r.Reset([]int{1, 2, 3, 4, 5})
	if r.Len() != 3 {
		t.Fatalf("expected len 3 after reset, got %d", r.Len())
	}
	items := r.All()
	if items[0] != 3 || items[2] != 5 {
		t.Errorf("reset should keep the newest items, got %v", items)
	}
	r.Add(6)
	if last, _ := r.Last(); last != 6 {
		t.Errorf("expected 6 after post-reset add, got %d", last)
	}
}
