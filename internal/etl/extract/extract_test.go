package extract

import "testing"

func TestIdentitySetDedupAndOrder(t *testing.T) {
	rows := [][]any{
		{"a1", "x"},
		{"b2", "y"},
		{"a1", "z"},
		{"c3", "w"},
	}
	set := NewIdentitySet(rows)
	if set.Len() != 3 {
		t.Fatalf("got %d ids, want 3", set.Len())
	}
	want := []string{"a1", "b2", "c3"}
	for i, id := range set.IDs() {
		if id != want[i] {
			t.Fatalf("id %d: got %q, want %q", i, id, want[i])
		}
	}
	if !set.Contains("b2") || set.Contains("d4") {
		t.Fatal("membership check wrong")
	}
}

func TestIdentitySetNonStringKeys(t *testing.T) {
	rows := [][]any{{int64(42)}, {int64(7)}}
	set := NewIdentitySet(rows)
	if !set.Contains("42") || !set.Contains("7") {
		t.Fatalf("numeric keys not normalized: %v", set.IDs())
	}
}

func TestIdentitySetEmpty(t *testing.T) {
	set := NewIdentitySet(nil)
	if set.Len() != 0 {
		t.Fatalf("empty input produced %d ids", set.Len())
	}
}
