package distractor

import (
	"sort"
	"testing"
)

func TestShuffle_IsPermutation(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "a", "b"}

	out := Shuffle(in)

	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	wantSorted := append([]string(nil), in...)
	gotSorted := append([]string(nil), out...)
	sort.Strings(wantSorted)
	sort.Strings(gotSorted)
	for i := range wantSorted {
		if wantSorted[i] != gotSorted[i] {
			t.Fatalf("multiset changed: %v vs %v", in, out)
		}
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	orig := append([]int(nil), in...)

	Shuffle(in)

	for i := range in {
		if in[i] != orig[i] {
			t.Fatalf("input mutated: %v", in)
		}
	}
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	if got := Shuffle([]int{}); len(got) != 0 {
		t.Fatalf("empty shuffle = %v", got)
	}
	if got := Shuffle([]int{7}); len(got) != 1 || got[0] != 7 {
		t.Fatalf("single shuffle = %v", got)
	}
}

func TestShuffleWith_FixedSource(t *testing.T) {
	// intn always returning 0 swaps each walked element with position 0.
	got := shuffleWith(func(int) int { return 0 }, []string{"a", "b", "c"})
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("shuffleWith = %v, want %v", got, want)
		}
	}
}
