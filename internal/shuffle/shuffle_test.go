package shuffle

import (
	"math/rand"
	"sort"
	"testing"
)

func TestPermute_IsAPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	in := []string{"a", "b", "c", "d", "e", "f", "g"}

	for i := 0; i < 100; i++ {
		out := Permute(rng, in)
		if len(out) != len(in) {
			t.Fatalf("length changed: %d != %d", len(out), len(in))
		}
		a := append([]string(nil), in...)
		b := append([]string(nil), out...)
		sort.Strings(a)
		sort.Strings(b)
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("not a permutation: %v vs %v", in, out)
			}
		}
	}
}

func TestPermute_DoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	in := []int{1, 2, 3, 4, 5}
	want := append([]int(nil), in...)

	for i := 0; i < 50; i++ {
		Permute(rng, in)
	}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input mutated at %d: %v", i, in)
		}
	}
}

func TestPermute_EventuallyReorders(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}

	for i := 0; i < 20; i++ {
		out := Permute(rng, in)
		for j := range out {
			if out[j] != in[j] {
				return
			}
		}
	}
	t.Fatal("20 shuffles of 8 elements never changed the order")
}

func TestPermute_EmptyAndSingle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if out := Permute(rng, []int{}); len(out) != 0 {
		t.Fatalf("empty in, got %v", out)
	}
	if out := Permute(rng, []int{9}); len(out) != 1 || out[0] != 9 {
		t.Fatalf("single element, got %v", out)
	}
}
