package sim

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"
)

func neighborSet(hits []Neighbor) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Index
	}
	sort.Ints(out)
	return out
}

func randomPopulation(rng *rand.Rand, n int) []Particle {
	pop := make([]Particle, n)
	// A few tight clusters plus background noise, with the odd duplicate.
	centers := []mgl32.Vec2{{0.2, 0.2}, {0.7, 0.4}, {0.5, 0.9}}
	for i := range pop {
		switch {
		case i > 0 && rng.Intn(20) == 0:
			pop[i].Pos = pop[i-1].Pos
		case rng.Intn(2) == 0:
			c := centers[rng.Intn(len(centers))]
			pop[i].Pos = mgl32.Vec2{c[0] + (rng.Float32()-0.5)*0.1, c[1] + (rng.Float32()-0.5)*0.1}
		default:
			pop[i].Pos = mgl32.Vec2{rng.Float32()*1.4 - 0.2, rng.Float32()*1.4 - 0.2}
		}
	}
	return pop
}

func TestIndexes_MatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(600)
		pop := randomPopulation(rng, n)
		cell := 0.01 + rng.Float32()*0.1
		brute, err := BuildIndex(IndexBrute, pop, cell)
		if err != nil {
			t.Fatalf("build brute: %v", err)
		}

		for _, kind := range []IndexKind{IndexKDTree, IndexGonum, IndexGrid} {
			idx, err := BuildIndex(kind, pop, cell)
			if err != nil {
				t.Fatalf("build %s: %v", kind, err)
			}
			for q := 0; q < 20; q++ {
				var p mgl32.Vec2
				if q%2 == 0 {
					p = pop[rng.Intn(n)].Pos
				} else {
					p = mgl32.Vec2{rng.Float32()*1.6 - 0.3, rng.Float32()*1.6 - 0.3}
				}
				radius := rng.Float32() * 0.3
				want := neighborSet(brute.Query(p, radius, nil))
				got := neighborSet(idx.Query(p, radius, nil))
				if fmt.Sprint(want) != fmt.Sprint(got) {
					t.Fatalf("trial %d %s: query %v r=%v: expected %d hits %v, got %d hits %v",
						trial, kind, p, radius, len(want), want, len(got), got)
				}
			}
		}
	}
}

func TestIndexes_BoundaryInclusive(t *testing.T) {
	pop := []Particle{
		{Pos: mgl32.Vec2{0, 0}},
		{Pos: mgl32.Vec2{0.5, 0}},
		{Pos: mgl32.Vec2{0, 0.75}},
	}
	for _, kind := range IndexKinds {
		idx, err := BuildIndex(kind, pop, 0.1)
		if err != nil {
			t.Fatalf("build %s: %v", kind, err)
		}
		got := neighborSet(idx.Query(mgl32.Vec2{0, 0}, 0.5, nil))
		if fmt.Sprint(got) != "[0 1]" {
			t.Fatalf("%s: expected [0 1] with inclusive boundary, got %v", kind, got)
		}
	}
}

func TestIndexes_ReportDistances(t *testing.T) {
	pop := []Particle{
		{Pos: mgl32.Vec2{0.1, 0.1}},
		{Pos: mgl32.Vec2{0.13, 0.14}},
	}
	for _, kind := range IndexKinds {
		idx, _ := BuildIndex(kind, pop, 0.05)
		for _, h := range idx.Query(pop[0].Pos, 0.1, nil) {
			want := 0.0
			if h.Index == 1 {
				want = 0.05
			}
			if !approx(float64(h.Dist), want, 1e-6) {
				t.Fatalf("%s: expected distance %v for %d, got %v", kind, want, h.Index, h.Dist)
			}
		}
	}
}

func TestIndexes_EmptyPopulation(t *testing.T) {
	for _, kind := range IndexKinds {
		idx, err := BuildIndex(kind, nil, 0.05)
		if err != nil {
			t.Fatalf("build %s: %v", kind, err)
		}
		if hits := idx.Query(mgl32.Vec2{0.5, 0.5}, 1, nil); len(hits) != 0 {
			t.Fatalf("%s: expected no hits, got %v", kind, hits)
		}
	}
}

func TestIndexes_CoincidentPointsReportedSeparately(t *testing.T) {
	pop := make([]Particle, 20)
	for i := range pop {
		pop[i].Pos = mgl32.Vec2{0.3, 0.3}
	}
	for _, kind := range IndexKinds {
		idx, _ := BuildIndex(kind, pop, 0.05)
		got := neighborSet(idx.Query(mgl32.Vec2{0.3, 0.3}, 0.01, nil))
		if len(got) != 20 {
			t.Fatalf("%s: expected all 20 coincident particles, got %d", kind, len(got))
		}
		for i, g := range got {
			if g != i {
				t.Fatalf("%s: expected distinct indices 0..19, got %v", kind, got)
			}
		}
	}
}

func TestIndexes_QueryAppendsToDst(t *testing.T) {
	pop := []Particle{{Pos: mgl32.Vec2{0, 0}}}
	seed := []Neighbor{{Index: 99}}
	for _, kind := range IndexKinds {
		idx, _ := BuildIndex(kind, pop, 0.05)
		out := idx.Query(mgl32.Vec2{0, 0}, 0.1, append([]Neighbor(nil), seed...))
		if len(out) != 2 || out[0].Index != 99 || out[1].Index != 0 {
			t.Fatalf("%s: expected query to append after existing entries, got %v", kind, out)
		}
	}
}

func TestParseIndexKind(t *testing.T) {
	for _, k := range IndexKinds {
		got, err := ParseIndexKind(string(k))
		if err != nil || got != k {
			t.Fatalf("expected %s to parse, got %v %v", k, got, err)
		}
	}
	if _, err := ParseIndexKind("octree"); err == nil {
		t.Fatal("expected unknown index to be rejected")
	}
}

func TestIndexes_CoincidentBuildStaysFast(t *testing.T) {
	pop := make([]Particle, 10000)
	for i := range pop {
		pop[i].Pos = mgl32.Vec2{0.5, 0.5}
	}
	for _, kind := range []IndexKind{IndexKDTree, IndexGonum} {
		start := time.Now()
		idx, err := BuildIndex(kind, pop, 0.05)
		if err != nil {
			t.Fatalf("build %s: %v", kind, err)
		}
		if d := time.Since(start); d > 2*time.Second {
			t.Fatalf("%s: building over 10000 coincident particles took %v", kind, d)
		}
		if n := len(idx.Query(mgl32.Vec2{0.5, 0.5}, 0.01, nil)); n != len(pop) {
			t.Fatalf("%s: expected %d hits, got %d", kind, len(pop), n)
		}
	}
}
