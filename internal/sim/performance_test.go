package sim

import (
	"fmt"
	"testing"

	"golang.org/x/exp/rand"
)

func BenchmarkBuildIndex(b *testing.B) {
	for _, count := range []int{1000, 10000} {
		pop, _ := GeneratePopulation(count, 5, LayoutUniform, rand.New(rand.NewSource(1)))
		for _, kind := range IndexKinds {
			b.Run(fmt.Sprintf("%s-Particles-%d", kind, count), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					if _, err := BuildIndex(kind, pop, 0.05); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkQuery(b *testing.B) {
	pop, _ := GeneratePopulation(10000, 5, LayoutUniform, rand.New(rand.NewSource(1)))
	for _, kind := range IndexKinds {
		b.Run(string(kind), func(b *testing.B) {
			idx, _ := BuildIndex(kind, pop, 0.05)
			var buf []Neighbor
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf = idx.Query(pop[i%len(pop)].Pos, 0.05, buf[:0])
			}
		})
	}
}

func BenchmarkTick(b *testing.B) {
	for _, count := range []int{1000, 10000} {
		for _, kind := range []IndexKind{IndexKDTree, IndexGrid} {
			b.Run(fmt.Sprintf("%s-Particles-%d", kind, count), func(b *testing.B) {
				cfg := DefaultConfig()
				cfg.NumParticles = count
				cfg.Index = kind
				e, err := New(cfg)
				if err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					e.Tick(TickInput{})
				}
			})
		}
	}
}
