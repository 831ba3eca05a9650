package sim

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"
)

// Particle is a single colored point. Its identity is its index in the
// population slice, never its value: two particles may share every field.
type Particle struct {
	Color int
	Pos   mgl32.Vec2
	Vel   mgl32.Vec2
}

// Snapshot is the read-only population handed out after a tick. Particles is
// a private copy; mutating it does not affect the engine.
type Snapshot struct {
	Tick      int
	Particles []Particle
}

// Perlin density field tuning for LayoutPerlin.
const (
	perlinAlpha     = 2.0
	perlinBeta      = 2.0
	perlinOctaves   = 3
	perlinFrequency = 4.0
	perlinAttempts  = 64 // rejection-sampling attempts before accepting a point anyway
)

// GeneratePopulation creates n particles with colors uniform in
// [0, numColors) and zero velocity, positioned in the unit square according
// to layout.
func GeneratePopulation(n, numColors int, layout Layout, rng *rand.Rand) ([]Particle, error) {
	place, err := placer(layout, rng)
	if err != nil {
		return nil, err
	}
	pop := make([]Particle, n)
	for i := range pop {
		pop[i] = Particle{
			Color: rng.Intn(numColors),
			Pos:   place(),
		}
	}
	return pop, nil
}

func placer(layout Layout, rng *rand.Rand) (func() mgl32.Vec2, error) {
	uniform := func() mgl32.Vec2 {
		return mgl32.Vec2{rng.Float32(), rng.Float32()}
	}
	switch layout {
	case LayoutUniform, "":
		return uniform, nil
	case LayoutPerlin:
		noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, int64(rng.Uint64()>>1))
		return func() mgl32.Vec2 {
			var p mgl32.Vec2
			for attempt := 0; attempt < perlinAttempts; attempt++ {
				p = uniform()
				// Noise2D is roughly in [-1,1]; squaring the shifted value
				// sharpens the dense patches.
				d := (noise.Noise2D(float64(p[0])*perlinFrequency, float64(p[1])*perlinFrequency) + 1) / 2
				if rng.Float64() < d*d {
					break
				}
			}
			return p
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, layout)
}

// checkColors verifies the color invariant for externally supplied particles.
func checkColors(pop []Particle, numColors int) error {
	for i, p := range pop {
		if p.Color < 0 || p.Color >= numColors {
			return fmt.Errorf("%w: particle %d has color %d, want [0,%d)", ErrInvalidConfig, i, p.Color, numColors)
		}
	}
	return nil
}
