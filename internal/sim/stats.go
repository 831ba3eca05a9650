package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Stats summarizes a population. Every particle has unit mass.
type Stats struct {
	Count         int
	MeanSpeed     float64
	MaxSpeed      float64
	KineticEnergy float64
	Momentum      mgl32.Vec2 // net; drifts because the matrix is asymmetric
	Centroid      mgl32.Vec2
}

// Measure computes Stats in float64 to keep large populations stable.
func Measure(pop []Particle) Stats {
	s := Stats{Count: len(pop)}
	if len(pop) == 0 {
		return s
	}
	var px, py, cx, cy, speedSum float64
	for _, p := range pop {
		vx, vy := float64(p.Vel[0]), float64(p.Vel[1])
		v2 := vx*vx + vy*vy
		v := math.Sqrt(v2)
		speedSum += v
		s.MaxSpeed = math.Max(s.MaxSpeed, v)
		s.KineticEnergy += v2 / 2
		px += vx
		py += vy
		cx += float64(p.Pos[0])
		cy += float64(p.Pos[1])
	}
	n := float64(len(pop))
	s.MeanSpeed = speedSum / n
	s.Momentum = mgl32.Vec2{float32(px), float32(py)}
	s.Centroid = mgl32.Vec2{float32(cx / n), float32(cy / n)}
	return s
}
