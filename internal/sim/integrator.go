package sim

import (
	"math"

	"github.com/dgravesa/go-parallel/parallel"
	"github.com/go-gl/mathgl/mgl32"
)

// StepParams are the per-run constants of the integrator.
type StepParams struct {
	Cutoff   float32 // interaction cutoff radius
	Beta     float32 // repulsion-core fraction
	DT       float32 // fixed time step
	Friction float32 // per-step velocity multiplier, see FrictionFactor
}

// Stimulus is an external pull toward Target applied after a step, e.g. a
// held mouse button.
type Stimulus struct {
	Target    mgl32.Vec2
	Magnitude float32
}

// FrictionFactor is the velocity multiplier per step that halves an
// unforced velocity every halfLife time units.
func FrictionFactor(dt, halfLife float32) float32 {
	return float32(math.Pow(0.5, float64(dt/halfLife)))
}

// Integrator advances a population by one step. The force pass is a
// fork/join over particles: every goroutine reads the previous population
// and the index, and writes only its own slots of the output.
type Integrator struct {
	params  StepParams
	workers int
	scratch [][]Neighbor // one query buffer per goroutine
}

func NewIntegrator(params StepParams, workers int) *Integrator {
	if workers < 1 {
		workers = 1
	}
	return &Integrator{
		params:  params,
		workers: workers,
		scratch: make([][]Neighbor, workers),
	}
}

// Step writes the successor of every particle in cur into next. idx must
// have been built from cur; both are treated as read-only.
func (it *Integrator) Step(cur, next []Particle, idx Index, m *Matrix) {
	parallel.WithNumGoroutines(it.workers).For(len(cur), func(i, grID int) {
		hits := idx.Query(cur[i].Pos, it.params.Cutoff, it.scratch[grID][:0])
		next[i] = it.advance(i, cur, hits, m)
		it.scratch[grID] = hits
	})
}

// advance applies the force law from every neighbor, then friction and a
// semi-implicit Euler update using the new velocity.
func (it *Integrator) advance(i int, cur []Particle, hits []Neighbor, m *Matrix) Particle {
	p := cur[i]
	cutoff := it.params.Cutoff

	var total mgl32.Vec2
	for _, h := range hits {
		// Coincident particles have no direction; they contribute nothing.
		if h.Index == i || h.Dist == 0 {
			continue
		}
		q := cur[h.Index]
		f := Force(h.Dist/cutoff, m.At(p.Color, q.Color), it.params.Beta)
		total = total.Add(q.Pos.Sub(p.Pos).Mul(f / h.Dist))
	}
	total = total.Mul(cutoff)

	p.Vel = p.Vel.Mul(it.params.Friction).Add(total.Mul(it.params.DT))
	p.Pos = p.Pos.Add(p.Vel.Mul(it.params.DT))
	return p
}

// ApplyStimulus pulls every particle's velocity toward s.Target by
// s.Magnitude. A particle sitting exactly on the target is left alone.
func (it *Integrator) ApplyStimulus(pop []Particle, s Stimulus) {
	parallel.WithNumGoroutines(it.workers).For(len(pop), func(i, _ int) {
		d := pop[i].Pos.Sub(s.Target)
		l := d.Len()
		if l == 0 {
			return
		}
		pop[i].Vel = pop[i].Vel.Sub(d.Mul(s.Magnitude / l))
	})
}
