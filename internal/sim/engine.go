package sim

import (
	"fmt"
	"runtime"

	"golang.org/x/exp/rand"
)

// TickInput carries the external events for one tick.
type TickInput struct {
	ResetMatrix bool      // re-randomize the attraction matrix before stepping
	Stimulus    *Stimulus // nil when no pointer pull is active
}

// Engine owns the population and the attraction matrix and advances them
// one tick at a time. It is driven by a single caller; Tick must not be
// invoked concurrently.
type Engine struct {
	cfg        Config
	rng        *rand.Rand
	matrix     *Matrix
	cur, next  []Particle // double buffer; next is scratch between ticks
	build      buildFunc
	integrator *Integrator
	log        *EventLog
	tick       int
}

type engineOptions struct {
	particles []Particle
	matrix    *Matrix
	log       *EventLog
}

// Option customizes a new Engine.
type Option func(*engineOptions)

// WithParticles seeds the engine with an explicit population instead of a
// generated one. Its length must equal Config.NumParticles.
func WithParticles(pop []Particle) Option {
	return func(o *engineOptions) { o.particles = pop }
}

// WithMatrix uses a copy of m instead of a random matrix. Its size must
// equal Config.NumColors.
func WithMatrix(m *Matrix) Option {
	return func(o *engineOptions) { o.matrix = m }
}

// WithEventLog records matrix resets and stimuli into log.
func WithEventLog(log *EventLog) Option {
	return func(o *engineOptions) { o.log = log }
}

// New validates cfg and builds an engine. The matrix is drawn from the seeded
// RNG first, then the population, so a given seed always yields the same
// starting state.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	build, err := indexBuilder(cfg.Index)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	e := &Engine{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		build: build,
		log:   o.log,
		integrator: NewIntegrator(StepParams{
			Cutoff:   cfg.CutoffRadius,
			Beta:     cfg.Beta,
			DT:       cfg.DT,
			Friction: FrictionFactor(cfg.DT, cfg.FrictionHalfLife),
		}, workers),
	}

	if o.matrix != nil {
		if o.matrix.Colors() != cfg.NumColors {
			return nil, fmt.Errorf("%w: attraction matrix is %dx%d, want %d colors", ErrInvalidConfig, o.matrix.Colors(), o.matrix.Colors(), cfg.NumColors)
		}
		e.matrix = o.matrix.Clone()
	} else {
		e.matrix = NewMatrix(cfg.NumColors, e.rng)
	}

	if o.particles != nil {
		if len(o.particles) != cfg.NumParticles {
			return nil, fmt.Errorf("%w: got %d particles, want %d", ErrInvalidConfig, len(o.particles), cfg.NumParticles)
		}
		if err := checkColors(o.particles, cfg.NumColors); err != nil {
			return nil, err
		}
		e.cur = append([]Particle(nil), o.particles...)
	} else {
		pop, err := GeneratePopulation(cfg.NumParticles, cfg.NumColors, cfg.Layout, e.rng)
		if err != nil {
			return nil, err
		}
		e.cur = pop
	}
	e.next = make([]Particle, len(e.cur))
	return e, nil
}

// Tick advances the simulation by one fixed step: optional matrix reset,
// index rebuild, parallel force and integration pass, optional pointer
// stimulus, then an atomic swap to the new population.
func (e *Engine) Tick(in TickInput) Snapshot {
	if in.ResetMatrix {
		e.matrix = e.matrix.Reset(true, e.rng)
		if e.log != nil {
			e.log.Add(e.tick, CategoryMatrix, KeyReset, fmt.Sprintf("%dx%d", e.matrix.Colors(), e.matrix.Colors()), 0)
		}
	}

	idx := e.build(e.cur, e.cfg.CutoffRadius)
	e.integrator.Step(e.cur, e.next, idx, e.matrix)

	if s := in.Stimulus; s != nil {
		e.integrator.ApplyStimulus(e.next, *s)
		if e.log != nil {
			e.log.Add(e.tick, CategoryStimulus, KeyPointer, fmt.Sprintf("(%.3f,%.3f)", s.Target[0], s.Target[1]), float64(s.Magnitude))
		}
	}

	e.cur, e.next = e.next, e.cur
	e.tick++
	return e.Snapshot()
}

// Snapshot copies the current population.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:      e.tick,
		Particles: append([]Particle(nil), e.cur...),
	}
}

// Matrix returns a copy of the current attraction matrix. The engine's own
// matrix only changes through TickInput.ResetMatrix.
func (e *Engine) Matrix() *Matrix { return e.matrix.Clone() }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// TickCount is the number of completed ticks.
func (e *Engine) TickCount() int { return e.tick }
