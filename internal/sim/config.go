package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration rejection.
var ErrInvalidConfig = errors.New("invalid configuration")

// Layout selects how the initial population is scattered.
type Layout string

const (
	LayoutUniform Layout = "uniform" // uniform over the unit square
	LayoutPerlin  Layout = "perlin"  // rejection-sampled against a noise density field
)

// Config holds the parameters consumed once when an Engine is created.
type Config struct {
	NumParticles     int
	NumColors        int
	CutoffRadius     float32 // maximum interaction distance
	Beta             float32 // repulsion-core fraction of the cutoff, in (0,1)
	DT               float32 // fixed time step
	FrictionHalfLife float32 // time for velocity to halve with no force applied
	Seed             uint64
	Index            IndexKind
	Layout           Layout
	Workers          int // goroutines for force evaluation; 0 means runtime.NumCPU()
}

// DefaultConfig mirrors the reference scene: 10k particles, five colors,
// unit-square world.
func DefaultConfig() Config {
	return Config{
		NumParticles:     10000,
		NumColors:        5,
		CutoffRadius:     0.05,
		Beta:             0.3,
		DT:               0.02,
		FrictionHalfLife: 0.04,
		Seed:             50,
		Index:            IndexKDTree,
		Layout:           LayoutUniform,
	}
}

// Validate reports the first field that makes the config unusable.
func (c Config) Validate() error {
	switch {
	case c.NumParticles <= 0:
		return fmt.Errorf("%w: particle count must be positive, got %d", ErrInvalidConfig, c.NumParticles)
	case c.NumColors <= 0:
		return fmt.Errorf("%w: color count must be positive, got %d", ErrInvalidConfig, c.NumColors)
	case !(c.Beta > 0 && c.Beta < 1):
		return fmt.Errorf("%w: beta must lie strictly in (0,1), got %g", ErrInvalidConfig, c.Beta)
	case !(c.CutoffRadius > 0):
		return fmt.Errorf("%w: cutoff radius must be positive, got %g", ErrInvalidConfig, c.CutoffRadius)
	case !(c.DT > 0):
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidConfig, c.DT)
	case !(c.FrictionHalfLife > 0):
		return fmt.Errorf("%w: friction half-life must be positive, got %g", ErrInvalidConfig, c.FrictionHalfLife)
	case c.Workers < 0:
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := ParseIndexKind(string(c.Index)); err != nil {
		return err
	}
	if _, err := ParseLayout(string(c.Layout)); err != nil {
		return err
	}
	return nil
}

// ParseLayout maps a flag value onto a Layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutUniform, LayoutPerlin:
		return Layout(s), nil
	}
	return "", fmt.Errorf("%w: unknown layout %q (supported: uniform, perlin)", ErrInvalidConfig, s)
}
