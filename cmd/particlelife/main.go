package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/particlelife/internal/render"
	"github.com/olivierh59500/particlelife/internal/sim"
)

func main() {
	cfg := sim.DefaultConfig()
	var (
		index  string
		layout string
		size   int
		pull   float64
		cutoff float64
		beta   float64
		dt     float64
		half   float64
	)
	flag.IntVar(&cfg.NumParticles, "particles", cfg.NumParticles, "number of particles")
	flag.IntVar(&cfg.NumColors, "colors", cfg.NumColors, "number of particle colors")
	flag.Float64Var(&cutoff, "cutoff", float64(cfg.CutoffRadius), "interaction cutoff radius (world is the unit square)")
	flag.Float64Var(&beta, "beta", float64(cfg.Beta), "repulsion-core fraction of the cutoff, in (0,1)")
	flag.Float64Var(&dt, "dt", float64(cfg.DT), "fixed time step")
	flag.Float64Var(&half, "half-life", float64(cfg.FrictionHalfLife), "friction half-life")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed")
	flag.StringVar(&index, "index", string(cfg.Index), "neighbor index: brute, kdtree, gonum, grid")
	flag.StringVar(&layout, "layout", string(cfg.Layout), "initial layout: uniform, perlin")
	flag.IntVar(&cfg.Workers, "workers", 0, "force goroutines (0 = one per CPU)")
	flag.IntVar(&size, "size", 800, "window size in pixels")
	flag.Float64Var(&pull, "pull", 0.1, "pointer attraction magnitude while the left button is held")
	flag.Parse()

	cfg.CutoffRadius = float32(cutoff)
	cfg.Beta = float32(beta)
	cfg.DT = float32(dt)
	cfg.FrictionHalfLife = float32(half)
	cfg.Index = sim.IndexKind(index)
	cfg.Layout = sim.Layout(layout)

	engine, err := sim.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle("Particle Life")
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(render.NewGame(engine, size, size, float32(pull))); err != nil {
		log.Fatal(err)
	}
}
