package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/olivierh59500/particlelife/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type runStats struct {
	runIndex int
	seed     uint64

	initial sim.Stats
	final   sim.Stats

	resets   int
	tickAvg  time.Duration
	tickMax  time.Duration
	maxDrift float64 // largest |net momentum| seen on any tick
}

type aggregateStats struct {
	runs          int
	tickAvg       time.Duration
	tickMax       time.Duration
	meanSpeed     float64
	meanEnergy    float64
	meanDrift     float64
	worstDrift    float64
	worstDriftRun int
}

func main() {
	var runs int
	var ticks int
	var seedBase uint64
	var seedStep uint64
	var resetEvery int
	var parallelRuns int
	var index string
	var layout string

	cfg := sim.DefaultConfig()
	flag.IntVar(&runs, "runs", 4, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 600, "ticks per run")
	flag.Uint64Var(&seedBase, "seed-base", cfg.Seed, "base RNG seed for run 1")
	flag.Uint64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&resetEvery, "reset-every", 0, "re-randomize the matrix every N ticks (0 = never)")
	flag.IntVar(&parallelRuns, "parallel", 1, "runs executed concurrently")
	flag.IntVar(&cfg.NumParticles, "particles", cfg.NumParticles, "number of particles")
	flag.IntVar(&cfg.NumColors, "colors", cfg.NumColors, "number of particle colors")
	flag.IntVar(&cfg.Workers, "workers", 0, "force goroutines per run (0 = one per CPU)")
	flag.StringVar(&index, "index", string(cfg.Index), "neighbor index: brute, kdtree, gonum, grid")
	flag.StringVar(&layout, "layout", string(cfg.Layout), "initial layout: uniform, perlin")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	cfg.Index = sim.IndexKind(index)
	cfg.Layout = sim.Layout(layout)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(titleStyle.Render("=== Headless Particle Life Report ==="))
	fmt.Printf("runs=%d ticks=%d particles=%d colors=%d index=%s layout=%s seed_base=%d seed_step=%d\n\n",
		runs, ticks, cfg.NumParticles, cfg.NumColors, cfg.Index, cfg.Layout, seedBase, seedStep)

	all := make([]runStats, runs)
	var g errgroup.Group
	g.SetLimit(max(parallelRuns, 1))
	for i := 0; i < runs; i++ {
		i := i
		runCfg := cfg
		runCfg.Seed = seedBase + uint64(i)*seedStep
		g.Go(func() error {
			rs, err := runScenario(i+1, runCfg, ticks, resetEvery)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(aggregate(all))
}

func runScenario(runIndex int, cfg sim.Config, ticks, resetEvery int) (runStats, error) {
	events := sim.NewEventLog()
	e, err := sim.New(cfg, sim.WithEventLog(events))
	if err != nil {
		return runStats{}, err
	}
	rs := runStats{
		runIndex: runIndex,
		seed:     cfg.Seed,
		initial:  sim.Measure(e.Snapshot().Particles),
	}

	var total time.Duration
	var snap sim.Snapshot
	for t := 0; t < ticks; t++ {
		in := sim.TickInput{ResetMatrix: resetEvery > 0 && t > 0 && t%resetEvery == 0}
		start := time.Now()
		snap = e.Tick(in)
		d := time.Since(start)
		total += d
		rs.tickMax = max(rs.tickMax, d)

		st := sim.Measure(snap.Particles)
		rs.maxDrift = max(rs.maxDrift, float64(st.Momentum.Len()))
	}
	rs.tickAvg = total / time.Duration(ticks)
	rs.final = sim.Measure(snap.Particles)
	rs.resets = events.Count(sim.CategoryMatrix, sim.KeyReset)
	return rs, nil
}

func aggregate(all []runStats) aggregateStats {
	agg := aggregateStats{runs: len(all)}
	if len(all) == 0 {
		return agg
	}
	var total time.Duration
	for _, rs := range all {
		total += rs.tickAvg
		agg.tickMax = max(agg.tickMax, rs.tickMax)
		agg.meanSpeed += rs.final.MeanSpeed
		agg.meanEnergy += rs.final.KineticEnergy
		agg.meanDrift += rs.maxDrift
		if rs.maxDrift > agg.worstDrift || agg.worstDriftRun == 0 {
			agg.worstDrift = rs.maxDrift
			agg.worstDriftRun = rs.runIndex
		}
	}
	n := float64(len(all))
	agg.tickAvg = total / time.Duration(len(all))
	agg.meanSpeed /= n
	agg.meanEnergy /= n
	agg.meanDrift /= n
	return agg
}

// driftPerParticle normalizes net momentum so runs of different sizes compare.
func driftPerParticle(drift float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return drift / float64(count)
}

func field(label string, value any) string {
	return labelStyle.Render(label+"=") + valueStyle.Render(fmt.Sprint(value))
}

func printRun(rs runStats) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Run %d (seed=%d)", rs.runIndex, rs.seed)))
	fmt.Printf("  %s  %s  %s\n",
		field("tick_avg", rs.tickAvg.Round(time.Microsecond)),
		field("tick_max", rs.tickMax.Round(time.Microsecond)),
		field("resets", rs.resets))
	fmt.Printf("  %s  %s  %s\n",
		field("mean_speed", fmt.Sprintf("%.4f", rs.final.MeanSpeed)),
		field("max_speed", fmt.Sprintf("%.4f", rs.final.MaxSpeed)),
		field("kinetic", fmt.Sprintf("%.4f", rs.final.KineticEnergy)))
	fmt.Printf("  %s  %s\n",
		field("centroid", fmt.Sprintf("(%.3f,%.3f) -> (%.3f,%.3f)",
			rs.initial.Centroid[0], rs.initial.Centroid[1], rs.final.Centroid[0], rs.final.Centroid[1])),
		field("drift_per_particle", fmt.Sprintf("%.2e", driftPerParticle(rs.maxDrift, rs.final.Count))))
	fmt.Println()
}

func printAggregate(agg aggregateStats) {
	fmt.Println(titleStyle.Render("=== Aggregate ==="))
	fmt.Printf("  %s  %s  %s\n",
		field("runs", agg.runs),
		field("tick_avg", agg.tickAvg.Round(time.Microsecond)),
		field("tick_max", agg.tickMax.Round(time.Microsecond)))
	fmt.Printf("  %s  %s\n",
		field("mean_speed", fmt.Sprintf("%.4f", agg.meanSpeed)),
		field("mean_kinetic", fmt.Sprintf("%.4f", agg.meanEnergy)))
	drift := fmt.Sprintf("mean_max_drift=%.3e worst=%.3e (run %d)", agg.meanDrift, agg.worstDrift, agg.worstDriftRun)
	// Net momentum is not conserved: the attraction matrix is asymmetric.
	fmt.Println("  " + warnStyle.Render(drift))
}
