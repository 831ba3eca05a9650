package render

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/olivierh59500/particlelife/internal/sim"
)

const (
	ParticleSize = 2.0
	statusTicks  = 120 // how long a status line stays on the HUD
)

var hudColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}

// Game drives a sim.Engine from the ebiten loop: it turns input into tick
// events, advances the engine once per Update and draws the last snapshot.
type Game struct {
	engine  *sim.Engine
	snap    sim.Snapshot
	palette []color.RGBA
	camera  Camera
	pull    float32

	Paused  bool
	showHUD bool

	prevMX, prevMY int // previous cursor position for drag
	tickTime       time.Duration
	status         string
	statusLeft     int
}

// NewGame wraps engine for a window of the given size. pull is the pointer
// attraction magnitude applied while the left button is held.
func NewGame(engine *sim.Engine, width, height int, pull float32) *Game {
	return &Game{
		engine:  engine,
		snap:    engine.Snapshot(),
		palette: Palette(engine.Config().NumColors),
		camera:  NewCamera(width, height),
		pull:    pull,
		showHUD: true,
	}
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	in := g.handleInput()
	if g.statusLeft > 0 {
		g.statusLeft--
	}
	if g.Paused {
		return nil
	}
	start := time.Now()
	g.snap = g.engine.Tick(in)
	g.tickTime = time.Since(start)
	return nil
}

// handleInput processes keyboard and mouse input into the events for the
// next tick. Presentation-only keys are handled here directly.
func (g *Game) handleInput() sim.TickInput {
	var in sim.TickInput
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		in.ResetMatrix = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.Paused = !g.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyMatrix()
	}

	mx, my := ebiten.CursorPosition()
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.camera.ZoomAt(float32(wheelY)*0.1, float32(mx), float32(my))
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.camera.Pan(float32(mx-g.prevMX), float32(my-g.prevMY))
	}
	g.prevMX, g.prevMY = mx, my

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		in.Stimulus = &sim.Stimulus{
			Target:    g.camera.ToWorld(float32(mx), float32(my)),
			Magnitude: g.pull,
		}
	}
	return in
}

func (g *Game) copyMatrix() {
	if err := clipboard.WriteAll(g.engine.Matrix().String()); err != nil {
		log.Printf("clipboard: %v", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("matrix copied to clipboard")
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusLeft = statusTicks
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	r := float32(ParticleSize) * g.camera.Zoom
	for _, p := range g.snap.Particles {
		sx, sy := g.camera.ToScreen(p.Pos)
		if sx < -r || sx > w+r || sy < -r || sy > h+r {
			continue
		}
		vector.DrawFilledCircle(screen, sx, sy, r, g.palette[p.Color], true)
	}
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("FPS %.0f  TPS %.0f  tick %d (%s)", ebiten.ActualFPS(), ebiten.ActualTPS(), g.snap.Tick, g.tickTime.Round(time.Microsecond)),
		fmt.Sprintf("particles %d  colors %d  index %s", len(g.snap.Particles), len(g.palette), g.engine.Config().Index),
		"SPACE reset matrix  LMB pull  RMB pan  wheel zoom  P pause  C copy matrix  H hud",
	}
	if g.Paused {
		lines = append(lines, "PAUSED")
	}
	if g.statusLeft > 0 {
		lines = append(lines, g.status)
	}
	for i, l := range lines {
		text.Draw(screen, l, basicfont.Face7x13, 10, 20+i*16, hudColor)
	}
}

// Layout returns the screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.camera.Width), int(g.camera.Height)
}
