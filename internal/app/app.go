//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"liquid-ca/internal/core"
	"liquid-ca/internal/render"
	"liquid-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type injector interface {
	Inject(x, y int) bool
}

type pausable interface {
	SetPaused(bool)
}

var monoPalette = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	logger  *slog.Logger

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, hud *ui.HUD, cfg Config, logger *slog.Logger) *Game {
	size := sim.Size()
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	hudWidth := cfg.HUDWidth
	if hud == nil || hudWidth < 0 {
		hudWidth = 0
	}
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, scale),
		hud:      hud,
		logger:   logger,
		scale:    scale,
		hudWidth: hudWidth,
		seed:     cfg.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.logger.Info("simulation reset", "sim", g.sim.Name(), "seed", seed)
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if p, ok := g.sim.(pausable); ok {
		p.SetPaused(paused)
	}
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.setPaused(!g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.setPaused(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()
	gridWidth := g.sim.Size().W * g.scale
	g.hud.Update(gridWidth)
	g.handleInjection(gridWidth)

	switch {
	case !g.paused:
		g.sim.Step()
	case g.tickOnce:
		g.setPaused(false)
		g.sim.Step()
		g.setPaused(true)
	}
	g.tickOnce = false
	return nil
}

// handleInjection adds liquid under the cursor while the left button is held.
func (g *Game) handleInjection(gridWidth int) {
	inj, ok := g.sim.(injector)
	if !ok || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= gridWidth {
		return
	}
	if !inj.Inject(mx/g.scale, my/g.scale) {
		g.logger.Debug("injection dropped", "x", mx/g.scale, "y", my/g.scale)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	palette := monoPalette
	if p, ok := g.sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	g.painter.Blit(screen, g.sim.Cells(), palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
