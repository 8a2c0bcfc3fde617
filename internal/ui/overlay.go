//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"liquid-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type activeMaskProvider interface {
	ActiveMask() []float32
}

type flowFieldProvider interface {
	FlowVectorAt(x, y float64) (float64, float64)
}

// Overlay draws optional debugging visuals on top of the base simulation.
// Key 1 toggles the active-set mask, key 2 the flow arrows.
type Overlay struct {
	sim        core.Sim
	scale      int
	showActive bool
	showFlow   bool
	maskImg    *ebiten.Image
	maskBuf    []byte

	pixel          *ebiten.Image
	flowSamples    []flowSample
	flowCacheW     int
	flowCacheH     int
	flowCacheScale int
	flowPixelSpan  float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showActive = !o.showActive
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showFlow = !o.showFlow
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showActive {
		if provider, ok := o.sim.(activeMaskProvider); ok {
			total := size.W * size.H
			if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
				o.maskImg = ebiten.NewImage(size.W, size.H)
				o.maskBuf = make([]byte, 4*total)
			}
			o.drawMask(screen, provider.ActiveMask(), color.RGBA{R: 255, G: 200, B: 60, A: 0}, scale)
		}
	}

	if o.showFlow {
		if provider, ok := o.sim.(flowFieldProvider); ok {
			o.drawFlowField(screen, provider, size, scale)
		}
	}
}

func (o *Overlay) drawFlowField(screen *ebiten.Image, provider flowFieldProvider, size core.Size, scale int) {
	if !o.ensureFlowSamples(size, scale) {
		return
	}

	const (
		calmThreshold = 0.05
		headAngle     = math.Pi / 6
		minThickness  = 0.3
		maxThickness  = 0.6
	)

	span := o.flowPixelSpan
	minLength := span * 0.35
	maxLength := span * 0.9

	for _, sample := range o.flowSamples {
		vx, vy := provider.FlowVectorAt(sample.cx, sample.cy)
		strength := math.Hypot(vx, vy)
		if strength < calmThreshold {
			continue
		}

		nx := vx / strength
		ny := vy / strength
		normalized := clamp01(strength)
		length := minLength + (maxLength-minLength)*normalized
		headLength := length * 0.35
		tipX := sample.sx + nx*length*0.5
		tipY := sample.sy + ny*length*0.5
		tailX := sample.sx - nx*length*0.5
		tailY := sample.sy - ny*length*0.5

		thickness := float64(scale) * (minThickness + (maxThickness-minThickness)*normalized)
		if thickness < 1 {
			thickness = 1
		}

		col := interpolateColor(normalized)
		o.drawLine(screen, tailX, tailY, tipX-nx*headLength, tipY-ny*headLength, thickness, col)

		angle := math.Atan2(ny, nx)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*headLength, tipY-math.Sin(angle+headAngle)*headLength, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*headLength, tipY-math.Sin(angle-headAngle)*headLength, thickness*0.85, col)
	}
}

func (o *Overlay) ensureFlowSamples(size core.Size, scale int) bool {
	if o.flowCacheW == size.W && o.flowCacheH == size.H && o.flowCacheScale == scale && len(o.flowSamples) > 0 {
		return true
	}
	spacing := flowSampleSpacing(size)
	o.flowSamples = buildFlowSamples(o.flowSamples[:0], size, scale, spacing)
	o.flowCacheW = size.W
	o.flowCacheH = size.H
	o.flowCacheScale = scale
	o.flowPixelSpan = float64(spacing) * float64(scale)
	return len(o.flowSamples) > 0
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA, scale int) {
	if len(mask)*4 != len(o.maskBuf) {
		return
	}
	fillMaskRGBA(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
