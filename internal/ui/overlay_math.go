package ui

import (
	"image/color"
	"math"

	"liquid-ca/internal/core"
)

type flowSample struct {
	cx float64
	cy float64
	sx float64
	sy float64
}

// flowSampleSpacing picks a cell stride so the arrow grid stays legible.
// Small grids get one arrow per cell.
func flowSampleSpacing(size core.Size) int {
	const (
		targetSamples = 1200.0
		maxSpacing    = 12
	)
	spacing := int(math.Sqrt(float64(size.W*size.H) / targetSamples))
	if spacing < 1 {
		spacing = 1
	}
	if spacing > maxSpacing {
		spacing = maxSpacing
	}
	return spacing
}

// buildFlowSamples centres a spacing-strided lattice of cell centres on the
// grid and records their screen positions.
func buildFlowSamples(out []flowSample, size core.Size, scale, spacing int) []flowSample {
	if size.W <= 0 || size.H <= 0 || spacing <= 0 {
		return out
	}
	countX := (size.W + spacing - 1) / spacing
	countY := (size.H + spacing - 1) / spacing
	startX := max(0, (size.W-1-(countX-1)*spacing)/2)
	startY := max(0, (size.H-1-(countY-1)*spacing)/2)

	for yi := 0; yi < countY; yi++ {
		cy := float64(min(startY+yi*spacing, size.H-1)) + 0.5
		for xi := 0; xi < countX; xi++ {
			cx := float64(min(startX+xi*spacing, size.W-1)) + 0.5
			out = append(out, flowSample{cx: cx, cy: cy, sx: cx * float64(scale), sy: cy * float64(scale)})
		}
	}
	return out
}

// fillMaskRGBA tints buf by mask intensity; zero cells stay transparent.
func fillMaskRGBA(buf []byte, mask []float32, tint color.RGBA) {
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	for i, m := range mask {
		base := i * 4
		intensity := clamp01(float64(m))
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		glow := glowBase + glowRange*math.Sqrt(intensity)
		buf[base+0] = scaleColorComponent(tint.R, glow)
		buf[base+1] = scaleColorComponent(tint.G, glow)
		buf[base+2] = scaleColorComponent(tint.B, glow)
		buf[base+3] = uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
	}
}

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	r := uint8(math.Round(80 + 70*t))
	g := uint8(math.Round(170 + 70*t))
	b := uint8(math.Round(230 + 20*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
