package liquid

import "image/color"

const (
	displayOpen = 0
	displayRock = 1
	// displayLiquidBase is the palette index of a cell holding one unit.
	displayLiquidBase = 1
)

// Palette exposes the color palette used for rendering the world.
func (w *World) Palette() []color.RGBA {
	return w.palette
}

func buildPalette(maxPerCell int) []color.RGBA {
	if maxPerCell < 1 {
		maxPerCell = 1
	}
	palette := make([]color.RGBA, displayLiquidBase+maxPerCell+1)
	palette[displayOpen] = color.RGBA{R: 58, G: 44, B: 30, A: 255}
	palette[displayRock] = color.RGBA{R: 120, G: 120, B: 126, A: 255}
	shallow := color.RGBA{R: 120, G: 190, B: 235, A: 255}
	deep := color.RGBA{R: 20, G: 60, B: 170, A: 255}
	for amount := 1; amount <= maxPerCell; amount++ {
		t := 1.0
		if maxPerCell > 1 {
			t = float64(amount-1) / float64(maxPerCell-1)
		}
		palette[displayLiquidBase+amount] = lerpRGBA(shallow, deep, t)
	}
	return palette
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func encodeDisplayValue(terrain Terrain, amount int) uint8 {
	if terrain != TerrainOpen {
		return displayRock
	}
	if amount <= 0 {
		return displayOpen
	}
	if amount > maxDisplayAmount {
		amount = maxDisplayAmount
	}
	return uint8(displayLiquidBase + amount)
}

func (w *World) rebuildDisplay() {
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			c := Coord{X: x, Y: y}
			amount := 0
			if s, ok := w.grid.LiquidAt(c); ok {
				amount = s.Amount
			}
			w.display[y*w.w+x] = encodeDisplayValue(w.grid.Terrain(c), amount)
		}
	}
}
