package render

import (
	"image"
	"image/color"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black. Values past
// the end of the palette use its last entry.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// PaletteImage renders cells into a w x h RGBA image, upscaled by scale. A
// cell slice shorter than w*h yields an empty image.
func PaletteImage(cells []uint8, w, h, scale int, palette []color.RGBA) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	if len(cells) < w*h {
		h = 0
	}
	src := make([]byte, 4*w*h)
	fillPaletteRGBA(src, cells[:w*h], palette)
	if scale == 1 {
		return &image.RGBA{Pix: src, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	}

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		row := src[(y/scale)*4*w:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < w*scale; x++ {
			copy(dst[x*4:x*4+4], row[(x/scale)*4:(x/scale)*4+4])
		}
	}
	return img
}
