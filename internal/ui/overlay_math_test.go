package ui

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquid-ca/internal/core"
)

func TestFlowSampleSpacing(t *testing.T) {
	assert.Equal(t, 1, flowSampleSpacing(core.Size{W: 16, H: 8}))
	assert.Equal(t, 3, flowSampleSpacing(core.Size{W: 128, H: 96}))
	assert.Equal(t, 12, flowSampleSpacing(core.Size{W: 4096, H: 4096}))
}

func TestBuildFlowSamplesPerCell(t *testing.T) {
	samples := buildFlowSamples(nil, core.Size{W: 3, H: 2}, 4, 1)
	require.Len(t, samples, 6)
	assert.Equal(t, flowSample{cx: 0.5, cy: 0.5, sx: 2, sy: 2}, samples[0])
	assert.Equal(t, flowSample{cx: 2.5, cy: 1.5, sx: 10, sy: 6}, samples[5])
}

func TestBuildFlowSamplesCentred(t *testing.T) {
	samples := buildFlowSamples(nil, core.Size{W: 10, H: 1}, 1, 4)
	require.Len(t, samples, 3)
	assert.Equal(t, 0.5, samples[0].cx)
	assert.Equal(t, 4.5, samples[1].cx)
	assert.Equal(t, 8.5, samples[2].cx)
}

func TestFillMaskRGBA(t *testing.T) {
	buf := []byte{1, 1, 1, 1, 0, 0, 0, 0}
	fillMaskRGBA(buf, []float32{0, 1}, color.RGBA{R: 200, G: 100, B: 0})

	assert.Equal(t, []byte{0, 0, 0, 0}, buf[:4])
	assert.Equal(t, []byte{200, 100, 0, 140}, buf[4:])
}

func TestInterpolateColorEndpoints(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 80, G: 170, B: 230, A: 150}, interpolateColor(-1))
	assert.Equal(t, color.RGBA{R: 150, G: 240, B: 250, A: 240}, interpolateColor(1))
}
