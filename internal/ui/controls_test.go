package ui

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"liquid-ca/internal/core"
)

func TestNextIntValueClamps(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeInt, Step: 2, Min: 1, Max: 6, HasMin: true, HasMax: true}

	v, ok := nextIntValue(ctrl, 3, 1)
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	v, ok = nextIntValue(ctrl, 5, 1)
	assert.True(t, ok)
	assert.Equal(t, 6, v)

	_, ok = nextIntValue(ctrl, 6, 1)
	assert.False(t, ok)

	v, ok = nextIntValue(ctrl, 2, -1)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNextFloatValueDefaultsStep(t *testing.T) {
	ctrl := core.ParameterControl{Type: core.ParamTypeFloat, Max: 1, HasMax: true}

	v, ok := nextFloatValue(ctrl, 0.5, 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.55, v, 1e-9)

	_, ok = nextFloatValue(ctrl, 1, 1)
	assert.False(t, ok)

	_, ok = nextFloatValue(ctrl, 0.5, 0)
	assert.False(t, ok)
}

func TestFormatFloatPrecision(t *testing.T) {
	assert.Equal(t, "0.05", formatFloat(core.ParameterControl{Step: 0.01}, 0.05))
	assert.Equal(t, "1200.0", formatFloat(core.ParameterControl{Step: 100}, 1200))
	assert.Equal(t, "0.0025", formatFloat(core.ParameterControl{Step: 0.0005}, 0.0025))
}

func TestRefreshControls(t *testing.T) {
	controls := []hudControlState{
		{control: core.ParameterControl{Key: "max_per_cell", Type: core.ParamTypeInt}},
		{control: core.ParameterControl{Key: "evaporation_chance", Type: core.ParamTypeFloat, Step: 0.01}},
		{control: core.ParameterControl{Key: "missing", Type: core.ParamTypeInt}},
	}
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Flow",
		Params: []core.Parameter{
			{Key: "max_per_cell", Type: core.ParamTypeInt, Value: "7"},
			{Key: "evaporation_chance", Type: core.ParamTypeFloat, Value: "0.05"},
		},
	}}}

	refreshControls(controls, snap)

	assert.True(t, controls[0].hasValue)
	assert.Equal(t, 7, controls[0].intValue)
	assert.Equal(t, "0.05", controls[1].value)
	assert.False(t, controls[2].hasValue)
	assert.Equal(t, "--", controls[2].value)
}

func TestLayoutControls(t *testing.T) {
	controls := make([]hudControlState, 2)
	layoutControls(controls, 200)

	assert.Equal(t, controlsTop+lineHeight, controls[1].top)
	assert.Equal(t, image.Rect(164, controls[0].top+6, 188, controls[0].top+30), controls[0].plusRect)
	assert.True(t, pointInRect(170, controls[0].top+10, controls[0].plusRect))
	assert.False(t, pointInRect(170, controls[0].top+10, controls[0].minusRect))
}

func TestBuildTitle(t *testing.T) {
	assert.Equal(t, "Controls", buildTitle(nil))
}
