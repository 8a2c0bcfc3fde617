package liquid

import (
	"strconv"

	"liquid-ca/internal/core"
)

func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("tps", "Ticks per second", w.cfg.TPS),
			},
		},
		{
			Name: "Flow",
			Params: []core.Parameter{
				intParam("max_per_cell", "Max per cell", params.MaxPerCell),
				floatParam("evaluation_rate", "Evaluations per second", params.EvaluationRate),
				floatParam("evaporation_chance", "Evaporation chance", params.EvaporationChance),
				intParam("event_queue_size", "Event queue size", params.EventQueueSize),
			},
		},
		{
			Name: "Terrain Seeding",
			Params: []core.Parameter{
				floatParam("rock_chance", "Rock chance", params.RockChance),
				intParam("spring_count", "Spring count", params.SpringCount),
				intParam("spring_interval", "Spring interval", params.SpringInterval),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables adjustable while the world runs.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "max_per_cell", Label: "Max per cell", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 32, HasMin: true, HasMax: true},
		{Key: "evaluation_rate", Label: "Evals/sec", Type: core.ParamTypeFloat, Step: 100, Min: 100, Max: 20000, HasMin: true, HasMax: true},
		{Key: "evaporation_chance", Label: "Evaporation", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "spring_interval", Label: "Spring interval", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 120, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable. Lowering the cap clamps cells
// already above it.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "max_per_cell":
		if value < 1 {
			value = 1
		}
		if value > maxDisplayAmount {
			value = maxDisplayAmount
		}
		w.cfg.Params.MaxPerCell = value
		w.grid.ClampAmounts(value)
		w.palette = buildPalette(value)
		w.rebuildDisplay()
	case "spring_interval":
		if value < 1 {
			value = 1
		}
		w.cfg.Params.SpringInterval = value
	default:
		return false
	}
	w.proc.SetParams(w.cfg.Params)
	return true
}

// SetFloatParameter updates a floating point tunable, clamping to its range.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "evaluation_rate":
		if value < 1 {
			value = 1
		}
		w.cfg.Params.EvaluationRate = value
	case "evaporation_chance":
		w.cfg.Params.EvaporationChance = clamp01(value)
	default:
		return false
	}
	w.proc.SetParams(w.cfg.Params)
	return true
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

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
