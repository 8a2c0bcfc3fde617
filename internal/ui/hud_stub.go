//go:build !ebiten

package ui

import (
	"liquid-ca/internal/core"
	"liquid-ca/internal/sims/liquid"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.Sim, int) *HUD { return nil }

// ObserveTick is a no-op in the headless build.
func (h *HUD) ObserveTick(liquid.TickStats) {}

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
