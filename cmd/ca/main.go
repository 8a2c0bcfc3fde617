//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"liquid-ca/internal/app"
	"liquid-ca/internal/logging"
	"liquid-ca/internal/sims/liquid"
	"liquid-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		logging.New(slog.LevelInfo).Error("invalid flags", "error", err)
		os.Exit(2)
	}
	logger := logging.New(level)

	sim, err := app.BuildSim(cfg)
	if err != nil {
		logger.Error("cannot build simulation", "sim", cfg.Sim, "error", err)
		os.Exit(1)
	}
	sim.Reset(cfg.Seed)

	hud := ui.NewHUD(sim, cfg.HUDWidth)
	if world, ok := sim.(*liquid.World); ok {
		world.SetDiagnostics(liquid.MultiDiagnostics(hud, logging.NewDiagnosticsSink(logger, cfg.TPS)))
		logger.Info("simulation started", "sim", sim.Name(), "session", world.Session(), "seed", cfg.Seed)
	}

	game := app.New(sim, hud, cfg, logger)
	size := sim.Size()

	ebiten.SetWindowTitle("liquid-ca - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop failed", "error", err)
		os.Exit(1)
	}
}
