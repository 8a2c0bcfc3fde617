package cli

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"liquid-ca/internal/core"
	"liquid-ca/internal/logging"
	"liquid-ca/internal/metrics"
	"liquid-ca/internal/render"
	"liquid-ca/internal/sims/liquid"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath  string
	Sets        map[string]string
	Steps       int
	Seed        int64
	Snapshot    string
	PNG         string
	PNGScale    int
	ASCII       bool
	MetricsAddr string
	LogEvery    int
	Realtime    bool
}

// RunSummary is the result printed by the run command.
type RunSummary struct {
	Session     string `json:"session"`
	Seed        int64  `json:"seed"`
	Steps       uint64 `json:"steps"`
	Injected    int    `json:"injected"`
	Evaporated  int    `json:"evaporated"`
	Remaining   int    `json:"remaining"`
	WetCells    int    `json:"wet_cells"`
	ActiveCells int    `json:"active_cells"`
	Snapshot    string `json:"snapshot,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the liquid world headless",
		Long: `Run the liquid world for a fixed number of steps and print a summary.

Example:
  flowsim run --steps 600 --set w=64 --set h=48
  flowsim run --config liquid.yaml --snapshot out/world.snap --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorld(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringToStringVar(&opts.Sets, "set", nil, "override config keys (k=v, repeatable)")
	cmd.Flags().IntVarP(&opts.Steps, "steps", "n", 600, "steps to simulate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "reset seed (defaults to the config seed)")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "write a snapshot to this path when done")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "write the final frame as PNG")
	cmd.Flags().IntVar(&opts.PNGScale, "png-scale", 4, "pixels per cell in the PNG")
	cmd.Flags().BoolVar(&opts.ASCII, "ascii", false, "print the final grid as ASCII")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().IntVar(&opts.LogEvery, "log-every", 60, "log flow counters every N ticks at debug level")
	cmd.Flags().BoolVar(&opts.Realtime, "realtime", false, "pace steps at the configured tps instead of running flat out")

	return cmd
}

func runWorld(cmd *cobra.Command, opts *RunOptions) error {
	logger := opts.Logger()
	cfg, err := loadConfig(opts.ConfigPath, opts.Sets)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = opts.Seed
	}

	world := liquid.NewWithConfig(cfg)
	world.Reset(seed)

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	world.SetDiagnostics(liquid.MultiDiagnostics(collector, logging.NewDiagnosticsSink(logger, opts.LogEvery)))

	if opts.MetricsAddr != "" {
		stop := serveMetrics(opts.MetricsAddr, reg, logger.With("addr", opts.MetricsAddr))
		defer stop()
	}

	logger.Info("simulation started",
		"session", world.Session(),
		"seed", seed,
		"w", cfg.Width,
		"h", cfg.Height,
		"steps", opts.Steps,
	)

	ctx := cmd.Context()
	var pacer *core.FixedStep
	if opts.Realtime {
		pacer = core.NewFixedStep(cfg.TPS)
		logger.Debug("pacing steps", "tps", pacer.TPS())
	}
	summary := RunSummary{Session: world.Session().String(), Seed: seed}
	for i := 0; i < opts.Steps; i++ {
		if err := waitForStep(ctx, pacer); err != nil {
			logger.Warn("simulation interrupted", "step", world.Steps(), "error", err)
			break
		}
		world.Step()
		stats := world.Stats()
		summary.Injected += stats.Injected
		summary.Evaporated += stats.Evaporated
	}
	summary.Steps = world.Steps()
	summary.Remaining = world.TotalLiquid()
	summary.WetCells = len(world.Grid().WetCells())
	current, next := world.ActiveCoords()
	summary.ActiveCells = len(current) + len(next)

	if opts.Snapshot != "" {
		if err := liquid.WriteSnapshot(opts.Snapshot, world.Snapshot()); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		summary.Snapshot = opts.Snapshot
		logger.Info("snapshot written", "path", opts.Snapshot, "session", world.Session())
	}
	if opts.PNG != "" {
		if err := writePNG(opts.PNG, world, opts.PNGScale); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		logger.Info("frame written", "path", opts.PNG)
	}

	logger.Info("simulation finished", "steps", summary.Steps, "remaining", summary.Remaining)

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, summary)
	}
	fmt.Fprintf(out, "session    %s\n", summary.Session)
	fmt.Fprintf(out, "steps      %d\n", summary.Steps)
	fmt.Fprintf(out, "injected   %d\n", summary.Injected)
	fmt.Fprintf(out, "evaporated %d\n", summary.Evaporated)
	fmt.Fprintf(out, "remaining  %d in %d cells\n", summary.Remaining, summary.WetCells)
	fmt.Fprintf(out, "active     %d\n", summary.ActiveCells)
	if opts.ASCII {
		return liquid.WriteASCII(out, world.Grid())
	}
	return nil
}

// waitForStep blocks until pacer allows another step. A nil pacer never waits.
func waitForStep(ctx context.Context, pacer *core.FixedStep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pacer == nil {
		return nil
	}
	for !pacer.ShouldStep() {
		timer := time.NewTimer(pacer.Wait())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// serveMetrics exposes reg on addr until the returned stop function is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func writePNG(path string, world *liquid.World, scale int) error {
	size := world.Size()
	img := render.PaletteImage(world.Cells(), size.W, size.H, scale, world.Palette())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
