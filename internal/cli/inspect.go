package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"liquid-ca/internal/sims/liquid"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	NoGrid bool
}

// InspectReport is the summary printed for a snapshot.
type InspectReport struct {
	Header   liquid.SnapshotHeader `json:"header"`
	Total    int                   `json:"total"`
	WetCells int                   `json:"wet_cells"`
	Springs  int                   `json:"springs"`
	Rock     int                   `json:"rock"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Describe a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.NoGrid, "no-grid", false, "omit the ASCII grid")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *InspectOptions, path string) error {
	snap, err := liquid.ReadSnapshot(path)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}
	world, err := liquid.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("restore snapshot %s: %w", path, err)
	}
	opts.Logger().Debug("snapshot loaded", "path", path, "session", snap.Header.Session)

	report := InspectReport{
		Header:   snap.Header,
		Total:    world.TotalLiquid(),
		WetCells: len(world.Grid().WetCells()),
		Springs:  len(world.Springs()),
		Rock:     world.Grid().RockCount(),
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, report)
	}
	fmt.Fprintf(out, "session  %s\n", report.Header.Session)
	fmt.Fprintf(out, "version  %d\n", report.Header.Version)
	fmt.Fprintf(out, "tick     %d\n", report.Header.Tick)
	fmt.Fprintf(out, "size     %dx%d\n", report.Header.Width, report.Header.Height)
	fmt.Fprintf(out, "liquid   %d in %d cells\n", report.Total, report.WetCells)
	fmt.Fprintf(out, "springs  %d\n", report.Springs)
	fmt.Fprintf(out, "rock     %d\n", report.Rock)
	if opts.NoGrid {
		return nil
	}
	fmt.Fprintln(out)
	return liquid.WriteASCII(out, world.Grid())
}
