package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"liquid-ca/internal/logging"
	"liquid-ca/internal/sims/liquid"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	Format   string // "json" | "text"

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the flowsim CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "flowsim",
		Short: "Headless liquid flow simulator",
		Long:  "Run, sweep and inspect the tile-grid liquid flow cellular automaton without a window.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level, err := logging.ParseLevel(opts.LogLevel)
			if err != nil {
				return err
			}
			opts.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// Logger returns the logger configured by the root command, or a no-op logger
// when a subcommand runs on its own.
func (o *RootOptions) Logger() *slog.Logger {
	if o == nil || o.logger == nil {
		return logging.NewNop()
	}
	return o.logger
}

// loadConfig layers the YAML file and k=v overrides on top of the defaults.
func loadConfig(path string, sets map[string]string) (liquid.Config, error) {
	cfg := liquid.DefaultConfig()
	if path != "" {
		loaded, err := liquid.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if len(sets) > 0 {
		if err := cfg.Apply(sets); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
