package app

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"liquid-ca/internal/core"
	"liquid-ca/internal/sims/liquid"
)

// Config holds the GUI command line options.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	ConfigPath string
	HUDWidth   int
	LogLevel   string
	Sets       KeyValues
}

// NewConfig returns the default GUI options.
func NewConfig() Config {
	return Config{
		Sim:      "liquid",
		Scale:    6,
		TPS:      60,
		Seed:     1337,
		HUDWidth: 280,
		LogLevel: "info",
		Sets:     KeyValues{},
	}
}

// Bind registers the options on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	if c.Sets == nil {
		c.Sets = KeyValues{}
	}
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "screen pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "reset seed")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels, 0 hides it")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.Var(c.Sets, "set", "override a config key, k=v (repeatable)")
}

// KeyValues collects repeated k=v flags.
type KeyValues map[string]string

func (kv KeyValues) String() string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + kv[k]
	}
	return strings.Join(parts, ",")
}

// Set parses one k=v pair.
func (kv KeyValues) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	kv[k] = strings.TrimSpace(v)
	return nil
}

// BuildSim constructs the selected simulation. The liquid world honours the
// YAML file and overrides; other simulations receive the overrides as their
// option map.
func BuildSim(c Config) (core.Sim, error) {
	if c.Sim != "liquid" {
		factory, err := core.Lookup(c.Sim)
		if err != nil {
			return nil, err
		}
		return factory(c.Sets), nil
	}

	cfg := liquid.DefaultConfig()
	if c.ConfigPath != "" {
		loaded, err := liquid.LoadConfig(c.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if c.TPS > 0 {
		cfg.TPS = c.TPS
	}
	cfg.Seed = c.Seed
	if len(c.Sets) > 0 {
		if err := cfg.Apply(c.Sets); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return liquid.NewWithConfig(cfg), nil
}
