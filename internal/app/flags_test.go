package app

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquid-ca/internal/core"
	"liquid-ca/internal/sims/liquid"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("ca", flag.ContinueOnError)
	cfg.Bind(fs)

	err := fs.Parse([]string{"-scale", "3", "-seed", "7", "-set", "w=32", "-set", "evaporation_chance=0"})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scale)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, KeyValues{"w": "32", "evaporation_chance": "0"}, cfg.Sets)
	assert.Equal(t, "evaporation_chance=0,w=32", cfg.Sets.String())
}

func TestKeyValuesRejectsMissingEquals(t *testing.T) {
	kv := KeyValues{}
	assert.Error(t, kv.Set("w"))
	assert.Error(t, kv.Set("=3"))
	assert.NoError(t, kv.Set("h=4"))
}

func TestBuildSimAppliesOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Sets = KeyValues{"w": "20", "h": "10"}

	sim, err := BuildSim(cfg)
	require.NoError(t, err)
	assert.Equal(t, core.Size{W: 20, H: 10}, sim.Size())

	world, ok := sim.(*liquid.World)
	require.True(t, ok)
	assert.Equal(t, int64(1337), world.Config().Seed)
	assert.Equal(t, 60, world.Config().TPS)
}

func TestBuildSimReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liquid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("w: 12\nh: 6\nmax_per_cell: 4\n"), 0o644))

	cfg := NewConfig()
	cfg.ConfigPath = path
	cfg.Sets = KeyValues{"h": "9"}
	sim, err := BuildSim(cfg)
	require.NoError(t, err)

	world := sim.(*liquid.World)
	assert.Equal(t, core.Size{W: 12, H: 9}, world.Size())
	assert.Equal(t, 4, world.Config().Params.MaxPerCell)
}

func TestBuildSimErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Sim = "nope"
	_, err := BuildSim(cfg)
	assert.Error(t, err)

	cfg = NewConfig()
	cfg.Sets = KeyValues{"bogus": "1"}
	_, err = BuildSim(cfg)
	assert.ErrorIs(t, err, liquid.ErrInvalidConfig)

	cfg = NewConfig()
	cfg.ConfigPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = BuildSim(cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
