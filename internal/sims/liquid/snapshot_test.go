package liquid

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledWorld(t *testing.T) *World {
	t.Helper()
	w := NewWithConfig(smallConfig())
	w.Reset(21)
	for i := 0; i < 30; i++ {
		w.Step()
	}
	require.Positive(t, w.TotalLiquid())
	return w
}

func TestSnapshotEncodeDecode(t *testing.T) {
	snap := settledWorld(t).Snapshot()

	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, snap))
	got, err := DecodeSnapshot(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	if diff := cmp.Diff(snap, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	header, err := ReadSnapshotHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, snap.Header, header)
}

func TestFromSnapshotRestoresWorld(t *testing.T) {
	w := settledWorld(t)
	restored, err := FromSnapshot(w.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, w.Session(), restored.Session())
	assert.Equal(t, w.Steps(), restored.Steps())
	assert.Equal(t, w.Cells(), restored.Cells())
	assert.Equal(t, w.Springs(), restored.Springs())
	assert.Equal(t, w.TotalLiquid(), restored.TotalLiquid())

	wet := restored.Grid().WetCells()
	assert.Equal(t, len(wet), restored.Processor().ActiveSet().NextLen())
	for _, c := range wet {
		assert.True(t, restored.Processor().ActiveSet().Scheduled(c), "wet cell %v not active", c)
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	w := settledWorld(t)
	path := filepath.Join(t.TempDir(), "nested", "world.snap")
	require.NoError(t, WriteSnapshot(path, w.Snapshot()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	header, err := ReadSnapshotHeader(f)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, header.Version)
	assert.Equal(t, w.Session().String(), header.Session)

	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, w.Cells(), restored.Cells())
}

func TestFromSnapshotRejectsBadInput(t *testing.T) {
	base := settledWorld(t).Snapshot()

	badVersion := base
	badVersion.Header.Version = 99
	_, err := FromSnapshot(badVersion)
	assert.Error(t, err)

	shortTerrain := base
	shortTerrain.Terrain = shortTerrain.Terrain[:3]
	_, err = FromSnapshot(shortTerrain)
	assert.Error(t, err)

	badCell := base
	badCell.Cells = []SnapshotCell{{Index: -1, Amount: 1, Material: MaterialWater}}
	_, err = FromSnapshot(badCell)
	assert.Error(t, err)

	badSession := base
	badSession.Header.Session = "not-a-uuid"
	_, err = FromSnapshot(badSession)
	assert.Error(t, err)
}

func TestFromSnapshotClampsAmounts(t *testing.T) {
	snap := New(2, 1).Snapshot()
	snap.Config.Params.SpringCount = 0
	snap.Cells = []SnapshotCell{{Index: 0, Amount: 50, Material: MaterialWater}}

	w, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPerCell, amountAt(w.Grid(), Coord{X: 0, Y: 0}))
}
