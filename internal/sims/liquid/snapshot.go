package liquid

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// SnapshotVersion is the format written by EncodeSnapshot.
const SnapshotVersion = 1

// SnapshotHeader is written as a JSON line ahead of the gob body so tools can
// identify a snapshot without decoding it.
type SnapshotHeader struct {
	Version int    `json:"version"`
	Session string `json:"session"`
	Tick    uint64 `json:"tick"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
}

// SnapshotCell is one created liquid state.
type SnapshotCell struct {
	Index    int
	Amount   int
	Material Material
	Flow     Direction
}

// Snapshot is the persisted form of a world.
type Snapshot struct {
	Header  SnapshotHeader
	Config  Config
	Terrain []uint8
	Cells   []SnapshotCell
	Springs []Coord
}

// Snapshot captures terrain, liquid state and springs. Scheduler state is not
// kept; restoring re-activates every wet cell instead.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Header: SnapshotHeader{
			Version: SnapshotVersion,
			Session: w.session.String(),
			Tick:    w.steps,
			Width:   w.w,
			Height:  w.h,
		},
		Config:  w.cfg,
		Terrain: append([]uint8(nil), w.grid.terrain.Cells()...),
		Springs: w.Springs(),
	}
	for i, st := range w.grid.liquid {
		if st == nil {
			continue
		}
		s.Cells = append(s.Cells, SnapshotCell{Index: i, Amount: st.Amount, Material: st.Material, Flow: st.Flow})
	}
	return s
}

// FromSnapshot rebuilds a world from s.
func FromSnapshot(s Snapshot) (*World, error) {
	if s.Header.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported", s.Header.Version)
	}
	cfg := s.Config
	cfg.Width = s.Header.Width
	cfg.Height = s.Header.Height
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot config: %w", err)
	}
	total := cfg.Width * cfg.Height
	if len(s.Terrain) != total {
		return nil, fmt.Errorf("snapshot terrain has %d cells, want %d", len(s.Terrain), total)
	}
	session, err := uuid.Parse(s.Header.Session)
	if err != nil {
		return nil, fmt.Errorf("snapshot session: %w", err)
	}

	w := NewWithConfig(cfg)
	copy(w.grid.terrain.Cells(), s.Terrain)
	for _, cell := range s.Cells {
		if cell.Index < 0 || cell.Index >= total {
			return nil, fmt.Errorf("snapshot cell index %d out of range", cell.Index)
		}
		if Terrain(s.Terrain[cell.Index]) != TerrainOpen {
			continue
		}
		st := &LiquidState{Amount: cell.Amount, Material: cell.Material, Flow: cell.Flow}
		if st.Amount > cfg.Params.MaxPerCell {
			st.Amount = cfg.Params.MaxPerCell
		}
		if st.Amount <= 0 {
			st.Amount = 0
			st.Material = MaterialNone
		}
		w.grid.liquid[cell.Index] = st
	}
	w.springs = append(w.springs[:0], s.Springs...)
	w.session = session
	w.steps = s.Header.Tick
	for _, c := range w.grid.WetCells() {
		w.proc.Activate(c)
	}
	w.rebuildDisplay()
	return w, nil
}

// EncodeSnapshot writes s as a zstd stream holding a JSON header line followed
// by the gob-encoded snapshot.
func EncodeSnapshot(out io.Writer, s Snapshot) error {
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(s.Header)
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&s); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// DecodeSnapshot reads a stream written by EncodeSnapshot.
func DecodeSnapshot(in io.Reader) (Snapshot, error) {
	var s Snapshot
	dec, err := zstd.NewReader(in)
	if err != nil {
		return s, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	if _, err := br.ReadBytes('\n'); err != nil {
		return s, fmt.Errorf("snapshot header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&s); err != nil {
		return s, fmt.Errorf("gob decode: %w", err)
	}
	return s, nil
}

// ReadSnapshotHeader decodes only the JSON header line.
func ReadSnapshotHeader(in io.Reader) (SnapshotHeader, error) {
	var h SnapshotHeader
	dec, err := zstd.NewReader(in)
	if err != nil {
		return h, err
	}
	defer dec.Close()
	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("snapshot header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("snapshot header: %w", err)
	}
	return h, nil
}

// WriteSnapshot stores s at path, creating parent directories.
func WriteSnapshot(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := EncodeSnapshot(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}
