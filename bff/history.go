package bff

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zstd"
)

// historyEntropyThreshold and historyZeroDensityThreshold gate the history
// compression policy (spec.md §4.5 "History compression policy").
const (
	historyEntropyThreshold     = 0.1
	historyZeroDensityThreshold = 0.05
)

// History is the append-only, ordered sequence of stats snapshots produced
// across epochs (spec.md §3). The baseline snapshot at epoch 0 is always
// present (Invariant 6).
type History struct {
	entries []StatsSnapshot
}

func newHistory() *History {
	return &History{}
}

// seed records the baseline snapshot unconditionally, per Invariant 6 and
// the reset lifecycle (spec.md §3 Lifecycle).
func (h *History) seed(baseline StatsSnapshot) {
	h.entries = []StatsSnapshot{baseline}
}

// apply runs the history compression policy against the most recently
// pushed entry and appends snap if it qualifies (spec.md §4.5):
//   - always push on a census epoch,
//   - otherwise push if |Δentropy| > 0.1 or |Δzero_density| > 0.05 versus
//     the last pushed snapshot.
func (h *History) apply(snap StatsSnapshot) {
	if len(h.entries) == 0 {
		h.entries = append(h.entries, snap)
		return
	}
	last := h.entries[len(h.entries)-1]
	isCensusEpoch := snap.LastCensusEpoch == snap.Epoch
	dEntropy := math.Abs(snap.Entropy - last.Entropy)
	dZero := math.Abs(snap.ZeroDensity - last.ZeroDensity)
	if isCensusEpoch || dEntropy > historyEntropyThreshold || dZero > historyZeroDensityThreshold {
		h.entries = append(h.entries, snap)
	}
}

// snapshot returns a defensive copy of the full history sequence, per the
// Engine's read-only accessor contract (spec.md §5, §6).
func (h *History) snapshot() []StatsSnapshot {
	out := make([]StatsSnapshot, len(h.entries))
	copy(out, h.entries)
	return out
}

// Export serializes the full history sequence to a compact binary encoding
// and compresses it with zstd (spec.md §3 "History", SPEC_FULL.md §4.13).
// This is a pure, synchronous, in-memory transform for an external
// collaborator (a report generator, a log shipper, a test fixture); the
// engine never calls it on its own and it never touches disk.
func (h *History) Export() ([]byte, error) {
	var raw bytes.Buffer
	if err := binary.Write(&raw, binary.LittleEndian, uint32(len(h.entries))); err != nil {
		return nil, err
	}
	for _, snap := range h.entries {
		if err := encodeSnapshot(&raw, snap); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	enc, err := zstd.NewWriter(&out)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ImportForTest decodes a payload produced by Export back into the stats
// snapshot sequence it encoded, decompressing the zstd frame and reversing
// encodeSnapshot field-for-field (spec.md §3 "History", SPEC_FULL.md
// §4.13). It is test/debugging plumbing, not part of the engine's own
// lifecycle: nothing in Engine calls it, and the Code (textual fingerprint)
// of any decoded species is left empty, since encodeSnapshot never persists
// it — only Rank, Count, Dominance, Entropy and Hash round-trip.
func ImportForTest(data []byte) ([]StatsSnapshot, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(raw)
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	entries := make([]StatsSnapshot, count)
	for i := range entries {
		snap, err := decodeSnapshot(r)
		if err != nil {
			return nil, err
		}
		entries[i] = snap
	}
	return entries, nil
}

func decodeSnapshot(r *bytes.Reader) (StatsSnapshot, error) {
	var snap StatsSnapshot
	fields := []interface{}{
		&snap.Epoch,
		&snap.AvgComplexity,
		&snap.ReplicationRate,
		&snap.EffectiveReplication,
		&snap.Entropy,
		&snap.ZeroDensity,
		&snap.LastCensusEpoch,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return StatsSnapshot{}, err
		}
	}

	var speciesCount uint32
	if err := binary.Read(r, binary.LittleEndian, &speciesCount); err != nil {
		return StatsSnapshot{}, err
	}
	if speciesCount == 0 {
		return snap, nil
	}

	top := make([]Species, speciesCount)
	for i := range top {
		var rank, count uint32
		var sp Species
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return StatsSnapshot{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return StatsSnapshot{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &sp.Dominance); err != nil {
			return StatsSnapshot{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &sp.Entropy); err != nil {
			return StatsSnapshot{}, err
		}
		if err := binary.Read(r, binary.LittleEndian, &sp.Hash); err != nil {
			return StatsSnapshot{}, err
		}
		sp.Rank = int(rank)
		sp.Count = int(count)
		top[i] = sp
	}
	snap.Census = &CensusSnapshot{SpeciesCount: len(top), TopSpecies: top}
	return snap, nil
}

func encodeSnapshot(w *bytes.Buffer, snap StatsSnapshot) error {
	fields := []interface{}{
		snap.Epoch,
		snap.AvgComplexity,
		snap.ReplicationRate,
		snap.EffectiveReplication,
		snap.Entropy,
		snap.ZeroDensity,
		snap.LastCensusEpoch,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	speciesCount := 0
	if snap.Census != nil {
		speciesCount = len(snap.Census.TopSpecies)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(speciesCount)); err != nil {
		return err
	}
	if snap.Census == nil {
		return nil
	}
	for _, sp := range snap.Census.TopSpecies {
		if err := binary.Write(w, binary.LittleEndian, uint32(sp.Rank)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(sp.Count)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, sp.Dominance); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, sp.Entropy); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, sp.Hash); err != nil {
			return err
		}
	}
	return nil
}
