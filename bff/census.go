package bff

import (
	"hash"
	"math"
	"sort"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
)

// topSpeciesCount is K in spec.md §3/§4.7.
const topSpeciesCount = 5

// Species is one ranked entry of a census (spec.md §3).
type Species struct {
	Rank      int
	Code      string // canonical comma-joined decimal serialization of the tape
	Hash      uint64 // seahash digest of the same tape bytes, for cheap comparison/export
	Count     int
	Dominance float64
	Entropy   float64
}

// CensusSnapshot is a periodic species inventory (spec.md §3, §4.7).
type CensusSnapshot struct {
	SpeciesCount int
	TopSpecies   []Species
}

type censusEntry struct {
	bytes []byte
	hash  uint64
	count int
}

// computeCensus takes a strided sample of cells (not bytes), fingerprints
// each one, and ranks the top-K species by sample count. Like gridMetrics,
// this never touches the PRNG (spec.md §4.7, Design Note "sampling vs PRNG
// separation").
func computeCensus(g *grid) CensusSnapshot {
	stride := gridMetricsStride()
	cellCount := g.cellCount()

	h := seahash.New()
	entries := make(map[string]*censusEntry)
	sampledTotal := 0
	for i := 0; i < cellCount; i += stride {
		off := i * g.tape
		tape := g.data[off : off+g.tape]
		code := fingerprint(tape)
		e, ok := entries[code]
		if !ok {
			b := make([]byte, g.tape)
			copy(b, tape)
			e = &censusEntry{bytes: b, hash: hashTape(h, b)}
			entries[code] = e
		}
		e.count++
		sampledTotal++
	}

	if sampledTotal == 0 {
		return CensusSnapshot{SpeciesCount: 0, TopSpecies: nil}
	}

	ranked := make([]Species, 0, len(entries))
	for code, e := range entries {
		ranked = append(ranked, Species{
			Code:      code,
			Hash:      e.hash,
			Count:     e.count,
			Dominance: float64(e.count) / float64(sampledTotal),
			Entropy:   genomeEntropy(e.bytes),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Code < ranked[j].Code // deterministic tie-break
	})
	if len(ranked) > topSpeciesCount {
		ranked = ranked[:topSpeciesCount]
	}

	w := float64(cellCount)
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Count = int(math.Floor(ranked[i].Dominance * w))
	}

	return CensusSnapshot{
		SpeciesCount: len(entries),
		TopSpecies:   ranked,
	}
}

// hashTape resets the shared hasher and digests b, avoiding a per-cell
// hash.Hash64 allocation across the strided census pass (spec.md §4.12).
func hashTape(h hash.Hash64, b []byte) uint64 {
	h.Reset()
	h.Write(b)
	return h.Sum64()
}

// fingerprint serializes a tape as comma-joined decimal byte values. Two
// tapes collide here iff their byte sequences are identical (spec.md §4.7,
// Design Note "census serialization"); a seahash digest of the same bytes
// (see Species.Hash) is kept alongside for callers that want a cheap
// fixed-width comparison key instead of the textual form.
func fingerprint(tape []byte) string {
	var b strings.Builder
	b.Grow(len(tape) * 4)
	for i, v := range tape {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}

// genomeEntropy computes the Shannon entropy of a single tape's byte
// histogram, normalized by its length (spec.md §4.8). Pure function, no
// PRNG use.
func genomeEntropy(tape []byte) float64 {
	var histogram [256]int
	for _, b := range tape {
		histogram[b]++
	}
	return shannonEntropy(histogram[:], len(tape))
}
