package bff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintInjective(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 4}
	c := []byte{1, 2, 3}

	require.NotEqual(t, fingerprint(a), fingerprint(b), "differing tapes must not collide")
	require.Equal(t, fingerprint(a), fingerprint(c), "identical tapes must produce identical fingerprints")
}

func TestFingerprintNoDelimiterAmbiguity(t *testing.T) {
	// {1, 23} and {12, 3} must not collide just because their decimal digits
	// concatenate the same way without the comma delimiter.
	require.NotEqual(t, fingerprint([]byte{1, 23}), fingerprint([]byte{12, 3}))
}

func TestGenomeEntropyUniformIsMaximal(t *testing.T) {
	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}
	constant := make([]byte, 256)

	require.InDelta(t, 8.0, genomeEntropy(uniform), 1e-9, "256 distinct bytes in equal proportion is 8 bits of entropy")
	require.Equal(t, 0.0, genomeEntropy(constant), "a constant tape has zero entropy")
}

func TestComputeCensusRanksByCount(t *testing.T) {
	g := newGrid(8, 8, 4)
	// Fill every cell with the same tape, so the census collapses to a
	// single species spanning the whole (sampled) population.
	for c := 0; c < g.cellCount(); c++ {
		off := c * g.tape
		copy(g.data[off:off+g.tape], []byte{1, 2, 3, 4})
	}

	census := computeCensus(g)

	require.Equal(t, 1, census.SpeciesCount)
	require.Len(t, census.TopSpecies, 1)
	require.Equal(t, 1, census.TopSpecies[0].Rank)
	require.InDelta(t, 1.0, census.TopSpecies[0].Dominance, 1e-9)
}

func TestComputeCensusTopFiveCap(t *testing.T) {
	g := newGrid(8, 8, 1)
	// Every cell distinct (cycled over 0..63), guaranteeing more than five
	// species; only the top five by count may be returned.
	for c := 0; c < g.cellCount(); c++ {
		g.data[c] = byte(c)
	}

	census := computeCensus(g)

	require.LessOrEqual(t, len(census.TopSpecies), topSpeciesCount)
}
