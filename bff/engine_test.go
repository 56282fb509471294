package bff

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	return Config{
		Width:            16,
		Height:           16,
		TapeSize:         8,
		MutationRate:     0,
		InstructionLimit: 512,
		Topology:         TopologySpatial,
		SeedingMode:      SeedingRandom,
		Seed:             42,
	}
}

// TestEngineDeterministicReplay is scenario S4: two independently
// constructed engines with identical configuration and zero mutation must
// produce byte-identical grids after the same number of interactions.
func TestEngineDeterministicReplay(t *testing.T) {
	cfg := smallConfig()

	e1, err := New(cfg)
	require.NoError(t, err)
	e2, err := New(cfg)
	require.NoError(t, err)

	e1.Step(5000)
	e2.Step(5000)

	sum1 := sha256.Sum256(e1.g.bytes())
	sum2 := sha256.Sum256(e2.g.bytes())
	require.Equal(t, sum1, sum2, "identical seed and config must replay identically")
}

// TestEngineMutationPerturbsReplay is the contrapositive check backing S5:
// a nonzero mutation rate must eventually diverge two otherwise-identical
// runs (since the mutation draw consumes additional PRNG state).
func TestEngineMutationPerturbsReplay(t *testing.T) {
	zero := smallConfig()
	mutated := zero
	mutated.MutationRate = 0.05

	eZero, err := New(zero)
	require.NoError(t, err)
	eMutated, err := New(mutated)
	require.NoError(t, err)

	eZero.Step(uint32(zero.Width * zero.Height * 3))
	eMutated.Step(uint32(zero.Width * zero.Height * 3))

	sumZero := sha256.Sum256(eZero.g.bytes())
	sumMutated := sha256.Sum256(eMutated.g.bytes())
	require.NotEqual(t, sumZero, sumMutated)
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.TapeSize = 3
	_, err := New(cfg)
	require.Error(t, err)
}

func TestEngineResetProducesBaselineCensus(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)

	stats := e.Stats()
	require.Equal(t, uint32(0), stats.Epoch)
	require.NotNil(t, stats.Census, "reset must always compute an epoch-0 census")

	history := e.History()
	require.Len(t, history, 1, "the baseline snapshot must be present immediately after reset")
}

func TestEngineUpdateConfigLiveSwapPreservesGrid(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)

	e.Step(100)
	before := e.CellAt(0, 0)

	live := e.Config()
	live.MutationRate = 0.9
	live.Topology = TopologyGlobal
	require.NoError(t, e.UpdateConfig(live))

	after := e.CellAt(0, 0)
	require.Equal(t, before, after, "a live config swap must not reallocate or reseed the grid")
}

func TestEngineUpdateConfigHardResetsOnDimensionChange(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)
	e.Step(500)

	resized := e.Config()
	resized.Width = 32
	require.NoError(t, e.UpdateConfig(resized))

	stats := e.Stats()
	require.Equal(t, uint32(0), stats.Epoch, "a dimension change must hard-reset back to epoch 0")
}

func TestEngineCellAtIsDefensiveCopy(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)

	cell := e.CellAt(0, 0)
	cell[0] = 255

	require.NotEqual(t, byte(255), e.CellAt(0, 0)[0], "mutating a returned cell must not affect engine state")
}

func TestEngineStatsMonotonicEpoch(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)

	interactionsPerEpoch := uint32(smallConfig().Width * smallConfig().Height)
	prevEpoch := e.Stats().Epoch
	for i := 0; i < 5; i++ {
		e.Step(interactionsPerEpoch)
		got := e.Stats().Epoch
		require.GreaterOrEqual(t, got, prevEpoch)
		prevEpoch = got
	}
}
