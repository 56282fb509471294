package bff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShannonEntropyBounds(t *testing.T) {
	require.Equal(t, 0.0, shannonEntropy([]int{10}, 10), "a single bucket has zero entropy")

	uniform := make([]int, 4)
	for i := range uniform {
		uniform[i] = 10
	}
	require.InDelta(t, 2.0, shannonEntropy(uniform, 40), 1e-9, "4 equally likely buckets is 2 bits")
}

func TestGridMetricsZeroDensityOnEmptyGrid(t *testing.T) {
	g := newGrid(8, 8, 8)
	entropy, zeroDensity := gridMetrics(g)

	require.Equal(t, 0.0, entropy, "an all-zero grid has zero entropy (a single bucket)")
	require.Equal(t, 1.0, zeroDensity)
}

func TestGridMetricsStrideIsOdd(t *testing.T) {
	stride := gridMetricsStride()
	require.Equal(t, 1, stride%2, "stride must be odd so it stays coprime with power-of-two tape sizes")
}

// TestMutateExpectedCount is a scaled-down variant of scenario S5: over many
// epochs, the observed mutation count should track the closed-form
// expectation E = W*H*T*mutationRate within a wide tolerance band.
func TestMutateExpectedCount(t *testing.T) {
	cfg := Config{
		Width: 16, Height: 16, TapeSize: 16,
		MutationRate: 0.05, InstructionLimit: 64,
		Topology: TopologySpatial, SeedingMode: SeedingRandom, Seed: 7,
	}
	e, err := New(cfg)
	require.NoError(t, err)

	before := make([]byte, len(e.g.bytes()))
	copy(before, e.g.bytes())

	const epochs = 20
	for i := 0; i < epochs; i++ {
		e.mutate()
	}

	after := e.g.bytes()
	changed := 0
	for i := range before {
		if before[i] != after[i] {
			changed++
		}
	}

	expectedPerEpoch := float64(cfg.Width*cfg.Height*cfg.TapeSize) * cfg.MutationRate
	expectedTotal := expectedPerEpoch * epochs
	require.Greater(t, float64(changed), expectedTotal*0.3, "observed mutation count far below expectation")
	require.Less(t, float64(changed), expectedTotal*2.5, "observed mutation count far above expectation (collisions aside)")
}
