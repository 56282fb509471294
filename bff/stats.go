package bff

import (
	"math"

	"github.com/golang/glog"
)

// StatsSnapshot is the Engine's per-epoch statistics (spec.md §3). It is
// returned and stored by value, but Census is a pointer: the CensusSnapshot
// it points to (and its TopSpecies slice) is shared with the Engine's own
// stats and history, not copied.
type StatsSnapshot struct {
	Epoch                uint32
	AvgComplexity        float64
	ReplicationRate      float64
	EffectiveReplication float64
	Entropy              float64
	ZeroDensity          float64
	Census               *CensusSnapshot
	LastCensusEpoch      uint32
}

// census epoch stride: a census is recomputed every 50 epochs.
const censusEveryEpochs = 50

// epochAccumulators holds the per-interaction running totals between
// complete_epoch calls (spec.md §4.4 step 5). Reset to zero at the end of
// every epoch.
type epochAccumulators struct {
	interactions    int
	totalComplexity int
	totalCopies     int
	totalEffective  int
}

func (a *epochAccumulators) reset() {
	*a = epochAccumulators{}
}

// completeEpoch runs the mutation pass, refreshes the running averages,
// recomputes grid metrics, conditionally recomputes the census, applies the
// history compression policy, and zeroes the accumulators (spec.md §4.5).
func (e *Engine) completeEpoch() {
	e.mutate()

	e.stats.Epoch++

	cells := float64(e.cfg.Width * e.cfg.Height)
	e.stats.AvgComplexity = float64(e.acc.totalComplexity) / cells
	e.stats.ReplicationRate = float64(e.acc.totalCopies) / cells
	e.stats.EffectiveReplication = float64(e.acc.totalEffective) / cells

	entropy, zeroDensity := gridMetrics(e.g)
	e.stats.Entropy = entropy
	e.stats.ZeroDensity = zeroDensity

	if e.stats.Epoch%censusEveryEpochs == 0 {
		census := computeCensus(e.g)
		e.stats.Census = &census
		e.stats.LastCensusEpoch = e.stats.Epoch
		glog.V(2).Infof("census complete: epoch=%d species_count=%d", e.stats.Epoch, census.SpeciesCount)
	}

	e.history.apply(e.stats)
	e.acc.reset()
}

// mutate applies the expected-value mutation pass: E = W*H*T*mutationRate
// bytes are perturbed, where the fractional remainder of E is resolved by a
// single Bernoulli draw so the expectation is exact in the limit (spec.md
// §4.5 step 1).
func (e *Engine) mutate() {
	if e.cfg.MutationRate <= 0 {
		return
	}
	total := e.g.len()
	expected := float64(total) * e.cfg.MutationRate
	k := int(expected)
	if e.rng.next() < expected-float64(k) {
		k++
	}
	data := e.g.bytes()
	for i := 0; i < k; i++ {
		idx := e.rng.intn(total)
		data[idx] = e.rng.byte()
	}
}

// samplingRate is the deterministic stride fraction shared by grid metrics
// (over bytes) and census (over cells): both sample 10% of their domain
// (spec.md §4.6, §4.7).
const samplingRate = 0.1

// gridMetricsStride is floor(1/samplingRate), bumped to the next odd number
// so it stays coprime with power-of-two tape sizes.
func gridMetricsStride() int {
	step := int(1 / samplingRate)
	if step%2 == 0 {
		return step + 1
	}
	return step
}

// gridMetrics computes Shannon entropy (base-2, over byte values) and zero
// density from a 10%-strided deterministic sample of the full grid buffer.
// It never consumes PRNG draws (spec.md §4.6, Design Note "sampling vs PRNG
// separation").
func gridMetrics(g *grid) (entropy, zeroDensity float64) {
	stride := gridMetricsStride()
	data := g.bytes()
	var histogram [256]int
	samples := 0
	for i := 0; i < len(data); i += stride {
		histogram[data[i]]++
		samples++
	}
	if samples == 0 {
		return 0, 0
	}
	entropy = shannonEntropy(histogram[:], samples)
	zeroDensity = float64(histogram[0]) / float64(samples)
	return entropy, zeroDensity
}

// shannonEntropy computes -sum p_i*log2(p_i) over nonzero buckets of counts,
// where n is the total sample count.
func shannonEntropy(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}
