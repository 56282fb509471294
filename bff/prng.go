package bff

// prng is a Mulberry32 generator: a single 32-bit word of state advanced by
// a fixed mixing function. It is used for physics only — cell selection,
// neighbor offsets, mutation sites and mutation values — never for
// statistics passes, which must use deterministic strided sampling so that
// observation never perturbs the physics timeline (spec.md §4.1).
type prng struct {
	state uint32
}

func newPRNG(seed uint32) *prng {
	return &prng{state: seed}
}

// reseed resets the stream to start from seed again.
func (p *prng) reseed(seed uint32) {
	p.state = seed
}

// next returns a float64 in [0,1), following the Mulberry32 reference mix.
func (p *prng) next() float64 {
	p.state += 0x6D2B79F5
	t := p.state
	t = imul32(t^(t>>15), t|1)
	t ^= imul32(t^(t>>7), t|61) + t
	return float64((t^(t>>14))>>0) / 4294967296.0
}

// intn returns a uniform integer in [0, n).
func (p *prng) intn(n int) int {
	return int(p.next() * float64(n))
}

// byte returns a uniform byte in [0,255].
func (p *prng) byte() byte {
	return byte(p.intn(256))
}

// imul32 performs the low-32-bit result of signed 32-bit multiplication, the
// JS "Math.imul" contract the Mulberry32 reference implementation depends on.
func imul32(a, b uint32) uint32 {
	return uint32(int32(a) * int32(b))
}
