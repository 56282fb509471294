package bff

// grid is a flat byte buffer of length Width*Height*TapeSize. Cell (x,y)
// occupies bytes [(y*Width+x)*TapeSize, (y*Width+x+1)*TapeSize). Both axes
// wrap toroidally. Ownership mirrors the teacher's RAM type (nes/ram.go): a
// single allocated buffer, read and written through narrow accessors rather
// than exposed directly.
type grid struct {
	data   []byte
	width  int
	height int
	tape   int
}

func newGrid(width, height, tape int) *grid {
	return &grid{
		data:   make([]byte, width*height*tape),
		width:  width,
		height: height,
		tape:   tape,
	}
}

// wrap normalizes a coordinate into [0,n) under toroidal wraparound.
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// index returns the flat byte offset of cell (x,y) after toroidal
// normalization of both coordinates.
func (g *grid) index(x, y int) int {
	x = wrap(x, g.width)
	y = wrap(y, g.height)
	return (y*g.width + x) * g.tape
}

// cellRange returns the (offset, length) pair for cell (x,y), used
// internally by Interaction to slice directly into the backing buffer
// without a copy.
func (g *grid) cellRange(x, y int) (int, int) {
	return g.index(x, y), g.tape
}

// cellAt returns a defensive copy of cell (x,y)'s tape bytes after toroidal
// normalization, per the Engine's public accessor contract (spec.md §5, §6).
func (g *grid) cellAt(x, y int) []byte {
	off, length := g.cellRange(x, y)
	out := make([]byte, length)
	copy(out, g.data[off:off+length])
	return out
}

// bytes returns the full backing buffer, read-only by convention: callers
// that need a defensive copy must copy it themselves (the Engine exposes no
// accessor for the whole buffer). Internal callers (grid metrics, census) iterate this directly
// since they never mutate it outside the interaction/mutation passes.
func (g *grid) bytes() []byte {
	return g.data
}

func (g *grid) len() int {
	return len(g.data)
}

func (g *grid) cellCount() int {
	return g.width * g.height
}

// balancedAlphabet is the byte set seedGrid draws from under SeedingBalanced:
// every recognized opcode plus the null terminator, in equal proportion.
// spec.md leaves "balanced" seeding undefined beyond the enum name; this
// resolution is recorded in DESIGN.md.
var balancedAlphabet = []byte{
	opLess, opGreater, opLBrace, opRBrace,
	opMinus, opPlus, opDot, opComma,
	opLBrack, opRBrack, opNull,
}

// seedGrid fills g per mode, consuming PRNG draws (spec.md §3 Lifecycle,
// "reset ... fills the grid per seeding_mode").
func seedGrid(g *grid, rng *prng, mode SeedingMode) {
	switch mode {
	case SeedingBalanced:
		for i := range g.data {
			g.data[i] = balancedAlphabet[rng.intn(len(balancedAlphabet))]
		}
	default: // SeedingRandom
		for i := range g.data {
			g.data[i] = rng.byte()
		}
	}
}
