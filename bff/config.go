package bff

import "github.com/pkg/errors"

// Topology selects how an interaction's second tape is sampled.
type Topology int

const (
	// TopologySpatial samples B as a small offset from A, wrapping toroidally.
	TopologySpatial Topology = iota
	// TopologyGlobal samples B uniformly from the whole grid.
	TopologyGlobal
)

// SeedingMode selects how the grid is filled on reset.
type SeedingMode int

const (
	// SeedingRandom fills every tape byte with a uniform random value.
	SeedingRandom SeedingMode = iota
	// SeedingBalanced fills tapes with a fixed opcode mix rather than pure noise.
	SeedingBalanced
)

// Config holds the immutable-within-a-run parameters of an Engine.
//
// Width, Height and TapeSize are fixed for the life of an Engine: changing
// any of them (or the Seed) forces a hard Reset. MutationRate,
// InstructionLimit, Topology and SeedingMode can be swapped live via
// UpdateConfig.
type Config struct {
	Width            int
	Height           int
	TapeSize         int
	MutationRate     float64
	InstructionLimit int
	Topology         Topology
	SeedingMode      SeedingMode
	Seed             uint32
}

// Sentinel construction-rejection errors. Callers can distinguish failure
// categories with errors.Is / errors.Cause.
var (
	ErrInvalidTapeSize         = errors.New("bff: tape_size must be a power of two")
	ErrEmptyGrid               = errors.New("bff: grid_width, grid_height and tape_size must all be positive")
	ErrInvalidMutationRate     = errors.New("bff: mutation_rate must be in [0,1]")
	ErrInvalidInstructionLimit = errors.New("bff: instruction_limit must be positive")
)

// Validate reports the first construction-rejection found in c, wrapped with
// context via pkg/errors. It never mutates c.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.TapeSize <= 0 {
		return errors.Wrapf(ErrEmptyGrid, "width=%d height=%d tape_size=%d", c.Width, c.Height, c.TapeSize)
	}
	if !isPowerOfTwo(c.TapeSize) {
		return errors.Wrapf(ErrInvalidTapeSize, "tape_size=%d", c.TapeSize)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return errors.Wrapf(ErrInvalidMutationRate, "mutation_rate=%f", c.MutationRate)
	}
	if c.InstructionLimit <= 0 {
		return errors.Wrapf(ErrInvalidInstructionLimit, "instruction_limit=%d", c.InstructionLimit)
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// needsHardReset reports whether moving from old to new requires
// reallocating the grid and reseeding the PRNG (spec.md §4.9).
func needsHardReset(old, next Config) bool {
	return old.Width != next.Width ||
		old.Height != next.Height ||
		old.TapeSize != next.TapeSize ||
		old.Seed != next.Seed
}
