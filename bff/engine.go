package bff

import "github.com/golang/glog"

// Engine owns every buffer the simulation needs: the grid, the PRNG stream,
// the VM's scratch tape and jump table, and the epoch accumulators. It is
// single-threaded and synchronous (spec.md §5) — Step never yields. CellAt
// and History return copies; the census reached through Stats, Census or a
// History entry shares its TopSpecies (and, via Stats and History, the
// CensusSnapshot itself) with the engine.
type Engine struct {
	cfg Config

	g   *grid
	rng *prng
	vm  *vm
	buf []byte // reused 2*TapeSize interaction scratch buffer

	acc     epochAccumulators
	stats   StatsSnapshot
	history *History

	unmatchedStreak int // consecutive interactions that hit an unmatched bracket
}

// unmatchedBracketWarnThreshold gates the purely observational diagnostic
// log in interact(): it never alters counters or control flow (spec.md §4.11).
const unmatchedBracketWarnThreshold = 64

// New allocates an Engine for config and runs its initial Reset. Returns a
// wrapped error (never a partial Engine) if config is rejected (spec.md §7).
func New(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: config}
	e.allocate()
	e.Reset()
	return e, nil
}

// allocate (re)creates the grid, VM scratch buffers and interaction buffer
// for the current e.cfg. Called once from New and again from UpdateConfig
// whenever a hard reset is required.
func (e *Engine) allocate() {
	e.g = newGrid(e.cfg.Width, e.cfg.Height, e.cfg.TapeSize)
	e.vm = newVM(e.cfg.TapeSize)
	e.buf = make([]byte, 2*e.cfg.TapeSize)
	e.history = newHistory()
}

// Reset re-seeds the PRNG, refills the grid per the configured seeding
// mode, records the baseline snapshot (including an epoch-0 census, per
// the preserved Open Question in spec.md §9), and zeroes accumulators
// (spec.md §3 Lifecycle).
func (e *Engine) Reset() {
	e.rng = newPRNG(e.cfg.Seed)
	e.acc.reset()
	seedGrid(e.g, e.rng, e.cfg.SeedingMode)

	census := computeCensus(e.g)
	entropy, zeroDensity := gridMetrics(e.g)
	e.stats = StatsSnapshot{
		Epoch:           0,
		Entropy:         entropy,
		ZeroDensity:     zeroDensity,
		Census:          &census,
		LastCensusEpoch: 0,
	}
	e.history.seed(e.stats)
}

// UpdateConfig swaps configuration live, or performs a hard reset iff
// Width, Height, TapeSize or Seed changed (spec.md §4.9). Construction
// rejections are reported synchronously and leave the Engine untouched.
func (e *Engine) UpdateConfig(next Config) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if needsHardReset(e.cfg, next) {
		glog.V(1).Infof("bff: hard reset on config change: %+v -> %+v", e.cfg, next)
		e.cfg = next
		e.allocate()
		e.Reset()
		return nil
	}
	e.cfg = next
	return nil
}

// CellAt returns a defensive copy of cell (x,y)'s tape bytes after toroidal
// normalization (spec.md §6).
func (e *Engine) CellAt(x, y int) []byte {
	return e.g.cellAt(x, y)
}

// Stats returns the current epoch's statistics by value (spec.md §6).
func (e *Engine) Stats() StatsSnapshot {
	return e.stats
}

// Census returns the most recently computed census snapshot. Before the
// first census this is the epoch-0 baseline census (never the zero value),
// because reset always computes one (spec.md §9 Open Question).
func (e *Engine) Census() CensusSnapshot {
	if e.stats.Census == nil {
		return CensusSnapshot{}
	}
	return *e.stats.Census
}

// History returns the ordered sequence of stats snapshots recorded so far
// (spec.md §6).
func (e *Engine) History() []StatsSnapshot {
	return e.history.snapshot()
}

// HistoryExport serializes and compresses the full history sequence for an
// external collaborator (SPEC_FULL.md §4.13).
func (e *Engine) HistoryExport() ([]byte, error) {
	return e.history.Export()
}

// Palette returns the fixed 1024-byte RGBA palette consumed by the
// rendering collaborator (spec.md §6).
func (e *Engine) Palette() [1024]byte {
	return Palette()
}

// Config returns a copy of the Engine's current configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
