package bff

// vmResult holds the counters produced by one VM execution (spec.md §4.3).
type vmResult struct {
	complexity     int
	copies         int
	neighborWrites int
	unmatchedJump  bool // true iff execution stopped early on an unmatched bracket
}

// vm executes one BFF program over a shared 2*T scratch tape. A single vm
// is allocated per Engine and reused across interactions (spec.md §5,
// Design Note "shared mutable grid with transient cursor state") — the
// jump-table buffer is sized once for 2*T and overwritten by buildJumps on
// every call, mirroring the teacher's pattern of one CPU owning one set of
// cursors across its whole run (nes/cpu.go's CPU.Do).
type vm struct {
	size  int   // 2*T
	mask  int   // 2*T - 1
	jumps []int // scratch buffer of length size, rebuilt every execute()
}

func newVM(tapeSize int) *vm {
	size := 2 * tapeSize
	return &vm{
		size:  size,
		mask:  size - 1,
		jumps: make([]int, size),
	}
}

// buildJumps fills v.jumps for the current tape contents: jumps[i] is the
// matched bracket target for a '[' or ']' at i, or -1 if no match was found
// within one full wraparound scan (spec.md §4.3 pre-pass, preserved
// verbatim including the "wrap past the tape end" allowance — see
// DESIGN.md's Open Question note).
func (v *vm) buildJumps(tape []byte) {
	for i := range v.jumps {
		v.jumps[i] = -1
	}
	for i, b := range tape {
		switch b {
		case opLBrack:
			v.jumps[i] = v.scanForwardMatch(tape, i)
		case opRBrack:
			v.jumps[i] = v.scanBackwardMatch(tape, i)
		}
	}
}

// scanForwardMatch finds the ']' matching the '[' at i by scanning forward
// with a bracket-depth counter, wrapping modulo v.size, for up to v.size
// steps. Returns -1 if unmatched within that budget.
func (v *vm) scanForwardMatch(tape []byte, i int) int {
	depth := 1
	ip := i
	for step := 0; step < v.size; step++ {
		ip = (ip + 1) & v.mask
		switch tape[ip] {
		case opLBrack:
			depth++
		case opRBrack:
			depth--
		}
		if depth == 0 {
			return (ip - 1 + v.size) & v.mask
		}
	}
	return -1
}

// scanBackwardMatch finds the '[' matching the ']' at i by scanning
// backward, symmetric to scanForwardMatch. Returns -1 if unmatched.
func (v *vm) scanBackwardMatch(tape []byte, i int) int {
	depth := 1
	ip := i
	for step := 0; step < v.size; step++ {
		ip = (ip - 1 + v.size) & v.mask
		switch tape[ip] {
		case opRBrack:
			depth++
		case opLBrack:
			depth--
		}
		if depth == 0 {
			return ip
		}
	}
	return -1
}

// execute runs tape (length 2*T, mutated in place) for up to limit cycles
// and returns the accumulated counters. Unmatched brackets return
// immediately with the counters accumulated so far — this is not an error,
// per spec.md §7.
func (v *vm) execute(tape []byte, limit int) vmResult {
	v.buildJumps(tape)

	var (
		ip, h0, h1 int
		res        vmResult
	)
	t := v.size / 2 // T

	for cycles := 0; cycles < limit; cycles++ {
		cur := ip & v.mask
		op := tape[cur]
		switch op {
		case opLess:
			h0 = (h0 - 1 + v.size) & v.mask
		case opGreater:
			h0 = (h0 + 1) & v.mask
		case opLBrace:
			h1 = (h1 - 1 + v.size) & v.mask
		case opRBrace:
			h1 = (h1 + 1) & v.mask
		case opMinus:
			tape[h0] = byte((int(tape[h0]) - 1) & 255)
		case opPlus:
			tape[h0] = byte((int(tape[h0]) + 1) & 255)
		case opDot:
			tape[h1] = tape[h0]
			res.copies++
			if h1 >= t {
				res.neighborWrites++
			}
		case opComma:
			tape[h0] = tape[h1]
			res.copies++
		case opLBrack:
			if tape[h0] == 0 {
				target := v.jumps[cur]
				if target == -1 {
					res.unmatchedJump = true
					return res
				}
				ip = target
			}
		case opRBrack:
			if tape[h0] != 0 {
				target := v.jumps[cur]
				if target == -1 {
					res.unmatchedJump = true
					return res
				}
				ip = target
			}
		}
		if isOpcode(op) {
			res.complexity++
		}
		ip++
	}
	return res
}
