// Package cnfdnf transforms a CNF formula into an equivalent DNF
// antichain via iterated distribution, using the
// subsumption kernel to keep each intermediate result bitset-free of
// redundant terms.
package cnfdnf

import (
	"sort"

	"github.com/pborges/qmkernel/encoding"
	"github.com/pborges/qmkernel/subsume"
	"github.com/pborges/qmkernel/word"
)

func laneFor(opt OptLevel) subsume.Lane {
	switch opt {
	case Avx2_64:
		return subsume.LaneAVX2_64
	case Avx512_8:
		return subsume.Lane8
	case Avx512_16:
		return subsume.Lane16
	case Avx512_32:
		return subsume.Lane32
	case Avx512_64:
		return subsume.Lane64
	default:
		return 0
	}
}

func validate[T word.Word[T]](enc encoding.Descriptor[T], nVariables int, opt OptLevel) error {
	if nVariables > enc.MaxVars() {
		return &EncodingCapacityExceededError{NBits: nVariables, MaxVars: enc.MaxVars()}
	}
	if opt != AutoDetect && nVariables > opt.MaxBits() {
		return &OptimizationLevelExceededError{NBits: nVariables, Optimization: opt, MaxBits: opt.MaxBits()}
	}
	return nil
}

// decide dispatches to the scalar or lane-batched subsumption kernel
// according to the resolved/fallback-checked opt level.
func decide(lane subsume.Lane, d []uint64, z uint64) subsume.Decision {
	if lane == 0 {
		return subsume.Decide(d, z)
	}
	return subsume.DecideLanes(d, z, lane)
}

// sweep runs the distributive sweep: one antichain pass
// per clause, each literal of the clause distributed over every term
// currently in the antichain.
func sweep(clauses []uint64, lane subsume.Lane) []uint64 {
	if len(clauses) == 0 {
		return nil
	}
	d := singletonsOf(clauses[0])
	for _, clause := range clauses[1:] {
		d = distributeOne(d, clause, lane)
	}
	return d
}

// singletonsOf returns one singleton term per set bit of clause, the
// antichain's initial state.
func singletonsOf(clause uint64) []uint64 {
	var out []uint64
	for i := 0; i < 64; i++ {
		bit := uint64(1) << uint(i)
		if clause&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// distributeOne builds the next antichain by distributing every literal
// of clause over every term of d, keeping the result an antichain via
// the subsumption kernel.
func distributeOne(d []uint64, clause uint64, lane subsume.Lane) []uint64 {
	var next []uint64
	for i := 0; i < 64; i++ {
		bit := uint64(1) << uint(i)
		if clause&bit == 0 {
			continue
		}
		for _, y := range d {
			z := bit | y
			decision := decide(lane, next, z)
			if decision.Skip {
				continue
			}
			next = subsume.Compact(next, decision, z)
		}
	}
	return next
}

// ToDNF converts clauses (a CNF formula, one uint64 bitset of literals
// per clause) into an equivalent DNF antichain.
func ToDNF[T word.Word[T]](enc encoding.Descriptor[T], clauses []uint64, nVariables int, opt OptLevel) ([]uint64, error) {
	if err := validate(enc, nVariables, opt); err != nil {
		return nil, err
	}
	lane := laneFor(opt.effective(nVariables))
	return sweep(clauses, lane), nil
}

// ToDNFMinimal returns only the minimum-popcount terms of ToDNF's result
//, using the early-pruning path: it tracks
// the smallest term size seen so far in the antichain under construction
// and skips any candidate whose popcount exceeds smallest+remaining
// clauses, since such a candidate could never end up minimal. The final
// minimum-size filter is applied identically to both the pruned and the
// unpruned path, so the two agree on output.
func ToDNFMinimal[T word.Word[T]](enc encoding.Descriptor[T], clauses []uint64, nVariables int, opt OptLevel) ([]uint64, error) {
	if err := validate(enc, nVariables, opt); err != nil {
		return nil, err
	}
	lane := laneFor(opt.effective(nVariables))
	result := sweepMinimalPruned(clauses, lane)
	return filterToMinimal(result), nil
}

// ToDNFMinimalReference is the non-pruned reference path: a full sweep
// followed by the same minimum-size filter. Kept so tests can assert
// that early-pruning agrees with the reference.
func ToDNFMinimalReference[T word.Word[T]](enc encoding.Descriptor[T], clauses []uint64, nVariables int, opt OptLevel) ([]uint64, error) {
	if err := validate(enc, nVariables, opt); err != nil {
		return nil, err
	}
	lane := laneFor(opt.effective(nVariables))
	result := sweep(clauses, lane)
	return filterToMinimal(result), nil
}

// sweepMinimalPruned runs the distributive sweep with early pruning on
// candidate term size.
func sweepMinimalPruned(clauses []uint64, lane subsume.Lane) []uint64 {
	if len(clauses) == 0 {
		return nil
	}
	d := singletonsOf(clauses[0])
	for idx, clause := range clauses[1:] {
		remaining := len(clauses[1:]) - idx - 1
		d = distributeOnePruned(d, clause, lane, remaining)
	}
	return d
}

func distributeOnePruned(d []uint64, clause uint64, lane subsume.Lane, remaining int) []uint64 {
	var next []uint64
	smallest := -1
	for i := 0; i < 64; i++ {
		bit := uint64(1) << uint(i)
		if clause&bit == 0 {
			continue
		}
		for _, y := range d {
			z := bit | y
			size := popcount(z)
			if smallest >= 0 {
				maxViable := smallest + remaining
				if size > maxViable {
					continue
				}
			}
			decision := decide(lane, next, z)
			if decision.Skip {
				continue
			}
			next = subsume.Compact(next, decision, z)
			if smallest < 0 || size < smallest {
				smallest = size
			}
		}
	}
	return next
}

func popcount(v uint64) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// filterToMinimal keeps only the terms of minimum popcount.
func filterToMinimal(dnf []uint64) []uint64 {
	if len(dnf) == 0 {
		return dnf
	}
	smallest := popcount(dnf[0])
	for _, t := range dnf[1:] {
		if p := popcount(t); p < smallest {
			smallest = p
		}
	}
	out := make([]uint64, 0, len(dnf))
	for _, t := range dnf {
		if popcount(t) == smallest {
			out = append(out, t)
		}
	}
	return out
}

// ToDNFWithNames is the named variant:
// clauses are lists of variable names rather than bit positions. Names
// are assigned bit positions in first-seen order, translated through
// ToDNF, then translated back. More than 64 distinct names fails with
// TooManyVariablesError.
func ToDNFWithNames(clauses [][]string, opt OptLevel) ([][]string, error) {
	index := map[string]int{}
	var names []string
	for _, clause := range clauses {
		for _, name := range clause {
			if _, ok := index[name]; !ok {
				index[name] = len(names)
				names = append(names, name)
			}
		}
	}
	if len(names) > 64 {
		return nil, &TooManyVariablesError{NVariables: len(names)}
	}

	bitClauses := make([]uint64, len(clauses))
	for i, clause := range clauses {
		var bits uint64
		for _, name := range clause {
			bits |= uint64(1) << uint(index[name])
		}
		bitClauses[i] = bits
	}

	dnf, err := ToDNF(encoding.Enc64{}, bitClauses, len(names), opt)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(dnf))
	for i, term := range dnf {
		var lits []string
		for pos, name := range names {
			if term&(uint64(1)<<uint(pos)) != 0 {
				lits = append(lits, name)
			}
		}
		sort.Strings(lits)
		out[i] = lits
	}
	return out, nil
}
