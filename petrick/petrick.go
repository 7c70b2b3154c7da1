// Package petrick implements the minimal-cover reduction:
// given a set of prime implicants and the minterms they must collectively
// cover, pick the smallest subset of primes that still covers every
// minterm. Essential-prime peeling and row/column table dominance handle
// almost every practical input in polynomial time; anything left over
// (the "residue") is resolved exactly by encoding the residual covering
// problem as a CNF and running the CNF→DNF minimal-mode transformer over
// implicant-selection variables.
package petrick

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/pborges/qmkernel/cnfdnf"
	"github.com/pborges/qmkernel/encoding"
	"github.com/pborges/qmkernel/word"
)

// maxResidueVariables bounds how many residual primes petrick.Select will
// encode as CNF variables and hand to cnfdnf.ToDNFMinimal: one variable
// per residual prime, and cnfdnf's widest encoding (Enc64) tops out at 64
// variables. Beyond that, Select falls back to a greedy union, logging
// the loss of optimality guarantee.
const maxResidueVariables = 64

// Table holds the prime-implicant-to-minterm coverage relation petrick
// operates on. Primes and Minterms are both kept in a stable, sorted
// order so every derived index (row/column number) is deterministic run
// to run.
type Table[T word.Word[T]] struct {
	desc     encoding.Descriptor[T]
	nVars    int
	Primes   []T
	Minterms []uint64
	// covers[i][j] is true iff Primes[i] covers Minterms[j].
	covers [][]bool
}

// Build constructs the PI→MT coverage table: for
// each prime p and minterm m, p covers m iff p's don't-care-masked bits
// agree with m everywhere p fixes a bit.
func Build[T word.Word[T]](desc encoding.Descriptor[T], primes []T, minterms []uint64, nVariables int) *Table[T] {
	p := append([]T(nil), primes...)
	sort.Slice(p, func(i, j int) bool { return p[i].Less(p[j]) })
	m := append([]uint64(nil), minterms...)
	sort.Slice(m, func(i, j int) bool { return m[i] < m[j] })

	t := &Table[T]{desc: desc, nVars: nVariables, Primes: p, Minterms: m}
	t.covers = make([][]bool, len(p))
	for i, prime := range p {
		row := make([]bool, len(m))
		for j, minterm := range m {
			row[j] = coversMinterm(desc, prime, minterm, nVariables)
		}
		t.covers[i] = row
	}
	return t
}

// coversMinterm implements the (m & ~dc) == (data & ~dc) match rule
// for prime-implicant coverage, over the fixed
// (non-don't-care) bit positions only.
func coversMinterm[T word.Word[T]](desc encoding.Descriptor[T], prime T, minterm uint64, nVariables int) bool {
	for i := 0; i < nVariables; i++ {
		if prime.GetBit(i + desc.DCOffset()) {
			continue // don't-care bit, always matches
		}
		primeBit := prime.GetBit(i)
		mintermBit := minterm&(uint64(1)<<uint(i)) != 0
		if primeBit != mintermBit {
			return false
		}
	}
	return true
}

// Result is the outcome of a minimal-cover reduction: the selected
// primes (Cover), the subset of those that were essential (unique
// coverer of at least one minterm, either in the original table or in the
// table left after the first peel and dominance), and whether the residue step had to
// fall back to the non-optimal greedy union.
type Result[T word.Word[T]] struct {
	Cover           []T
	Essential       []T
	ResidueFallback bool
}

// Select runs the full pipeline: primary
// essential-prime peeling, row/column dominance, a second essential
// peeling pass over what remains, then exact residue resolution via
// CNF→DNF minimal mode (falling back to a greedy union past
// maxResidueVariables residual primes).
func Select[T word.Word[T]](t *Table[T]) Result[T] {
	remainingRows := indices(len(t.Primes))
	remainingCols := indices(len(t.Minterms))

	essential, remainingRows, remainingCols := peelEssential(t, remainingRows, remainingCols)
	remainingRows, remainingCols = dominate(t, remainingRows, remainingCols)

	secondEssential, remainingRows, remainingCols := peelEssential(t, remainingRows, remainingCols)
	essential = append(essential, secondEssential...)
	remainingRows, remainingCols = dominate(t, remainingRows, remainingCols)

	selected := append([]int(nil), essential...)
	fallback := false
	if len(remainingCols) > 0 {
		residue, usedFallback := resolveResidue(t, remainingRows, remainingCols)
		selected = append(selected, residue...)
		fallback = usedFallback
	}

	cover := primesAt(t, dedupeInts(selected))
	ess := primesAt(t, dedupeInts(essential))
	return Result[T]{Cover: cover, Essential: ess, ResidueFallback: fallback}
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func primesAt[T word.Word[T]](t *Table[T], rows []int) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = t.Primes[r]
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func dedupeInts(xs []int) []int {
	seen := make(map[int]bool, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// peelEssential finds, among remainingCols, every column covered by
// exactly one row of remainingRows — that row is a primary (or
// secondary, on a later call) essential prime.
// It returns the essential rows found and the rows/columns still
// unresolved after removing those rows and every column they cover.
func peelEssential[T word.Word[T]](t *Table[T], remainingRows, remainingCols []int) (essential, nextRows, nextCols []int) {
	colRows := make(map[int][]int, len(remainingCols))
	for _, c := range remainingCols {
		for _, r := range remainingRows {
			if t.covers[r][c] {
				colRows[c] = append(colRows[c], r)
			}
		}
	}

	essentialSet := make(map[int]bool)
	for _, c := range remainingCols {
		rows := colRows[c]
		if len(rows) == 1 {
			essentialSet[rows[0]] = true
		}
	}
	for r := range essentialSet {
		essential = append(essential, r)
	}
	sort.Ints(essential)

	coveredByEssential := make(map[int]bool)
	for _, c := range remainingCols {
		for _, r := range colRows[c] {
			if essentialSet[r] {
				coveredByEssential[c] = true
				break
			}
		}
	}

	for _, r := range remainingRows {
		if !essentialSet[r] {
			nextRows = append(nextRows, r)
		}
	}
	for _, c := range remainingCols {
		if !coveredByEssential[c] {
			nextCols = append(nextCols, c)
		}
	}
	return essential, nextRows, nextCols
}

// dominate applies row and column dominance:
// a row dominated by another (covers a subset of what the other covers)
// can always be dropped without losing optimality; a minterm (column)
// whose covering-prime set is a superset of another minterm's can be
// dropped since covering the subset minterm's primes always covers the
// superset one too.
func dominate[T word.Word[T]](t *Table[T], rows, cols []int) (nextRows, nextCols []int) {
	rows = dropDominatedRows(t, rows, cols)
	cols = dropDominatedCols(t, rows, cols)
	return rows, cols
}

func dropDominatedRows[T word.Word[T]](t *Table[T], rows, cols []int) []int {
	dominated := make(map[int]bool)
	for _, a := range rows {
		for _, b := range rows {
			if a == b || dominated[a] {
				continue
			}
			if rowCoversSubset(t, a, b, cols) && !rowCoversSubset(t, b, a, cols) {
				dominated[a] = true
			}
		}
	}
	var out []int
	for _, r := range rows {
		if !dominated[r] {
			out = append(out, r)
		}
	}
	return out
}

// rowCoversSubset reports whether row a's coverage over cols is a subset
// of row b's — a is safe to drop in favor of b.
func rowCoversSubset[T word.Word[T]](t *Table[T], a, b int, cols []int) bool {
	for _, c := range cols {
		if t.covers[a][c] && !t.covers[b][c] {
			return false
		}
	}
	return true
}

func dropDominatedCols[T word.Word[T]](t *Table[T], rows, cols []int) []int {
	dominated := make(map[int]bool)
	for _, a := range cols {
		for _, b := range cols {
			if a == b || dominated[a] {
				continue
			}
			// a is dropped when its covering-prime set is a strict superset
			// of b's: covering b's (smaller) set of primes always covers a
			// too, so a adds no constraint beyond b.
			if colCoveredSubset(t, b, a, rows) && !colCoveredSubset(t, a, b, rows) {
				dominated[a] = true
			}
		}
	}
	var out []int
	for _, c := range cols {
		if !dominated[c] {
			out = append(out, c)
		}
	}
	return out
}

// colCoveredSubset reports whether column a is covered by a subset of
// the rows that cover column b — a's covering-prime set is a subset of b's.
func colCoveredSubset[T word.Word[T]](t *Table[T], a, b int, rows []int) bool {
	for _, r := range rows {
		if t.covers[r][a] && !t.covers[r][b] {
			return false
		}
	}
	return true
}

// resolveResidue encodes the residual
// covering problem as a CNF (one clause per remaining minterm, one
// literal per residual prime that covers it) and run ToDNFMinimal over
// implicant-selection variables; each minimal DNF term is a
// minimum-size set of primes covering every remaining minterm. The
// lexicographically-first term (by its bitmask of selected prime
// indices) is chosen for determinism.
func resolveResidue[T word.Word[T]](t *Table[T], rows, cols []int) (selected []int, fallback bool) {
	if len(rows) > maxResidueVariables {
		logrus.Warnf("petrick: residue has %d candidate primes, exceeding the %d-variable CNF encoding limit; falling back to a greedy (non-optimal) cover", len(rows), maxResidueVariables)
		return greedyCover(t, rows, cols), true
	}

	rowPos := make(map[int]int, len(rows))
	for i, r := range rows {
		rowPos[r] = i
	}

	clauses := make([]uint64, 0, len(cols))
	for _, c := range cols {
		var clause uint64
		for _, r := range rows {
			if t.covers[r][c] {
				clause |= uint64(1) << uint(rowPos[r])
			}
		}
		if clause == 0 {
			// No residual prime covers this minterm at all: the table was
			// built incorrectly upstream (every minterm must be covered by
			// its own singleton prime at worst), so there is nothing petrick
			// can do for it. Skip rather than produce an unsatisfiable CNF.
			continue
		}
		clauses = append(clauses, clause)
	}
	if len(clauses) == 0 {
		return nil, false
	}

	terms, err := cnfdnf.ToDNFMinimal(encoding.Enc64{}, clauses, len(rows), cnfdnf.Scalar)
	if err != nil || len(terms) == 0 {
		logrus.Warnf("petrick: residue CNF->DNF failed (%v); falling back to a greedy cover", err)
		return greedyCover(t, rows, cols), true
	}

	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	best := terms[0]
	for i := 0; i < len(rows); i++ {
		if best&(uint64(1)<<uint(i)) != 0 {
			selected = append(selected, rows[i])
		}
	}
	return selected, false
}

// greedyCover is the Option-B fallback: repeatedly pick the row that
// covers the most still-uncovered columns until none remain. Not
// guaranteed minimal, used only past maxResidueVariables or when the
// residue CNF->DNF step fails.
func greedyCover[T word.Word[T]](t *Table[T], rows, cols []int) []int {
	remaining := make(map[int]bool, len(cols))
	for _, c := range cols {
		remaining[c] = true
	}
	var selected []int
	for len(remaining) > 0 {
		bestRow, bestCount := -1, -1
		for _, r := range rows {
			count := 0
			for c := range remaining {
				if t.covers[r][c] {
					count++
				}
			}
			if count > bestCount || (count == bestCount && (bestRow == -1 || r < bestRow)) {
				bestRow, bestCount = r, count
			}
		}
		if bestRow == -1 || bestCount == 0 {
			break
		}
		selected = append(selected, bestRow)
		for c := range remaining {
			if t.covers[bestRow][c] {
				delete(remaining, c)
			}
		}
	}
	return selected
}
