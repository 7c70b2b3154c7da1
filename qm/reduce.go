// Package qm implements the prime-implicant engine: fixed-
// point iteration that repeatedly combines adjacent-Hamming-weight
// implicant pairs (via the gray-code kernel) until no new implicant
// appears, returning every implicant that was never combined away — the
// prime implicants.
package qm

import (
	"sort"

	"github.com/pborges/qmkernel/encoding"
	"github.com/pborges/qmkernel/graycode"
	"github.com/pborges/qmkernel/mintermset"
	"github.com/pborges/qmkernel/word"
)

// fullMask builds a value with the low `bits` positions set — the data
// mask used to isolate the data half of a raw encoding for Hamming-weight
// bucketing.
func fullMask[T word.Word[T]](zero T, bits int) T {
	m := zero
	for i := 0; i < bits; i++ {
		m = m.SetBit(i)
	}
	return m
}

func sortWords[T word.Word[T]](xs []T) {
	sort.Slice(xs, func(i, j int) bool { return xs[i].Less(xs[j]) })
}

func dedupe[T word.Word[T]](xs []T) []T {
	seen := make(map[T]bool, len(xs))
	out := make([]T, 0, len(xs))
	for _, v := range xs {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// combine merges two implicants differing in exactly one data bit: the
// merged result marks that bit as don't-care while
// preserving every existing don't-care bit. The don't-care half always
// starts at the encoding's fixed DCOffset (N_max), not at nVariables —
// see DESIGN.md's resolution of this design choice.
func combine[T word.Word[T]](desc interface{ DCOffset() int }, a, b T) T {
	diff := a.Xor(b)
	return a.Or(b).Or(diff.Shl(uint(desc.DCOffset())))
}

// Reduce is the bucketed, production QM reducer. initial is a deduplicated-on-entry list of raw implicants
// (ordinarily minterms unioned with don't-cares, data half only, zero
// don't-care half); nVariables bounds the data half's width for Hamming
// weight bucketing. The result is sorted by raw value for determinism
//.
func Reduce[T word.Word[T]](desc encoding.Descriptor[T], initial []T, nVariables int) []T {
	dataMask := fullMask(desc.Zero(), nVariables)
	lane := graycode.Lane(desc.RecommendedLane())

	current := dedupe(initial)
	sortWords(current)

	var primes []T
	for len(current) > 0 {
		next, used := onePass(desc, current, dataMask, lane)
		for _, v := range current {
			if !used[v] {
				primes = append(primes, v)
			}
		}
		current = next
	}

	primes = dedupe(primes)
	sortWords(primes)
	return primes
}

// onePass runs one generation of the combine loop: bucket by
// data-half popcount, gray-code-pair each adjacent bucket, combine and
// deduplicate, mark sources used.
func onePass[T word.Word[T]](desc encoding.Descriptor[T], current []T, dataMask T, lane graycode.Lane) (next []T, used map[T]bool) {
	buckets := mintermset.New[T](desc.BucketWidth())
	for _, v := range current {
		buckets.Add(v, v.And(dataMask).PopCount())
	}

	used = make(map[T]bool, len(current))
	combined := make(map[T]bool)

	for k := 0; k < buckets.MaxBucket(); k++ {
		g1 := buckets.Get(k)
		g2 := buckets.Get(k + 1)
		if len(g1) == 0 || len(g2) == 0 {
			continue
		}

		r := make([]T, 0, len(g1)+len(g2))
		r = append(r, g1...)
		r = append(r, g2...)
		idx1 := make([]int, len(g1))
		for i := range idx1 {
			idx1[i] = i
		}
		idx2 := make([]int, len(g2))
		for i := range idx2 {
			idx2[i] = len(g1) + i
		}

		pairs := graycode.PairsLanes(idx1, idx2, r, lane)
		for _, p := range pairs {
			a, b := r[p.I], r[p.J]
			used[a] = true
			used[b] = true
			combined[combine[T](desc, a, b)] = true
		}
	}

	for v := range combined {
		next = append(next, v)
	}
	sortWords(next)
	return next, used
}

// ReduceClassic is the unbucketed O(n^2) reference oracle
// kept for tests: it compares every pair of the current generation
// directly rather than restricting to adjacent Hamming-weight buckets.
// It must produce the same prime-implicant set as Reduce for every input.
func ReduceClassic[T word.Word[T]](desc encoding.Descriptor[T], initial []T, nVariables int) []T {
	current := dedupe(initial)
	sortWords(current)

	var primes []T
	for len(current) > 0 {
		used := make(map[T]bool, len(current))
		combined := make(map[T]bool)
		for i := 0; i < len(current); i++ {
			for j := i + 1; j < len(current); j++ {
				a, b := current[i], current[j]
				if a.Xor(b).PopCount() == 1 {
					used[a] = true
					used[b] = true
					combined[combine[T](desc, a, b)] = true
				}
			}
		}
		for _, v := range current {
			if !used[v] {
				primes = append(primes, v)
			}
		}
		var next []T
		for v := range combined {
			next = append(next, v)
		}
		sortWords(next)
		current = next
	}

	primes = dedupe(primes)
	sortWords(primes)
	return primes
}

// ReduceEarlyPruning is the bucketed reducer with an
// early-pruning optimization: once an element x from bucket k finds a
// combining partner y0 in bucket k+1, any other candidate y in bucket
// k+1 with popcount(xor(y, y0)) > 2 cannot also combine with x (if both
// y0 and y differed from x in exactly one bit, y0^y would have popcount
// at most 2), so it is skipped without testing x against it directly.
// Must match Reduce's output.
func ReduceEarlyPruning[T word.Word[T]](desc encoding.Descriptor[T], initial []T, nVariables int) []T {
	dataMask := fullMask(desc.Zero(), nVariables)

	current := dedupe(initial)
	sortWords(current)

	var primes []T
	for len(current) > 0 {
		next, used := onePassEarlyPruning(desc, current, dataMask)
		for _, v := range current {
			if !used[v] {
				primes = append(primes, v)
			}
		}
		current = next
	}

	primes = dedupe(primes)
	sortWords(primes)
	return primes
}

func onePassEarlyPruning[T word.Word[T]](desc encoding.Descriptor[T], current []T, dataMask T) (next []T, used map[T]bool) {
	buckets := mintermset.New[T](desc.BucketWidth())
	for _, v := range current {
		buckets.Add(v, v.And(dataMask).PopCount())
	}

	used = make(map[T]bool, len(current))
	combined := make(map[T]bool)

	for k := 0; k < buckets.MaxBucket(); k++ {
		g1 := buckets.Get(k)
		g2 := buckets.Get(k + 1)
		for _, x := range g1 {
			var firstMatch T
			haveMatch := false
			for _, y := range g2 {
				if haveMatch && firstMatch.Xor(y).PopCount() > 2 {
					continue
				}
				if x.Xor(y).PopCount() == 1 {
					used[x] = true
					used[y] = true
					combined[combine[T](desc, x, y)] = true
					if !haveMatch {
						firstMatch = y
						haveMatch = true
					}
				}
			}
		}
	}

	for v := range combined {
		next = append(next, v)
	}
	sortWords(next)
	return next, used
}
