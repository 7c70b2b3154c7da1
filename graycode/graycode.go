// Package graycode implements the gray-code kernel: given
// two bucketed groups of indices into a shared array of raw implicant
// encodings, find every index pair whose encodings differ in exactly one
// bit (popcount(xor) == 1) — the only pairs the QM reducer is allowed to
// combine.
package graycode

import "github.com/pborges/qmkernel/word"

// Pair is one combinable index pair, i from group1 and j from group2.
type Pair struct {
	I, J int
}

// Pairs is the scalar reference implementation. group1 and group2 are
// indices into r; every (i, j) with i in group1, j in group2, and
// (r[i]^r[j]).PopCount() == 1 is returned. Order is group1-major,
// group2-minor.
func Pairs[T word.Word[T]](group1, group2 []int, r []T) []Pair {
	var out []Pair
	for _, i := range group1 {
		for _, j := range group2 {
			if r[i].Xor(r[j]).PopCount() == 1 {
				out = append(out, Pair{I: i, J: j})
			}
		}
	}
	return out
}

// Lane is the software-vectorized batch width used by PairsLanes, mirror
// of subsume.Lane (kept as a separate type since the two kernels are
// independent components, even though the batching shape
// is the same: materialize, broadcast, batch-compare, scalar tail).
type Lane int

const (
	Lane8  Lane = 8
	Lane16 Lane = 16
	Lane32 Lane = 32
	Lane64 Lane = 64
)

func (w Lane) count() int { return 512 / int(w) }

// PairsLanes is the lane-batched variant. It must return the identical
// pair-set (order-insensitive) to Pairs for every input. group2 is first
// materialized densely into a contiguous buffer, then
// each group-1 value is broadcast against lane-sized chunks of that
// buffer.
func PairsLanes[T word.Word[T]](group1, group2 []int, r []T, lane Lane) []Pair {
	if lane == 0 || len(group2) == 0 {
		return Pairs(group1, group2, r)
	}
	dense := make([]T, len(group2))
	for k, j := range group2 {
		dense[k] = r[j]
	}

	count := lane.count()
	var out []Pair
	for _, i := range group1 {
		a := r[i]
		for base := 0; base < len(dense); base += count {
			end := base + count
			if end > len(dense) {
				end = len(dense)
			}
			for k := base; k < end; k++ {
				if a.Xor(dense[k]).PopCount() == 1 {
					out = append(out, Pair{I: i, J: group2[k]})
				}
			}
		}
	}
	return out
}
