// Package subsume implements the subsumption kernel: given
// an antichain L and a candidate z, decide whether z is absorbed by some
// existing element, or which elements of L it strictly subsumes and
// should replace.
//
// CNF/DNF terms are always uint64 bitsets of literals, so
// this kernel is not generic over word.Word — it operates directly on
// uint64.
package subsume

// Decision is the kernel's verdict for one candidate z against L.
//
//   - Skip == true: z is absorbed by an existing element of L; the caller
//     must leave L unmodified and discard z.
//   - Skip == false: Delete holds the indices (into the L the kernel was
//     given) of every element that z strictly subsumes. The caller
//     performs one in-place compaction removing those indices, then
//     appends z.
type Decision struct {
	Skip   bool
	Delete []int
}

// Decide is the scalar reference implementation. For every q in l:
//  1. if q subset-or-equal z (z|q == z), z is absorbed: return Skip.
//  2. otherwise, if z subset-or-equal q (z|q == q), record i for deletion.
//
// Case 1 wins over case 2 regardless of scan order: the asymmetry is
// preserved by checking every element for absorption before committing to
// any deletions.
func Decide(l []uint64, z uint64) Decision {
	var toDelete []int
	for i, q := range l {
		p := z | q
		if p == z {
			return Decision{Skip: true}
		}
		if p == q {
			toDelete = append(toDelete, i)
		}
	}
	return Decision{Delete: toDelete}
}

// Compact applies a Decision to l in place: it removes the reported
// indices with a single stable compaction pass (never a sequence of
// individual slice deletions, which is quadratic) and appends z. l must
// be the exact slice Decide was called with. Compact must not be called
// when decision.Skip is true.
func Compact(l []uint64, decision Decision, z uint64) []uint64 {
	if decision.Skip {
		panic("subsume: Compact called on a Skip decision")
	}
	if len(decision.Delete) == 0 {
		return append(l, z)
	}
	del := make(map[int]bool, len(decision.Delete))
	for _, i := range decision.Delete {
		del[i] = true
	}
	out := l[:0]
	for i, v := range l {
		if !del[i] {
			out = append(out, v)
		}
	}
	return append(out, z)
}

// Lane is a supported software-vectorized lane width. Go has no portable
// path to real AVX-512/AVX2 intrinsics without cgo or hand-written
// assembly, so Lane instead batches the scalar comparison in
// lane.Count()-sized chunks — broadcast, batch compare, mask, scalar tail
// — which keeps the lane-boundary and tail-handling behaviour testable
// even without real vector instructions.
type Lane int

const (
	Lane8  Lane = 8
	Lane16 Lane = 16
	Lane32 Lane = 32
	Lane64 Lane = 64
	// LaneAVX2_64 models the AVX2 64-bit-lane variant: same element width
	// as Lane64 but half the lane count (256/64 vs 512/64).
	LaneAVX2_64 Lane = -64
)

// Count returns the number of elements processed per batch for this lane
// width: 512/W normally, 256/64 for the AVX2 64-bit variant.
func (w Lane) Count() int {
	if w == LaneAVX2_64 {
		return 256 / 64
	}
	return 512 / int(w)
}

// bitWidth returns the element width in bits that values must fit for
// this lane to be valid (the positive width even for the AVX2 variant).
func (w Lane) bitWidth() int {
	if w == LaneAVX2_64 {
		return 64
	}
	return int(w)
}

// Compatible reports whether every value that could appear in L or as a
// candidate z — i.e. every value using at most nVariables literal bits —
// fits within this lane's element width.
func (w Lane) Compatible(nVariables int) bool {
	return nVariables <= w.bitWidth()
}

// Resolve chooses the narrowest of Lane8/16/32/64 whose element width is
// >= nVariables (LaneAVX2_64 is never returned), falling
// back to scalar (reported as Lane(0)) when none fit — e.g. nVariables
// > 64, which cannot happen for CNF/DNF terms since those are always
// uint64, but Resolve stays total for defensive callers.
func Resolve(nVariables int) Lane {
	for _, w := range []Lane{Lane8, Lane16, Lane32, Lane64} {
		if w.Compatible(nVariables) {
			return w
		}
	}
	return Lane(0)
}

// DecideLanes is the lane-batched variant of Decide. It must produce
// results identical to Decide for every input;
// the batching only changes the order absorption and deletion are
// discovered in, never the outcome.
func DecideLanes(l []uint64, z uint64, lane Lane) Decision {
	if lane == 0 {
		return Decide(l, z)
	}
	count := lane.Count()
	var toDelete []int
	for base := 0; base < len(l); base += count {
		end := base + count
		if end > len(l) {
			end = len(l)
		}
		batch := l[base:end]

		// Broadcast z, compute p = z|q lanewise, test p == z (absorption)
		// across the whole batch before committing any deletions found in
		// this batch, matching the scalar reference's "case 1 wins"
		// ordering within each batch.
		for _, q := range batch {
			if z|q == z {
				return Decision{Skip: true}
			}
		}
		for i, q := range batch {
			if z|q == q {
				toDelete = append(toDelete, base+i)
			}
		}
	}
	return Decision{Delete: toDelete}
}
