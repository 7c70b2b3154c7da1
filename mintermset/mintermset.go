// Package mintermset implements MintermSet: a fixed-size
// array of buckets indexed by the Hamming weight of an implicant's data
// half, used by the QM reducer to restrict gray-code comparisons to
// adjacent-weight buckets.
package mintermset

import "github.com/pborges/qmkernel/word"

// Set buckets values of type T by popcount. BucketWidth must match the
// encoding's BucketWidth (N_max+1); values with a higher popcount than
// that are a caller-contract violation, not a domain error, so Set panics
// rather than returning an error.
type Set[T word.Word[T]] struct {
	buckets    [][]T
	maxBucket  int
}

// New creates an empty Set with bucketWidth buckets.
func New[T word.Word[T]](bucketWidth int) *Set[T] {
	return &Set[T]{buckets: make([][]T, bucketWidth)}
}

// Add appends v (the full raw encoding, data half | don't-care half) to
// the bucket given by dataPopcount — the popcount of v's data half alone.
// The caller supplies dataPopcount rather than Set computing v.PopCount()
// itself, because v may already carry a don't-care half: the
// bucket key must always be the data-half weight, never the combined
// weight of the packed word.
func (s *Set[T]) Add(v T, dataPopcount int) {
	if dataPopcount >= len(s.buckets) {
		panic("mintermset: value popcount exceeds bucket width")
	}
	s.buckets[dataPopcount] = append(s.buckets[dataPopcount], v)
	if dataPopcount > s.maxBucket {
		s.maxBucket = dataPopcount
	}
}

// AddAll adds every (value, dataPopcount) pair.
func (s *Set[T]) AddAll(vs []T, dataPopcount func(T) int) {
	for _, v := range vs {
		s.Add(v, dataPopcount(v))
	}
}

// Get returns a read-only view of bucket k. Returns nil for an empty or
// out-of-range bucket.
func (s *Set[T]) Get(k int) []T {
	if k < 0 || k >= len(s.buckets) {
		return nil
	}
	return s.buckets[k]
}

// MaxBucket returns the highest populated bucket index, or 0 if Set is
// empty.
func (s *Set[T]) MaxBucket() int {
	return s.maxBucket
}

// BucketWidth returns the number of buckets in s.
func (s *Set[T]) BucketWidth() int {
	return len(s.buckets)
}
