// Package encoding fixes the three bit-width parameterizations the core
// supports: 16, 32, and 64 Boolean variables. Each encoding is a
// compile-time tag (a zero-sized Go type) pairing a word.Word
// implementation with the constants each encoding needs: the
// don't-care shift S (equal to N_max), the bucket width N_max+1, and a
// recommended SIMD lane width for the subsumption/gray-code kernels.
package encoding

import (
	"fmt"

	"github.com/pborges/qmkernel/word"
)

// Descriptor is implemented by Enc16, Enc32, and Enc64. T is the raw word
// type backing that encoding (word.U32, word.U64, word.U128
// respectively) — fixed per descriptor, not chosen by the caller, which is
// what keeps the pairing between descriptor and word type a static one.
type Descriptor[T word.Word[T]] interface {
	// MaxVars is N_max: the largest n_variables this encoding accepts.
	MaxVars() int
	// DCOffset is S, the bit position where the don't-care half begins.
	// Always equal to MaxVars.
	DCOffset() int
	// BucketWidth is the number of MintermSet buckets: MaxVars+1.
	BucketWidth() int
	// RecommendedLane is the SIMD lane width (in bits) qm's gray-code
	// scans use for this encoding.
	RecommendedLane() int
	// Zero and FromUint64 construct values of the raw word type.
	Zero() T
	FromUint64(uint64) T
}

// Enc16 supports up to 16 variables, backed by word.U32.
type Enc16 struct{}

func (Enc16) MaxVars() int             { return 16 }
func (Enc16) DCOffset() int            { return 16 }
func (Enc16) BucketWidth() int         { return 17 }
func (Enc16) RecommendedLane() int     { return 16 }
func (Enc16) Zero() word.U32           { return 0 }
func (Enc16) FromUint64(v uint64) word.U32 { return word.FromUint64U32(v) }

// Enc32 supports up to 32 variables, backed by word.U64.
type Enc32 struct{}

func (Enc32) MaxVars() int             { return 32 }
func (Enc32) DCOffset() int            { return 32 }
func (Enc32) BucketWidth() int         { return 33 }
func (Enc32) RecommendedLane() int     { return 32 }
func (Enc32) Zero() word.U64           { return 0 }
func (Enc32) FromUint64(v uint64) word.U64 { return word.FromUint64U64(v) }

// Enc64 supports up to 64 variables, backed by word.U128.
type Enc64 struct{}

func (Enc64) MaxVars() int         { return 64 }
func (Enc64) DCOffset() int        { return 64 }
func (Enc64) BucketWidth() int     { return 65 }
func (Enc64) RecommendedLane() int { return 64 }
func (Enc64) Zero() word.U128      { return word.U128{} }
func (Enc64) FromUint64(v uint64) word.U128 {
	return word.FromUint64U128(v)
}

// CapacityError is returned by Validate and Narrowest when a caller
// supplies more variables than an encoding can hold.
type CapacityError struct {
	NBits  int
	MaxVars int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("n_bits (%d) exceeds encoding maximum (%d)", e.NBits, e.MaxVars)
}

// Validate returns a *CapacityError if nVariables exceeds d's capacity.
func Validate[T word.Word[T]](d Descriptor[T], nVariables int) error {
	if nVariables > d.MaxVars() {
		return &CapacityError{NBits: nVariables, MaxVars: d.MaxVars()}
	}
	return nil
}

// Narrowest picks the smallest of Enc16/Enc32/Enc64 whose MaxVars covers
// nVariables. It returns
// an int selector (16, 32 or 64) naming that encoding,
// since Go cannot return "the encoding" as a single value when each
// encoding carries a different word type.
func Narrowest(nVariables int) (which int, err error) {
	switch {
	case nVariables <= Enc16{}.MaxVars():
		return 16, nil
	case nVariables <= Enc32{}.MaxVars():
		return 32, nil
	case nVariables <= Enc64{}.MaxVars():
		return 64, nil
	default:
		return 0, &CapacityError{NBits: nVariables, MaxVars: 64}
	}
}
