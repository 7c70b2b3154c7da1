// Package solver is a single Solve
// entry point that picks the narrowest encoding for a problem, runs the
// QM reducer and petrick's minimal-cover reduction, and formats the
// result as a sum-of-products expression plus a solution trace.
package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pborges/qmkernel/encoding"
	"github.com/pborges/qmkernel/petrick"
	"github.com/pborges/qmkernel/qm"
	"github.com/pborges/qmkernel/word"
)

// QMResult is the solution: the minimized expression, the prime and essential
// prime implicants as literal strings, an ordered trace of the pipeline
// stages, and the two cost figures used to judge whether minimization
// actually helped.
type QMResult struct {
	Expression        string
	PrimeImplicants   []string
	EssentialPrimes   []string
	SolutionSteps     []string
	CostOriginal      int
	CostMinimized     int
	ResidueFallback   bool
}

// ReduceOptions tunes ReduceRaw's prime-implicant generation strategy.
// The zero value runs the default bucketed reducer.
type ReduceOptions struct {
	// Strategy selects which qm reducer variant to run. Defaults to the
	// bucketed production path when left as the zero value.
	Strategy ReduceStrategy
}

// ReduceStrategy names one of the qm package's interchangeable reducer
// implementations.
type ReduceStrategy int

const (
	StrategyBucketed ReduceStrategy = iota
	StrategyClassic
	StrategyEarlyPruning
)

// Solve is the primary entry point:
// minimize the Boolean function defined by minterms and dontCares over
// nVariables variables, returning a minimal SOP expression and a
// solution trace.
func Solve(nVariables int, minterms, dontCares []uint64) (QMResult, error) {
	which, err := encoding.Narrowest(nVariables)
	if err != nil {
		return QMResult{}, err
	}
	switch which {
	case 16:
		return solveWith[word.U32](encoding.Enc16{}, nVariables, minterms, dontCares)
	case 32:
		return solveWith[word.U64](encoding.Enc32{}, nVariables, minterms, dontCares)
	default:
		return solveWith[word.U128](encoding.Enc64{}, nVariables, minterms, dontCares)
	}
}

func solveWith[T word.Word[T]](desc encoding.Descriptor[T], nVariables int, minterms, dontCares []uint64) (QMResult, error) {
	var steps []string
	steps = append(steps, fmt.Sprintf("collected %d minterms and %d don't-cares over %d variables", len(minterms), len(dontCares), nVariables))

	initial := make([]T, 0, len(minterms)+len(dontCares))
	for _, m := range minterms {
		initial = append(initial, desc.FromUint64(m))
	}
	for _, d := range dontCares {
		initial = append(initial, desc.FromUint64(d))
	}

	primes := qm.Reduce[T](desc, initial, nVariables)
	steps = append(steps, fmt.Sprintf("generated %d prime implicant(s)", len(primes)))

	table := petrick.Build[T](desc, primes, minterms, nVariables)
	result := petrick.Select(table)
	if result.ResidueFallback {
		logrus.Warnf("solver: minimal cover fell back to a greedy (non-optimal) selection for %d variables", nVariables)
		steps = append(steps, "residue exceeded the exact-cover encoding limit; used a greedy fallback cover")
	}
	steps = append(steps, fmt.Sprintf("selected %d essential prime implicant(s)", len(result.Essential)))
	steps = append(steps, fmt.Sprintf("selected %d term(s) total for the minimal cover", len(result.Cover)))

	primeStrs := literalsOf(desc, primes, nVariables)
	essentialStrs := literalsOf(desc, result.Essential, nVariables)
	coverStrs := literalsOf(desc, result.Cover, nVariables)
	sort.Strings(coverStrs)

	return QMResult{
		Expression:      strings.Join(coverStrs, " + "),
		PrimeImplicants: primeStrs,
		EssentialPrimes: essentialStrs,
		SolutionSteps:   steps,
		CostOriginal:    len(minterms) * nVariables,
		CostMinimized:   literalCount(coverStrs),
		ResidueFallback: result.ResidueFallback,
	}, nil
}

// literalsOf renders each implicant as a product term: "x{i}" for a fixed
// 1-bit, "x{i}'" for a fixed 0-bit, omitted for a don't-care bit.
// Variables are numbered low bit to high bit, 0-based.
func literalsOf[T word.Word[T]](desc encoding.Descriptor[T], terms []T, nVariables int) []string {
	out := make([]string, len(terms))
	for i, term := range terms {
		var b strings.Builder
		for v := 0; v < nVariables; v++ {
			if term.GetBit(v + desc.DCOffset()) {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprintf(&b, "x%d", v)
			if !term.GetBit(v) {
				b.WriteByte('\'')
			}
		}
		if b.Len() == 0 {
			out[i] = "1"
		} else {
			out[i] = b.String()
		}
	}
	return out
}

func literalCount(terms []string) int {
	n := 0
	for _, term := range terms {
		if term == "1" {
			continue
		}
		n += strings.Count(term, ".") + 1
	}
	return n
}

// ReduceRaw is the advanced low-level entry point: run
// only the prime-implicant generation stage, without petrick's cover
// selection, returning the raw encoded implicants for callers that want
// to drive their own downstream logic.
func ReduceRaw[T word.Word[T]](desc encoding.Descriptor[T], minterms []uint64, nVariables int, opts ReduceOptions) ([]T, error) {
	if err := encoding.Validate[T](desc, nVariables); err != nil {
		return nil, err
	}
	initial := make([]T, len(minterms))
	for i, m := range minterms {
		initial[i] = desc.FromUint64(m)
	}
	switch opts.Strategy {
	case StrategyClassic:
		return qm.ReduceClassic[T](desc, initial, nVariables), nil
	case StrategyEarlyPruning:
		return qm.ReduceEarlyPruning[T](desc, initial, nVariables), nil
	default:
		return qm.Reduce[T](desc, initial, nVariables), nil
	}
}
