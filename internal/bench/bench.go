// Package bench loads named minimization problems from fixtures.yaml and
// runs them through the solver and cnfdnf packages, reporting the costs
// a caller would see end to end. It is not a CLI; it exists so the core
// packages' behaviour on real, previously-published problem instances
// (the qm_* and cnf_2_dnf_* examples) stays covered by tests without
// hand-transcribing their minterm/clause lists at every call site.
package bench

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pborges/qmkernel/cnfdnf"
	"github.com/pborges/qmkernel/encoding"
	"github.com/pborges/qmkernel/solver"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// QMProblem is one named Quine-McCluskey fixture.
type QMProblem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Variables   int    `yaml:"variables"`
	Minterms    []int  `yaml:"minterms"`
	DontCares   []int  `yaml:"dont_cares"`
}

// CNFProblem is one named CNF-to-DNF fixture. Clauses are comma-separated
// literal bit positions, e.g. "1,2" for the clause covering bits 1 and 2.
type CNFProblem struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Variables   int      `yaml:"variables"`
	Clauses     []string `yaml:"clauses"`
}

// Fixtures is the top-level fixtures.yaml structure.
type Fixtures struct {
	Version     string       `yaml:"version"`
	QMProblems  []QMProblem  `yaml:"qm_problems"`
	CNFProblems []CNFProblem `yaml:"cnf_problems"`
}

// Load parses the embedded fixtures.yaml with strict field checking, so a
// typo'd key fails loudly rather than silently producing a zero-valued
// field.
func Load() (Fixtures, error) {
	var f Fixtures
	decoder := yaml.NewDecoder(bytes.NewReader(fixturesYAML))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return Fixtures{}, fmt.Errorf("bench: decoding fixtures.yaml: %w", err)
	}
	return f, nil
}

// QMReport summarizes one QMProblem run.
type QMReport struct {
	Problem       QMProblem
	Expression    string
	CostOriginal  int
	CostMinimized int
}

// RunQM solves p via solver.Solve and reports the before/after cost.
func RunQM(p QMProblem) (QMReport, error) {
	result, err := solver.Solve(p.Variables, toUint64(p.Minterms), toUint64(p.DontCares))
	if err != nil {
		return QMReport{}, fmt.Errorf("bench: running %s: %w", p.Name, err)
	}
	logrus.Debugf("bench: %s: cost %d -> %d", p.Name, result.CostOriginal, result.CostMinimized)
	return QMReport{
		Problem:       p,
		Expression:    result.Expression,
		CostOriginal:  result.CostOriginal,
		CostMinimized: result.CostMinimized,
	}, nil
}

// CNFReport summarizes one CNFProblem run.
type CNFReport struct {
	Problem  CNFProblem
	DNF      []uint64
	Minimal  []uint64
}

// RunCNF converts p's clauses to DNF (both the full antichain and the
// minimal-size subset) via cnfdnf.ToDNF/ToDNFMinimal, auto-detecting the
// best available SIMD lane width.
func RunCNF(p CNFProblem) (CNFReport, error) {
	clauses, err := parseClauses(p.Clauses)
	if err != nil {
		return CNFReport{}, fmt.Errorf("bench: parsing %s: %w", p.Name, err)
	}

	opt := cnfdnf.DetectBest(p.Variables)
	dnf, err := cnfdnf.ToDNF(encoding.Enc64{}, clauses, p.Variables, opt)
	if err != nil {
		return CNFReport{}, fmt.Errorf("bench: %s: ToDNF: %w", p.Name, err)
	}
	minimal, err := cnfdnf.ToDNFMinimal(encoding.Enc64{}, clauses, p.Variables, opt)
	if err != nil {
		return CNFReport{}, fmt.Errorf("bench: %s: ToDNFMinimal: %w", p.Name, err)
	}
	logrus.Debugf("bench: %s: dnf=%d terms, minimal=%d terms", p.Name, len(dnf), len(minimal))
	return CNFReport{Problem: p, DNF: dnf, Minimal: minimal}, nil
}

func parseClauses(raw []string) ([]uint64, error) {
	out := make([]uint64, len(raw))
	for i, c := range raw {
		var clause uint64
		for _, field := range strings.Split(c, ",") {
			field = strings.TrimSpace(field)
			bit, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("clause %q: %w", c, err)
			}
			clause |= uint64(1) << uint(bit)
		}
		out[i] = clause
	}
	return out, nil
}

func toUint64(xs []int) []uint64 {
	out := make([]uint64, len(xs))
	for i, x := range xs {
		out[i] = uint64(x)
	}
	return out
}
