package cnfdnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pborges/qmkernel/encoding"
)

func bit(n int) uint64 { return uint64(1) << uint(n) }

func clause(bits ...int) uint64 {
	var v uint64
	for _, b := range bits {
		v |= bit(b)
	}
	return v
}

func termSet(t *testing.T, terms []uint64) map[uint64]bool {
	t.Helper()
	m := make(map[uint64]bool, len(terms))
	for _, term := range terms {
		m[term] = true
	}
	return m
}

// Two two-literal clauses distribute into the cross product of their literals.
func TestToDNFTwoClausesCrossProduct(t *testing.T) {
	cnf := []uint64{clause(1, 2), clause(3, 4)}
	dnf, err := ToDNF(encoding.Enc16{}, cnf, 8, Scalar)
	require.NoError(t, err)

	want := termSet(t, []uint64{clause(1, 3), clause(1, 4), clause(2, 3), clause(2, 4)})
	got := termSet(t, dnf)
	assert.Equal(t, want, got)
}

// A 6-clause CNF producing a specific 5-term antichain.
func TestToDNFSixClauseAntichain(t *testing.T) {
	cnf := []uint64{
		clause(1, 2),
		clause(3, 4),
		clause(1, 3),
		clause(5, 6),
		clause(2, 5),
		clause(4, 6),
	}
	dnf, err := ToDNF(encoding.Enc16{}, cnf, 8, Scalar)
	require.NoError(t, err)

	want := termSet(t, []uint64{
		clause(1, 4, 5),
		clause(2, 3, 6),
		clause(1, 2, 4, 6),
		clause(1, 3, 5, 6),
		clause(2, 3, 4, 5),
	})
	got := termSet(t, dnf)
	assert.Equal(t, want, got)
}

// Every minimal term for this input has popcount 2.
func TestToDNFMinimalAllTermsSamePopcount(t *testing.T) {
	cnf := []uint64{clause(1, 2), clause(3, 4)}
	dnf, err := ToDNFMinimal(encoding.Enc16{}, cnf, 8, Scalar)
	require.NoError(t, err)
	require.NotEmpty(t, dnf)
	for _, term := range dnf {
		assert.Equal(t, 2, popcount(term))
	}
}

func TestToDNFIsAntichain(t *testing.T) {
	cnf := []uint64{clause(1, 2), clause(3, 4), clause(1, 3), clause(5, 6), clause(2, 5), clause(4, 6)}
	dnf, err := ToDNF(encoding.Enc16{}, cnf, 8, Scalar)
	require.NoError(t, err)
	for i := range dnf {
		for j := range dnf {
			if i == j {
				continue
			}
			assert.NotEqual(t, dnf[i]|dnf[j], dnf[i], "term %d subsumes term %d", j, i)
		}
	}
}

func TestEmptyCNFReturnsEmpty(t *testing.T) {
	dnf, err := ToDNF(encoding.Enc16{}, nil, 8, Scalar)
	require.NoError(t, err)
	assert.Empty(t, dnf)
}

func TestSingleClauseReturnsSingletons(t *testing.T) {
	dnf, err := ToDNF(encoding.Enc16{}, []uint64{clause(0, 1, 2)}, 8, Scalar)
	require.NoError(t, err)
	assert.Equal(t, termSet(t, []uint64{bit(0), bit(1), bit(2)}), termSet(t, dnf))
}

func TestEncodingCapacityExceeded(t *testing.T) {
	_, err := ToDNF(encoding.Enc16{}, []uint64{clause(0, 1)}, 17, Scalar)
	require.Error(t, err)
	var capErr *EncodingCapacityExceededError
	assert.ErrorAs(t, err, &capErr)
}

func TestBoundaryNVariablesEqualsMax(t *testing.T) {
	_, err := ToDNF(encoding.Enc16{}, []uint64{clause(0, 1)}, 16, Scalar)
	assert.NoError(t, err)
}

func TestOptimizationLevelExceeded(t *testing.T) {
	_, err := ToDNF(encoding.Enc64{}, []uint64{clause(0, 1)}, 16, Avx512_8)
	require.Error(t, err)
	var optErr *OptimizationLevelExceededError
	assert.ErrorAs(t, err, &optErr)
}

func TestMinimalEqualsReferenceFiltered(t *testing.T) {
	cnf := []uint64{
		clause(1, 2), clause(3, 4), clause(1, 3), clause(5, 6), clause(2, 5), clause(4, 6),
	}
	pruned, err := ToDNFMinimal(encoding.Enc16{}, cnf, 8, Scalar)
	require.NoError(t, err)
	reference, err := ToDNFMinimalReference(encoding.Enc16{}, cnf, 8, Scalar)
	require.NoError(t, err)
	assert.Equal(t, termSet(t, reference), termSet(t, pruned))
}

func TestToDNFWithNames(t *testing.T) {
	clauses := [][]string{{"a", "b"}, {"c", "d"}}
	got, err := ToDNFWithNames(clauses, Scalar)
	require.NoError(t, err)

	want := [][]string{{"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}}
	assertSameTermSets(t, want, got)
}

func TestToDNFWithNamesRenameCommutes(t *testing.T) {
	clauses := [][]string{{"x", "y"}, {"z", "w"}, {"x", "z"}}
	rename := map[string]string{"x": "X", "y": "Y", "z": "Z", "w": "W"}

	direct, err := ToDNFWithNames(clauses, Scalar)
	require.NoError(t, err)
	renamedDirect := renameTerms(direct, rename)

	var renamedClauses [][]string
	for _, c := range clauses {
		var rc []string
		for _, name := range c {
			rc = append(rc, rename[name])
		}
		renamedClauses = append(renamedClauses, rc)
	}
	afterRename, err := ToDNFWithNames(renamedClauses, Scalar)
	require.NoError(t, err)

	assertSameTermSets(t, renamedDirect, afterRename)
}

func renameTerms(terms [][]string, rename map[string]string) [][]string {
	out := make([][]string, len(terms))
	for i, term := range terms {
		var rt []string
		for _, name := range term {
			rt = append(rt, rename[name])
		}
		out[i] = rt
	}
	return out
}

func assertSameTermSets(t *testing.T, want, got [][]string) {
	t.Helper()
	toSet := func(terms [][]string) map[string]bool {
		set := make(map[string]bool, len(terms))
		for _, term := range terms {
			key := ""
			for _, l := range term {
				key += l + ","
			}
			set[key] = true
		}
		return set
	}
	assert.Equal(t, toSet(want), toSet(got))
}

func TestToDNFWithNamesTooManyVariables(t *testing.T) {
	var clauses [][]string
	for i := 0; i < 65; i++ {
		clauses = append(clauses, []string{string(rune('a' + i%26)) + string(rune('0' + i/26))})
	}
	_, err := ToDNFWithNames(clauses, Scalar)
	require.Error(t, err)
	var tooMany *TooManyVariablesError
	assert.ErrorAs(t, err, &tooMany)
}

func TestOptLevelDetectBestAlwaysSucceeds(t *testing.T) {
	for _, n := range []int{1, 8, 16, 32, 64} {
		lvl := DetectBest(n)
		assert.True(t, lvl.IsSupported())
	}
}
