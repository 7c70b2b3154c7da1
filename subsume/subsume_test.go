package subsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideAbsorbed(t *testing.T) {
	// q = 0b001 subsumes z = 0b011 (q | z == z), so z is absorbed.
	l := []uint64{0b001, 0b100}
	d := Decide(l, 0b011)
	assert.True(t, d.Skip)
}

func TestDecideSubsumes(t *testing.T) {
	// z = 0b001 subsumes q = 0b011 and q = 0b101 (z|q == q); neither
	// subsumes z, so z is added and both are marked for deletion.
	l := []uint64{0b011, 0b101, 0b010}
	d := Decide(l, 0b001)
	require.False(t, d.Skip)
	assert.ElementsMatch(t, []int{0, 1}, d.Delete)
}

func TestDecideDisjoint(t *testing.T) {
	l := []uint64{0b100}
	d := Decide(l, 0b001)
	require.False(t, d.Skip)
	assert.Empty(t, d.Delete)
}

func TestCompact(t *testing.T) {
	l := []uint64{0b011, 0b101, 0b010}
	d := Decide(l, 0b001)
	out := Compact(l, d, 0b001)
	assert.ElementsMatch(t, []uint64{0b010, 0b001}, out)
}

func TestCompactPanicsOnSkip(t *testing.T) {
	assert.Panics(t, func() {
		Compact(nil, Decision{Skip: true}, 0)
	})
}

func TestLaneResolve(t *testing.T) {
	assert.Equal(t, Lane8, Resolve(3))
	assert.Equal(t, Lane8, Resolve(8))
	assert.Equal(t, Lane16, Resolve(9))
	assert.Equal(t, Lane64, Resolve(40))
}

func variantFuncs() map[string]func([]uint64, uint64) Decision {
	return map[string]func([]uint64, uint64) Decision{
		"lanes8":  DecideLanes8,
		"lanes16": DecideLanes16,
		"lanes32": DecideLanes32,
		"lanes64": DecideLanes64,
		"avx2_64": DecideAVX2_64,
	}
}

func equalDecision(t *testing.T, want, got Decision, msg string) {
	t.Helper()
	require.Equal(t, want.Skip, got.Skip, msg)
	if !want.Skip {
		assert.ElementsMatch(t, want.Delete, got.Delete, msg)
	}
}

func TestSIMDVariantsMatchScalar_Fixed(t *testing.T) {
	l := []uint64{0b0001, 0b0110, 0b1010, 0b1111, 0b0100, 0b1001, 0b0011, 0b1100, 0b0101, 0b1110}
	for _, z := range []uint64{0b0001, 0b0010, 0b1111, 0b0000, 0b1010} {
		want := Decide(l, z)
		for name, fn := range variantFuncs() {
			equalDecision(t, want, fn(l, z), name)
		}
	}
}

func TestSIMDVariantsMatchScalar_RandomizedProperty(t *testing.T) {
	const seeds = 10000
	rng := newPRNG(1)
	for i := 0; i < seeds; i++ {
		n := int(rng.next() % 40)
		l := make([]uint64, n)
		for j := range l {
			l[j] = rng.next() & 0xFFFF
		}
		z := rng.next() & 0xFFFF
		want := Decide(l, z)
		for name, fn := range variantFuncs() {
			equalDecision(t, want, fn(l, z), name)
		}
	}
}

// newPRNG returns a tiny deterministic xorshift64* generator so the
// property test above doesn't depend on math/rand's algorithm changing
// across Go versions (it has, historically) — the point of the test is
// stable, reproducible seeds, not cryptographic quality randomness.
func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &prng{state: seed}
}

type prng struct{ state uint64 }

func (p *prng) next() uint64 {
	x := p.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	p.state = x
	return x * 0x2545F4914F6CDD1D
}
