package cnfdnf

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/cpu"
)

// OptLevel selects which kernel implementation backs a CNF→DNF call
//. AutoDetect probes real CPU features via golang.org/x/sys/cpu
// and is resolved to a concrete level before any kernel call; the
// concrete levels let a caller pin a specific lane width for
// benchmarking or to reproduce a result regardless of the host CPU.
type OptLevel int

const (
	AutoDetect OptLevel = iota
	Scalar
	Avx2_64
	Avx512_8
	Avx512_16
	Avx512_32
	Avx512_64
)

// MaxBits returns the largest n_variables this level can handle. For
// AutoDetect this is the ceiling across every concrete level (64); a
// pinned Avx512_W level is capped at W.
func (o OptLevel) MaxBits() int {
	switch o {
	case Avx512_8:
		return 8
	case Avx512_16:
		return 16
	case Avx512_32:
		return 32
	case Avx512_64, Avx2_64, Scalar, AutoDetect:
		return 64
	default:
		return 0
	}
}

func (o OptLevel) String() string {
	switch o {
	case AutoDetect:
		return "Auto-detect"
	case Scalar:
		return "Scalar"
	case Avx2_64:
		return "AVX2 (64-bit)"
	case Avx512_8:
		return "AVX-512 (8-bit)"
	case Avx512_16:
		return "AVX-512 (16-bit)"
	case Avx512_32:
		return "AVX-512 (32-bit)"
	case Avx512_64:
		return "AVX-512 (64-bit)"
	default:
		return fmt.Sprintf("OptLevel(%d)", int(o))
	}
}

var (
	cpuOnce     sync.Once
	hasAVX512   bool
	hasAVX2     bool
)

// probeCPU caches CPU feature detection in process-wide immutable state:
// it is a read-only query that never changes after process start.
func probeCPU() {
	cpuOnce.Do(func() {
		hasAVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW
		hasAVX2 = cpu.X86.HasAVX2
		logrus.Debugf("cnfdnf: cpu feature probe: avx512=%v avx2=%v", hasAVX512, hasAVX2)
	})
}

// IsSupported reports whether the host CPU actually has the instruction
// set a concrete level requires. AutoDetect and Scalar are always
// supported.
func (o OptLevel) IsSupported() bool {
	switch o {
	case AutoDetect, Scalar:
		return true
	case Avx512_8, Avx512_16, Avx512_32, Avx512_64:
		probeCPU()
		return hasAVX512
	case Avx2_64:
		probeCPU()
		return hasAVX2
	default:
		return false
	}
}

// DetectBest performs the AutoDetect probe: the narrowest AVX-512 lane whose
// width >= nVariables (64-bit lanes beyond that), else AVX2-64, else scalar.
func DetectBest(nVariables int) OptLevel {
	probeCPU()
	if hasAVX512 {
		switch {
		case nVariables <= 8:
			return Avx512_8
		case nVariables <= 16:
			return Avx512_16
		case nVariables <= 32:
			return Avx512_32
		default:
			return Avx512_64
		}
	}
	if hasAVX2 && nVariables <= 64 {
		return Avx2_64
	}
	return Scalar
}

// Resolve turns AutoDetect into a concrete level for nVariables. Any
// other level is returned unchanged — pinning a level on hardware that
// lacks it is not a Resolve-time error; it silently falls back to the
// scalar kernel at call time.
func (o OptLevel) Resolve(nVariables int) OptLevel {
	if o == AutoDetect {
		return DetectBest(nVariables)
	}
	return o
}

// effective returns the level to actually dispatch the scan kernels
// with: o resolved, and silently downgraded to Scalar if the host lacks
// the pinned instruction set.
func (o OptLevel) effective(nVariables int) OptLevel {
	resolved := o.Resolve(nVariables)
	if !resolved.IsSupported() {
		logrus.Warnf("cnfdnf: %s requested but unsupported on this CPU, falling back to scalar", resolved)
		return Scalar
	}
	return resolved
}
