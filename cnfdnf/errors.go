package cnfdnf

import "fmt"

// EncodingCapacityExceededError reports that n_variables exceeds the
// selected encoding's N_max.
type EncodingCapacityExceededError struct {
	NBits   int
	MaxVars int
}

func (e *EncodingCapacityExceededError) Error() string {
	return fmt.Sprintf("n_bits (%d) exceeds encoding maximum (%d)", e.NBits, e.MaxVars)
}

// OptimizationLevelExceededError reports that a pinned OptLevel's lane
// width is narrower than n_variables.
type OptimizationLevelExceededError struct {
	NBits        int
	Optimization OptLevel
	MaxBits      int
}

func (e *OptimizationLevelExceededError) Error() string {
	return fmt.Sprintf("n_bits (%d) exceeds %s maximum (%d bits)", e.NBits, e.Optimization, e.MaxBits)
}

// TooManyVariablesError reports that the named-variant input uses more
// than 64 distinct variable names.
type TooManyVariablesError struct {
	NVariables int
}

func (e *TooManyVariablesError) Error() string {
	return fmt.Sprintf("too many different variables; found %d variables", e.NVariables)
}
