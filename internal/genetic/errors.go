package genetic

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned before a run starts when a parameter is out of range
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrPermutationInvariant signals an individual that is not a permutation of
// the point indices. It indicates an operator bug and is never recoverable.
var ErrPermutationInvariant = errors.New("permutation invariant violated")

// ConfigError names the offending configuration field
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ValidatePermutation checks that genes holds each of 0..n-1 exactly once
func ValidatePermutation(genes []int, n int) error {
	if len(genes) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrPermutationInvariant, len(genes), n)
	}
	seen := make([]bool, n)
	for pos, g := range genes {
		if g < 0 || g >= n {
			return fmt.Errorf("%w: gene %d at position %d out of range", ErrPermutationInvariant, g, pos)
		}
		if seen[g] {
			return fmt.Errorf("%w: gene %d repeated at position %d", ErrPermutationInvariant, g, pos)
		}
		seen[g] = true
	}
	return nil
}
