package field

import (
	"errors"
	"fmt"
	"math"
)

// MinKnots is the smallest sample count a cubic interpolant accepts.
const MinKnots = 4

// ErrConstruction indicates malformed or insufficient sample data.
var ErrConstruction = errors.New("field: cannot construct interpolant")

// ConstructionError describes why a sample set was rejected.
// Index is the offending sample, or -1 when the whole set is at fault.
type ConstructionError struct {
	Index  int
	Reason string
}

func (e *ConstructionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrConstruction, e.Reason)
	}
	return fmt.Sprintf("%v: sample %d: %s", ErrConstruction, e.Index, e.Reason)
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstruction
}

// ValidateKnots checks that xs and ys form a usable sample set: equal
// lengths, at least MinKnots points, finite values and strictly increasing
// xs.
func ValidateKnots(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return &ConstructionError{Index: -1, Reason: fmt.Sprintf("length mismatch: %d separations, %d energies", len(xs), len(ys))}
	}
	if len(xs) < MinKnots {
		return &ConstructionError{Index: -1, Reason: fmt.Sprintf("need at least %d points, got %d", MinKnots, len(xs))}
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			return &ConstructionError{Index: i, Reason: "non-finite value"}
		}
		if i > 0 && xs[i] <= xs[i-1] {
			if xs[i] == xs[i-1] {
				return &ConstructionError{Index: i, Reason: fmt.Sprintf("duplicate separation %g", xs[i])}
			}
			return &ConstructionError{Index: i, Reason: fmt.Sprintf("separations not increasing (%g after %g)", xs[i], xs[i-1])}
		}
	}
	return nil
}
