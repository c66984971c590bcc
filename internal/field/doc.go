// Package field provides smooth one-dimensional scalar fields.
//
// A [Field] can be evaluated and differentiated exactly. Differentiation
// returns a new, independently owned Field, so derived quantities can be
// built by composition:
//
//   - [PiecewisePoly]: cubic-spline interpolant built from samples
//   - [Polynomial]: closed-form polynomial, e.g. a harmonic well
//   - [Morse]: closed-form Morse potential and its derivatives
//
// The energy, force and curvature of a potential are related by
//
//	force := field.ForceField(energy)     // -dE/dr
//	curv := field.Curvature(energy)       // d²E/dr²
//
// # Thread Safety
//
// Fields are immutable after construction and safe for concurrent use. The
// hook passed to [Guard] must itself be safe for concurrent use when the
// guarded field is shared.
package field
