// Package analysis characterizes vibrational trajectories.
//
//   - [DominantFrequency]: spectral peak of a sampled signal
//   - [Crossings], [MeanPeriod]: period from upward crossings of r_eq
//   - [NewPhasePortrait]: (r, v) phase space points and ASCII rendering
//
// Frequencies measured this way include the anharmonicity of the surface,
// so for a finite amplitude they sit slightly below the harmonic ω/2π.
package analysis
