// Package pes holds potential energy surface samples and the sources that
// produce them.
//
// A [Source] maps a bond separation in bohr to a total energy in hartree.
// [Program] drives an external electronic-structure code, [Model] evaluates
// a closed-form surface, and [Cached] memoizes either through a [Cache].
// [Sweep] evaluates a source over many separations concurrently and returns
// an immutable [SampleSet].
package pes
