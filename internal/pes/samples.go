package pes

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/diatomic/internal/field"
)

// Sample is one (separation, energy) pair.
type Sample struct {
	R      float64 `json:"r"`
	Energy float64 `json:"energy"`
}

// SampleSet is an immutable sequence of samples with strictly increasing
// separations.
type SampleSet struct {
	r []float64
	e []float64
}

// NewSampleSet validates and copies the parallel slices rs and es.
func NewSampleSet(rs, es []float64) (SampleSet, error) {
	if err := field.ValidateKnots(rs, es); err != nil {
		return SampleSet{}, err
	}
	s := SampleSet{
		r: make([]float64, len(rs)),
		e: make([]float64, len(es)),
	}
	copy(s.r, rs)
	copy(s.e, es)
	return s, nil
}

func (s SampleSet) Len() int { return len(s.r) }

func (s SampleSet) At(i int) Sample {
	return Sample{R: s.r[i], Energy: s.e[i]}
}

// Separations returns a copy of the separations.
func (s SampleSet) Separations() []float64 {
	out := make([]float64, len(s.r))
	copy(out, s.r)
	return out
}

// Energies returns a copy of the energies.
func (s SampleSet) Energies() []float64 {
	out := make([]float64, len(s.e))
	copy(out, s.e)
	return out
}

// Domain is the closed interval spanned by the separations.
func (s SampleSet) Domain() (lo, hi float64) {
	if len(s.r) == 0 {
		return 0, 0
	}
	return s.r[0], s.r[len(s.r)-1]
}

// Shift returns a new set with e0 subtracted from every energy.
func (s SampleSet) Shift(e0 float64) SampleSet {
	out := SampleSet{r: s.Separations(), e: make([]float64, len(s.e))}
	for i, e := range s.e {
		out.e[i] = e - e0
	}
	return out
}

// ScaleSeparations returns a new set with every separation multiplied by f,
// e.g. to convert ångström to bohr. f must be positive.
func (s SampleSet) ScaleSeparations(f float64) (SampleSet, error) {
	rs := make([]float64, len(s.r))
	for i, r := range s.r {
		rs[i] = r * f
	}
	return NewSampleSet(rs, s.e)
}

// Map returns a new set with fn applied to every sample's energy.
func (s SampleSet) Map(fn func(r, e float64) float64) SampleSet {
	out := SampleSet{r: s.Separations(), e: make([]float64, len(s.e))}
	for i := range s.r {
		out.e[i] = fn(s.r[i], s.e[i])
	}
	return out
}

// Interpolate builds the cubic spline through the samples.
func (s SampleSet) Interpolate(bc field.Boundary) (*field.PiecewisePoly, error) {
	return field.NewCubicSpline(s.r, s.e, bc)
}

// WriteCSV writes a header and one "r,energy" row per sample.
func (s SampleSet) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"r", "energy"}); err != nil {
		return err
	}
	for i := range s.r {
		row := []string{
			strconv.FormatFloat(s.r[i], 'g', -1, 64),
			strconv.FormatFloat(s.e[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV. A header row is optional; blank
// lines and lines starting with '#' are skipped.
func ReadCSV(r io.Reader) (SampleSet, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return SampleSet{}, fmt.Errorf("pes: read samples: %w", err)
	}

	var rs, es []float64
	for i, rec := range records {
		if len(rec) < 2 {
			return SampleSet{}, fmt.Errorf("pes: line %d: expected 2 columns, got %d", i+1, len(rec))
		}
		rv, errR := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		ev, errE := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errR != nil && errE != nil && i == 0 {
			continue
		}
		if errR != nil || errE != nil {
			return SampleSet{}, fmt.Errorf("pes: line %d: %w", i+1,
				&field.ConstructionError{Index: len(rs), Reason: fmt.Sprintf("invalid number in %q", rec)})
		}
		rs = append(rs, rv)
		es = append(es, ev)
	}
	return NewSampleSet(rs, es)
}
