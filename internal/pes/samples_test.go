package pes

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/diatomic/internal/field"
)

func TestNewSampleSet_Validation(t *testing.T) {
	tests := []struct {
		name string
		rs   []float64
		es   []float64
		ok   bool
	}{
		{"valid", []float64{1, 2, 3, 4}, []float64{0, -1, -0.5, 0}, true},
		{"three points", []float64{1, 2, 3}, []float64{0, 1, 2}, false},
		{"duplicate", []float64{1, 2, 2, 3}, []float64{0, 1, 2, 3}, false},
		{"unsorted", []float64{1, 3, 2, 4}, []float64{0, 1, 2, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampleSet(tt.rs, tt.es)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, field.ErrConstruction) {
				t.Fatalf("expected construction error, got %v", err)
			}
		})
	}
}

func TestSampleSet_Immutable(t *testing.T) {
	rs := []float64{1, 2, 3, 4}
	es := []float64{3, 1, 0, 2}
	s, err := NewSampleSet(rs, es)
	if err != nil {
		t.Fatal(err)
	}

	rs[0] = 99
	got := s.Separations()
	got[1] = 99
	if s.At(0).R != 1 || s.At(1).R != 2 {
		t.Error("sample set shares storage with caller")
	}
	if lo, hi := s.Domain(); lo != 1 || hi != 4 {
		t.Errorf("domain = [%g, %g]", lo, hi)
	}
}

func TestSampleSet_ShiftAndScale(t *testing.T) {
	s, err := NewSampleSet([]float64{1, 2, 3, 4}, []float64{-100.5, -101, -100.8, -100.2})
	if err != nil {
		t.Fatal(err)
	}

	shifted := s.Shift(-101)
	if e := shifted.At(1).Energy; e != 0 {
		t.Errorf("shifted minimum = %g", e)
	}
	if s.At(1).Energy != -101 {
		t.Error("Shift modified the original")
	}

	scaled, err := s.ScaleSeparations(2)
	if err != nil {
		t.Fatal(err)
	}
	if r := scaled.At(3).R; r != 8 {
		t.Errorf("scaled separation = %g", r)
	}

	if _, err := s.ScaleSeparations(-1); !errors.Is(err, field.ErrConstruction) {
		t.Errorf("negative scale should reverse the order, got %v", err)
	}
}

func TestSampleSet_Interpolate(t *testing.T) {
	m := HFMorse()
	rs := []float64{1.4, 1.5, 1.6, 1.7, 1.8, 1.9, 2.0, 2.2}
	s, err := Sweep(t.Context(), Model{Field: m}, rs, 0)
	if err != nil {
		t.Fatal(err)
	}
	spline, err := s.Interpolate(field.NotAKnot)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		if got := spline.Evaluate(p.R); math.Abs(got-p.Energy) > 1e-9*math.Abs(p.Energy) {
			t.Errorf("spline(%g) = %g, want %g", p.R, got, p.Energy)
		}
	}
}

func TestCSV(t *testing.T) {
	s, err := NewSampleSet([]float64{1.5, 1.6, 1.7, 1.8}, []float64{-100.01, -100.02, -100.015, -100.005})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.WriteCSV(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "r,energy\n") {
		t.Errorf("missing header: %q", buf.String())
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if back.Len() != s.Len() || back.At(2) != s.At(2) {
		t.Errorf("round trip mismatch: %v vs %v", back.At(2), s.At(2))
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"one column", "1.0\n2.0\n3.0\n4.0\n"},
		{"bad number", "r,energy\n1,2\nx,3\n3,4\n4,5\n"},
		{"too few rows", "# comment\n1,2\n2,3\n"},
		{"bad first row", "1.0,oops\n2,1\n3,2\n4,3\n5,4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadCSV_FirstRow(t *testing.T) {
	ss, err := ReadCSV(strings.NewReader("r,energy\n1,0\n2,1\n3,2\n4,3\n"))
	if err != nil {
		t.Fatalf("header row rejected: %v", err)
	}
	if ss.Len() != 4 || ss.At(0).R != 1 {
		t.Errorf("got %d samples starting at %+v", ss.Len(), ss.At(0))
	}

	_, err = ReadCSV(strings.NewReader("1.0,oops\n2,1\n3,2\n4,3\n5,4\n"))
	var ce *field.ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConstructionError, got %v", err)
	}
	if ce.Index != 0 || !errors.Is(err, field.ErrConstruction) {
		t.Errorf("unexpected error: %v", err)
	}
}
