package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
)

var (
	_ dynamo.Metric = (*Energy)(nil)
	_ dynamo.Metric = (*EnergyDrift)(nil)
	_ dynamo.Metric = (*Deviation)(nil)
	_ dynamo.Metric = (*Excursion)(nil)
)

func TestEnergy(t *testing.T) {
	m := NewEnergy(field.Harmonic(2, 1, -100), 4).WithReference(-100)

	x := dynamo.State{R: 1.5, V: 0.5}
	m.Observe(0, 0, x)

	// ½·4·0.25 + ½·2·0.25
	expected := 0.75
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(field.Harmonic(1, 0, 0), 1)

	m.Observe(0, 0, dynamo.State{R: 1})
	m.Observe(1, 1, dynamo.State{R: 0, V: 1})
	if m.Value() != 0 {
		t.Errorf("conserved energy drift = %g", m.Value())
	}

	m.Observe(2, 2, dynamo.State{R: 0, V: math.Sqrt(1.1)})
	m.Observe(3, 3, dynamo.State{R: 1})
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("drift = %g, want max 0.1", m.Value())
	}

	m.Reset()
	m.Observe(0, 0, dynamo.State{R: 2})
	if m.Value() != 0 {
		t.Error("reset did not forget the initial energy")
	}
}

func TestEnergyDrift_Reference(t *testing.T) {
	raw := NewEnergyDrift(field.Harmonic(1, 0, -100), 1)
	rel := NewEnergyDrift(field.Harmonic(1, 0, -100), 1).WithReference(-100)
	for i, x := range []dynamo.State{{R: 1}, {R: 0, V: 1.1}} {
		raw.Observe(i, float64(i), x)
		rel.Observe(i, float64(i), x)
	}
	if raw.Value() >= rel.Value() {
		t.Errorf("drift relative to the total energy (%g) should be smaller than to the vibrational energy (%g)", raw.Value(), rel.Value())
	}
}

func TestDeviation(t *testing.T) {
	d := NewDeviation(math.Sin)
	d.Observe(0, 0, dynamo.State{R: 0.01})
	d.Observe(1, math.Pi/2, dynamo.State{R: 0.97})
	if math.Abs(d.Value()-0.03) > 1e-12 {
		t.Errorf("max deviation = %g", d.Value())
	}
}

func TestExcursion(t *testing.T) {
	e := NewExcursion(1, 2)
	for i, r := range []float64{0.5, 1, 1.5, 2, 2.5} {
		e.Observe(i, 0, dynamo.State{R: r})
	}
	if v := e.Value(); v != 0.4 {
		t.Errorf("excursion fraction = %g, want 0.4", v)
	}
	e.Reset()
	if e.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
