package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/diatomic/internal/dynamo"
)

func sinusoid(nu, dt, phase float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.7 + 0.2*math.Sin(2*math.Pi*nu*float64(i)*dt+phase)
	}
	return out
}

func oscillation(omega, dt float64, n int) *dynamo.Trajectory {
	traj := &dynamo.Trajectory{Dt: dt}
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		traj.Times = append(traj.Times, t)
		traj.States = append(traj.States, dynamo.State{R: 2 + 0.1*math.Sin(omega*t), V: 0.1 * omega * math.Cos(omega*t)})
	}
	return traj
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		nu, dt float64
		n      int
	}{
		{0.3737, 0.1, 1000},
		{0.05, 1, 300},
		{0.0030659, 0.1, 10000},
	}
	for _, tt := range tests {
		got, err := DominantFrequency(sinusoid(tt.nu, tt.dt, 0.4, tt.n), tt.dt)
		if err != nil {
			t.Fatal(err)
		}
		if rel := math.Abs(got-tt.nu) / tt.nu; rel > 5e-3 {
			t.Errorf("nu=%g: got %g (relative error %g)", tt.nu, got, rel)
		}
	}
}

func TestDominantFrequency_Errors(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2, 3}, 0.1); !errors.Is(err, ErrShortSignal) {
		t.Errorf("expected ErrShortSignal, got %v", err)
	}
	if _, err := DominantFrequency([]float64{1, 1, 1, 1, 1, 1}, 0.1); err == nil {
		t.Error("expected error for constant signal")
	}
}

func TestPowerSpectrum_Length(t *testing.T) {
	ps := PowerSpectrum(sinusoid(0.1, 1, 0, 100), 256)
	if len(ps) != 128 {
		t.Errorf("len = %d, want 128", len(ps))
	}
	peak := 0
	for k := range ps {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != 25 && peak != 26 {
		t.Errorf("peak at bin %d, want 25 or 26", peak)
	}
}

func TestMeanPeriod(t *testing.T) {
	omega := 2 * math.Pi / 50
	traj := oscillation(omega, 0.1, 3000)

	c := Crossings(traj, 2)
	if len(c) < 5 {
		t.Fatalf("only %d crossings", len(c))
	}
	if p := MeanPeriod(traj, 2); math.Abs(p-50) > 1e-3 {
		t.Errorf("period = %g, want 50", p)
	}
	if MeanPeriod(traj, 5) != 0 {
		t.Error("expected zero period when the threshold is never crossed")
	}
}

func TestPhasePortrait(t *testing.T) {
	traj := oscillation(1, 0.05, 200)
	p := NewPhasePortrait(traj)
	if len(p.Points) != 200 || p.Points[0].X != traj.States[0].R {
		t.Fatalf("points = %d", len(p.Points))
	}

	out := p.ASCII(40, 12, 2)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d rows", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 40 {
			t.Errorf("row width %d", n)
		}
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Errorf("portrait missing points or axes:\n%s", out)
	}

	if (&PhasePortrait{}).ASCII(10, 10, 0) != "" {
		t.Error("empty portrait should render nothing")
	}
}
