package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.RecordSteps("abinitio", 999)
	r.RecordSteps("abinitio", 1)
	r.RecordSteps("harmonic", 0)
	r.RecordExtrapolation("abinitio")
	r.RecordEnergyEvaluation()
	r.RecordCacheLookup(true)
	r.RecordCacheLookup(false)
	r.RecordCacheLookup(false)

	if v := testutil.ToFloat64(r.StepsTotal.WithLabelValues("abinitio")); v != 1000 {
		t.Errorf("steps[abinitio] = %g, want 1000", v)
	}
	if v := testutil.ToFloat64(r.ExtrapolationsTotal.WithLabelValues("abinitio")); v != 1 {
		t.Errorf("extrapolations = %g, want 1", v)
	}
	if v := testutil.ToFloat64(r.EnergyEvaluationsTotal); v != 1 {
		t.Errorf("energy evaluations = %g, want 1", v)
	}
	if v := testutil.ToFloat64(r.CacheLookupsTotal.WithLabelValues("miss")); v != 2 {
		t.Errorf("cache misses = %g, want 2", v)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.RecordSteps("x", 1)
	r.RecordExtrapolation("x")
	r.RecordEnergyEvaluation()
	r.RecordCacheLookup(true)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Error(err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.RecordSteps("abinitio", 10)

	path := filepath.Join(t.TempDir(), "diatomic.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `diatomic_dynamics_steps_total{run="abinitio"} 10`) {
		t.Errorf("textfile missing step counter:\n%s", data)
	}
}
