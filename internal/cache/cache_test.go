package cache

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/pes"
)

var _ pes.Cache = (*Store)(nil)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetPut(t *testing.T) {
	s := openMemory(t)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := s.Put("scf/1.7", -100.0193917412345); err != nil {
		t.Fatal(err)
	}
	e, ok, err := s.Get("scf/1.7")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if e != -100.0193917412345 {
		t.Errorf("energy = %v, lost precision", e)
	}

	if err := s.Put("scf/1.7", -1); err != nil {
		t.Fatal(err)
	}
	if e, _, _ := s.Get("scf/1.7"); e != -1 {
		t.Errorf("overwrite: energy = %v", e)
	}
}

func TestStore_Keys(t *testing.T) {
	s := openMemory(t)
	for _, k := range []string{"mp2/1", "scf/2", "scf/1"} {
		if err := s.Put(k, 0); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := s.Keys("scf/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "scf/1" || keys[1] != "scf/2" {
		t.Errorf("keys = %v", keys)
	}
}

func TestStore_Persistent(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(DefaultConfig(dir))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k", 3.25); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(DefaultConfig(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if e, ok, err := s.Get("k"); err != nil || !ok || e != 3.25 {
		t.Errorf("reopened: e=%v ok=%v err=%v", e, ok, err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error without a path")
	}
}

func TestStore_BacksCachedSource(t *testing.T) {
	s := openMemory(t)
	var misses atomic.Int64
	src := &pes.Cached{
		Source:    pes.Model{Field: field.Harmonic(2, 1, 0)},
		Cache:     s,
		Namespace: "harmonic",
		OnLookup: func(hit bool) {
			if !hit {
				misses.Add(1)
			}
		},
	}

	rs := []float64{0.5, 1, 1.5, 2}
	for pass := 0; pass < 2; pass++ {
		set, err := pes.Sweep(context.Background(), src, rs, 2)
		if err != nil {
			t.Fatal(err)
		}
		if e := set.At(3).Energy; e != 1 {
			t.Errorf("pass %d: energy = %g", pass, e)
		}
	}
	if n := misses.Load(); n != int64(len(rs)) {
		t.Errorf("misses = %d, want %d", n, len(rs))
	}
}
