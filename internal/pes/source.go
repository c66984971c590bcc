package pes

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/san-kum/diatomic/internal/field"
)

var (
	// ErrEnergyNotFound indicates program output without a parsable energy.
	ErrEnergyNotFound = errors.New("pes: energy not found in program output")

	// ErrProgramFailed indicates the electronic-structure program exited
	// with an error.
	ErrProgramFailed = errors.New("pes: electronic-structure program failed")
)

// Source maps a bond separation (bohr) to a total energy (hartree).
// Implementations may be slow and must be safe for concurrent use.
type Source interface {
	Energy(ctx context.Context, r float64) (float64, error)
}

// Model evaluates a closed-form field as if it were an electronic-structure
// calculation.
type Model struct {
	Field field.Field
}

func (m Model) Energy(ctx context.Context, r float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.Field.Evaluate(r), nil
}

// Cache stores energies by key.
type Cache interface {
	Get(key string) (float64, bool, error)
	Put(key string, energy float64) error
}

// Cached memoizes another source. Keys are Namespace followed by the
// separation in shortest round-trip form, so different levels of theory
// sharing a cache must use distinct namespaces.
type Cached struct {
	Source    Source
	Cache     Cache
	Namespace string

	// OnLookup, if set, is told whether each lookup was a hit.
	OnLookup func(hit bool)
}

// Key is the cache key used for separation r.
func (c *Cached) Key(r float64) string {
	return c.Namespace + "/" + strconv.FormatFloat(r, 'g', -1, 64)
}

func (c *Cached) Energy(ctx context.Context, r float64) (float64, error) {
	key := c.Key(r)
	e, ok, err := c.Cache.Get(key)
	if err != nil {
		return 0, fmt.Errorf("pes: cache lookup %s: %w", key, err)
	}
	if c.OnLookup != nil {
		c.OnLookup(ok)
	}
	if ok {
		return e, nil
	}

	e, err = c.Source.Energy(ctx, r)
	if err != nil {
		return 0, err
	}
	if err := c.Cache.Put(key, e); err != nil {
		return 0, fmt.Errorf("pes: cache store %s: %w", key, err)
	}
	return e, nil
}
