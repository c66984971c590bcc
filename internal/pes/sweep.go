package pes

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diatomic/internal/field"
)

// Sweep evaluates src at every separation in rs and returns the resulting
// sample set. Up to workers evaluations run at once (workers <= 0 means no
// limit). The first failure cancels the remaining evaluations.
func Sweep(ctx context.Context, src Source, rs []float64, workers int) (SampleSet, error) {
	if err := field.ValidateKnots(rs, make([]float64, len(rs))); err != nil {
		return SampleSet{}, err
	}

	es := make([]float64, len(rs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, r := range rs {
		g.Go(func() error {
			e, err := src.Energy(gctx, r)
			if err != nil {
				return fmt.Errorf("pes: energy at r=%g: %w", r, err)
			}
			es[i] = e
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SampleSet{}, err
	}
	return NewSampleSet(rs, es)
}
