package metrics

import (
	"github.com/san-kum/diatomic/internal/dynamo"
)

// Excursion is the fraction of observed states whose separation lies
// outside [lo, hi], the interval the surface was fitted on.
type Excursion struct {
	name       string
	lo, hi     float64
	violations int
	samples    int
}

func NewExcursion(lo, hi float64) *Excursion {
	return &Excursion{
		name: "excursion",
		lo:   lo,
		hi:   hi,
	}
}

func (e *Excursion) Name() string {
	return e.name
}

func (e *Excursion) Observe(i int, t float64, x dynamo.State) {
	e.samples++
	if x.R < e.lo || x.R > e.hi {
		e.violations++
	}
}

func (e *Excursion) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.violations) / float64(e.samples)
}

func (e *Excursion) Reset() {
	e.violations = 0
	e.samples = 0
}
