package metrics

import (
	"math"

	"github.com/san-kum/diatomic/internal/dynamo"
)

// Deviation is the largest |r - oracle(t)| over the observed states.
type Deviation struct {
	name    string
	oracle  func(t float64) float64
	maxDev  float64
	samples int
}

func NewDeviation(oracle func(t float64) float64) *Deviation {
	return &Deviation{
		name:   "max_deviation",
		oracle: oracle,
	}
}

func (d *Deviation) Name() string {
	return d.name
}

func (d *Deviation) Observe(i int, t float64, x dynamo.State) {
	d.maxDev = math.Max(d.maxDev, math.Abs(x.R-d.oracle(t)))
	d.samples++
}

func (d *Deviation) Value() float64 {
	return d.maxDev
}

func (d *Deviation) Reset() {
	d.maxDev = 0
	d.samples = 0
}
