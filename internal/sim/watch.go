package sim

import (
	"log/slog"
	"sync/atomic"

	"github.com/san-kum/diatomic/internal/dynamo"
	"github.com/san-kum/diatomic/internal/field"
	"github.com/san-kum/diatomic/internal/telemetry"
)

// ExtrapolationWatch reports force evaluations outside the fitted interval
// [lo, hi]. The first excursion of a run is logged as a warning with the
// step it happened in; later ones are only counted.
type ExtrapolationWatch struct {
	run       string
	lo, hi    float64
	logger    *slog.Logger
	telemetry *telemetry.Recorder

	step  atomic.Int64 // index of the state under integration
	count atomic.Int64
}

// NewExtrapolationWatch creates a watch for run. A nil logger means
// slog.Default().
func NewExtrapolationWatch(run string, lo, hi float64, logger *slog.Logger, rec *telemetry.Recorder) *ExtrapolationWatch {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtrapolationWatch{run: run, lo: lo, hi: hi, logger: logger, telemetry: rec}
}

// Wrap guards force with this watch.
func (w *ExtrapolationWatch) Wrap(force field.Field) field.Field {
	return field.Guard(force, w.lo, w.hi, w.hook)
}

func (w *ExtrapolationWatch) hook(r float64) {
	n := w.count.Add(1)
	w.telemetry.RecordExtrapolation(w.run)
	if n == 1 {
		w.logger.Warn("force evaluated outside fitted domain",
			slog.String("run", w.run),
			slog.Float64("r", r),
			slog.Float64("lo", w.lo),
			slog.Float64("hi", w.hi),
			slog.Int64("step", w.step.Load()),
		)
	}
}

// Observe records that state i is done; force evaluations that follow
// belong to state i+1.
func (w *ExtrapolationWatch) Observe(i int, t float64, x dynamo.State) {
	w.step.Store(int64(i + 1))
}

// Count is the number of excursions seen so far.
func (w *ExtrapolationWatch) Count() int {
	return int(w.count.Load())
}

// LogSummary logs the total excursion count if there were any.
func (w *ExtrapolationWatch) LogSummary() {
	if n := w.count.Load(); n > 0 {
		w.logger.Warn("trajectory left fitted domain",
			slog.String("run", w.run),
			slog.Int64("evaluations", n),
			slog.Any("error", dynamo.ErrExtrapolation),
		)
	}
}
